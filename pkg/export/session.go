package export

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/ports"
)

// Session is one in-flight streamed artifact.
// It is exclusively owned by the caller that opened it through Manager.Begin.
type Session struct {
	name    string
	manager *Manager

	mu      sync.Mutex
	sink    ports.Sink
	state   domain.SessionState
	written int64
	err     error
}

// Name returns the suggested file name the session was opened with.
func (s *Session) Name() string {
	return s.name
}

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BytesWritten returns how many bytes were forwarded to the sink.
func (s *Session) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Err returns the failure that moved the session to Failed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// WriteString encodes chunk as UTF-8 and forwards it to the sink.
// Unlike Manager.Write it reports why a chunk was not accepted, so producers
// can stop generating once the session is gone.
func (s *Session) WriteString(chunk string) (int, error) {
	s.mu.Lock()
	if !s.state.Active() {
		state := s.state
		s.mu.Unlock()
		if state == domain.SessionFailed {
			return 0, domain.ErrSessionFailed
		}
		return 0, domain.ErrNoActiveSession
	}

	n, err := io.WriteString(s.sink, chunk)
	s.written += int64(n)
	if err == nil {
		s.state = domain.SessionWriting
		s.mu.Unlock()
		s.manager.metrics.ExportBytes(n)
		return n, nil
	}

	err = fmt.Errorf("write %s: %w", s.name, err)
	s.failLocked(err)
	s.mu.Unlock()

	s.manager.sessionFailed(s, err)
	return n, domain.ErrSessionFailed
}

// Write implements io.Writer on top of WriteString.
func (s *Session) Write(p []byte) (int, error) {
	return s.WriteString(string(p))
}

// abort releases the sink without flushing. It reports whether the session
// was still active.
func (s *Session) abort() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Active() {
		return false, nil
	}
	s.state = domain.SessionAborted
	sink := s.sink
	s.sink = nil
	return true, sink.Abort()
}

// beginClose moves the session to Closing and hands over the sink.
func (s *Session) beginClose() (ports.Sink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Active() {
		return nil, false
	}
	s.state = domain.SessionClosing
	sink := s.sink
	s.sink = nil
	return sink, true
}

func (s *Session) finishClose(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = domain.SessionFailed
		s.err = err
		return
	}
	s.state = domain.SessionClosed
}

func (s *Session) finishAbort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.SessionAborted
}

// failLocked releases the sink after a write error. Caller holds s.mu.
func (s *Session) failLocked(err error) {
	s.state = domain.SessionFailed
	s.err = err
	if s.sink != nil {
		_ = s.sink.Abort()
		s.sink = nil
	}
}
