package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/aretw0/calform/pkg/ports"
)

var errSinkReleased = errors.New("sink already released")

// SinkFactory implements ports.SinkFactory by buffering artifacts in memory.
// An artifact is published under its name only when its sink is closed.
type SinkFactory struct {
	mu        sync.Mutex
	published map[string][]byte
	aborted   []string
}

// NewSinkFactory creates an empty in-memory sink factory.
func NewSinkFactory() *SinkFactory {
	return &SinkFactory{published: make(map[string][]byte)}
}

// Create opens a new buffered sink.
func (f *SinkFactory) Create(ctx context.Context, name string) (ports.Sink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &sink{factory: f, name: name}, nil
}

// Artifact returns the published content for name.
func (f *SinkFactory) Artifact(name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.published[name]
	return data, ok
}

// Aborted returns the names of sinks that were aborted, in order.
func (f *SinkFactory) Aborted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.aborted...)
}

type sink struct {
	factory  *SinkFactory
	name     string
	buf      bytes.Buffer
	released bool
}

func (s *sink) Write(p []byte) (int, error) {
	if s.released {
		return 0, errSinkReleased
	}
	return s.buf.Write(p)
}

func (s *sink) Close() error {
	if s.released {
		return errSinkReleased
	}
	s.released = true

	s.factory.mu.Lock()
	defer s.factory.mu.Unlock()
	s.factory.published[s.name] = bytes.Clone(s.buf.Bytes())
	return nil
}

func (s *sink) Abort() error {
	if s.released {
		return nil
	}
	s.released = true
	s.buf.Reset()

	s.factory.mu.Lock()
	defer s.factory.mu.Unlock()
	s.factory.aborted = append(s.factory.aborted, s.name)
	return nil
}
