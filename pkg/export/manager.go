package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/ports"
)

// Catalog keys used when reporting failures.
const (
	MsgCloseFailed = "export.close_failed"
	MsgWriteFailed = "export.write_failed"
)

var fallbackMessages = map[string]string{
	MsgCloseFailed: "Failed to save the generated file",
	MsgWriteFailed: "Failed to write the generated file",
}

// Manager owns the single active export session.
type Manager struct {
	factory ports.SinkFactory

	mu     sync.Mutex
	active *Session

	reporter ports.Reporter
	catalog  ports.Catalog
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures the Manager.
type Option func(*Manager)

// WithReporter sets the user-visible error channel for close and write failures.
// It may be called from the goroutine completing Finish.
func WithReporter(r ports.Reporter) Option {
	return func(m *Manager) {
		m.reporter = r
	}
}

// WithCatalog localizes reported failures.
func WithCatalog(c ports.Catalog) Option {
	return func(m *Manager) {
		m.catalog = c
	}
}

// WithLogger configures a logger for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records session outcomes and bytes.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a Manager opening sinks through factory.
func NewManager(factory ports.SinkFactory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin aborts the active session, if any, then opens a new sink for name.
func (m *Manager) Begin(ctx context.Context, name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.abortLocked()
	}

	sink, err := m.factory.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open export %s: %w", name, err)
	}

	s := &Session{
		name:    name,
		manager: m,
		sink:    sink,
		state:   domain.SessionOpen,
	}
	m.active = s
	m.metrics.ExportStarted()
	m.logger.Debug("Export session opened", "name", name)
	return s, nil
}

// Write forwards chunk to the active session. Without an active session it
// does nothing; write failures are reported, not returned.
func (m *Manager) Write(chunk string) {
	m.mu.Lock()
	s := m.active
	m.mu.Unlock()

	if s == nil {
		return
	}
	_, _ = s.WriteString(chunk)
}

// Finish closes the active session asynchronously. The returned channel
// yields exactly one value: nil on success, the close error otherwise, or
// domain.ErrNoActiveSession when nothing was open. The active handle is
// cleared immediately so a following Begin never sees the closing session.
func (m *Manager) Finish(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	m.mu.Lock()
	s := m.active
	m.active = nil
	m.mu.Unlock()

	if s == nil {
		done <- domain.ErrNoActiveSession
		close(done)
		return done
	}

	sink, ok := s.beginClose()
	if !ok {
		done <- domain.ErrNoActiveSession
		close(done)
		return done
	}

	go func() {
		defer close(done)

		if err := ctx.Err(); err != nil {
			_ = sink.Abort()
			s.finishAbort()
			m.metrics.ExportEnded(observability.OutcomeAborted)
			done <- err
			return
		}

		if err := sink.Close(); err != nil {
			s.finishClose(err)
			m.metrics.ExportEnded(observability.OutcomeFailed)
			m.logger.Warn("Export close failed", "name", s.name, "err", err)
			m.report(MsgCloseFailed, err)
			done <- err
			return
		}

		s.finishClose(nil)
		m.metrics.ExportEnded(observability.OutcomeClosed)
		m.logger.Debug("Export session closed", "name", s.name, "bytes", s.BytesWritten())
		done <- nil
	}()

	return done
}

// Abort releases the active session's sink without flushing.
func (m *Manager) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.abortLocked()
	}
}

// Active returns the active session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Manager) abortLocked() {
	s := m.active
	m.active = nil

	released, err := s.abort()
	if !released {
		return
	}
	m.metrics.ExportEnded(observability.OutcomeAborted)
	if err != nil {
		m.logger.Warn("Failed to release aborted export", "name", s.name, "err", err)
		return
	}
	m.logger.Debug("Export session aborted", "name", s.name)
}

// sessionFailed detaches a session whose sink rejected a write.
func (m *Manager) sessionFailed(s *Session, err error) {
	m.mu.Lock()
	if m.active == s {
		m.active = nil
	}
	m.mu.Unlock()

	m.metrics.ExportEnded(observability.OutcomeFailed)
	m.logger.Warn("Export write failed", "name", s.name, "err", err)
	m.report(MsgWriteFailed, err)
}

func (m *Manager) report(key string, err error) {
	if m.reporter == nil {
		return
	}
	m.reporter.Report(m.message(key) + ": " + err.Error())
}

func (m *Manager) message(key string) string {
	if m.catalog != nil {
		if msg := m.catalog.GetString(key); msg != "" && msg != key {
			return msg
		}
	}
	return fallbackMessages[key]
}
