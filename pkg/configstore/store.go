package configstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/aretw0/calform/pkg/registry"
)

// WriteFailureHandler is notified when the medium rejects a write.
type WriteFailureHandler func(key string, err error)

// Store persists a FormState field by field into a ports.KVStore.
type Store struct {
	kv       ports.KVStore
	registry *registry.Registry

	logger         *slog.Logger
	metrics        *observability.Metrics
	onWriteFailure WriteFailureHandler
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for persistence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records reads and writes.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithWriteFailureHandler surfaces write failures, e.g. to the same reporter
// used for export failures.
func WithWriteFailureHandler(fn WriteFailureHandler) Option {
	return func(s *Store) {
		s.onWriteFailure = fn
	}
}

// New creates a Store for the fields of reg on top of kv.
func New(kv ports.KVStore, reg *registry.Registry, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the store persists.
func (s *Store) Registry() *registry.Registry {
	return s.registry
}

// Save writes every registry field that is set in state, in registry order.
// Unset fields are left untouched in the medium. There is no transaction: if
// the process dies midway only the fields already written are persisted.
func (s *Store) Save(ctx context.Context, state domain.FormState) {
	for _, f := range s.registry.Fields() {
		v, ok := state.Get(f.Key)
		if !ok {
			continue
		}
		s.write(ctx, f.Key, Encode(f.Kind, v))
	}
}

// SaveField writes a single field. Only programming errors (unknown key) are
// returned; medium failures follow the same policy as Save.
func (s *Store) SaveField(ctx context.Context, key string, v domain.Value) error {
	f, ok := s.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
	}
	s.write(ctx, f.Key, Encode(f.Kind, v))
	return nil
}

func (s *Store) write(ctx context.Context, key, raw string) {
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.metrics.StoreWrite(observability.OutcomeError)
		s.logger.Warn("Failed to persist field, keeping in-memory value",
			"key", key,
			"err", err,
		)
		if s.onWriteFailure != nil {
			s.onWriteFailure(key, err)
		}
		return
	}
	s.metrics.StoreWrite(observability.OutcomeOK)
}

// Load reads every registry field from the medium. Fields without a stored
// value are left unset; keys in the medium that are not in the registry are
// ignored. Read failures leave the field unset and are returned joined, next
// to the partial state.
func (s *Store) Load(ctx context.Context) (domain.FormState, error) {
	state := domain.NewFormState()
	var errs []error

	for _, f := range s.registry.Fields() {
		raw, err := s.kv.Get(ctx, f.Key)
		if err != nil {
			if errors.Is(err, domain.ErrKeyNotFound) {
				s.metrics.StoreRead(observability.OutcomeMiss)
				continue
			}
			s.metrics.StoreRead(observability.OutcomeError)
			s.logger.Warn("Failed to read field", "key", f.Key, "err", err)
			errs = append(errs, fmt.Errorf("read %s: %w", f.Key, err))
			continue
		}
		s.metrics.StoreRead(observability.OutcomeHit)
		state.Set(f.Key, Decode(f.Kind, raw))
	}

	return state, errors.Join(errs...)
}

// Clear deletes the stored entry of every registry field. Clearing an empty
// medium is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range s.registry.Keys() {
		if err := s.kv.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns the raw stored strings of the registry fields that have a value.
func (s *Store) Snapshot(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	for _, key := range s.registry.Keys() {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// Encode serializes v for a field of the given kind.
// Flags become "true"/"false"; scalars are returned unchanged.
func Encode(kind domain.ValueKind, v domain.Value) string {
	if kind == domain.KindFlag {
		if v.Kind == domain.KindFlag {
			return strconv.FormatBool(v.Bool)
		}
		return strconv.FormatBool(v.Text == "true")
	}
	return v.String()
}

// Decode parses a stored string for a field of the given kind.
// Only the exact string "true" is a true flag; scalars pass through unparsed.
func Decode(kind domain.ValueKind, raw string) domain.Value {
	if kind == domain.KindFlag {
		return domain.FlagValue(raw == "true")
	}
	return domain.TextValue(raw)
}
