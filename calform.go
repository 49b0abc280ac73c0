package calform

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/pkg/adapters/file"
	"github.com/aretw0/calform/pkg/catalog"
	"github.com/aretw0/calform/pkg/configstore"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/export"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/aretw0/calform/pkg/staging"
)

// Version of the calform engine.
const Version = "0.1.0"

// Catalog keys reported by the engine itself.
const (
	MsgWriteFailed = "persist.write_failed"
	MsgReadFailed  = "persist.read_failed"
)

// Problem is one rejected form value.
type Problem = calibration.Problem

// ValidateFunc checks a whole form state.
type ValidateFunc func(domain.FormState) []Problem

// Engine wires one form: its registry, the durable store, the staged
// validation controller and the export manager. All methods except the
// channel returned by Generate complete on the caller's goroutine.
type Engine struct {
	registry   *registry.Registry
	store      *configstore.Store
	controller *staging.Controller
	exports    *export.Manager

	sinks    ports.SinkFactory
	catalog  ports.Catalog
	reporter ports.Reporter
	validate ValidateFunc
	lang     string
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu          sync.Mutex
	state       domain.FormState
	problems    []Problem
	partial     map[string]error
	validations int
}

// Option configures the Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in calibration registry.
// Pair it with WithValidator, the default validation only knows the
// calibration fields.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithValidator sets the full-form validation.
func WithValidator(fn ValidateFunc) Option {
	return func(e *Engine) {
		e.validate = fn
	}
}

// WithSinkFactory sets where generated files are written (default: the
// working directory).
func WithSinkFactory(f ports.SinkFactory) Option {
	return func(e *Engine) {
		e.sinks = f
	}
}

// WithCatalog sets the message catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLanguage selects the language of the built-in catalog.
func WithLanguage(lang string) Option {
	return func(e *Engine) {
		e.lang = lang
	}
}

// WithReporter sets the user-visible error channel. By default failures are
// only logged. The reporter may be called while the engine is busy and from
// the goroutine completing an export; it must not call back into the Engine.
func WithReporter(r ports.Reporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records store, validation and export metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine persisting into kv. The form state starts empty;
// call Load to restore remembered values.
func New(kv ports.KVStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: registry.Calibration(),
		validate: checkCalibration,
		lang:     catalog.BaseLocale,
		state:    domain.NewFormState(),
		partial:  make(map[string]error),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		c, err := catalog.New(e.lang)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		e.catalog = c
	}
	if e.reporter == nil {
		e.reporter = ports.ReporterFunc(func(msg string) {
			e.logger.Error(msg)
		})
	}
	if e.sinks == nil {
		e.sinks = file.NewSinkFactory(".")
	}

	e.store = configstore.New(kv, e.registry,
		configstore.WithLogger(e.logger),
		configstore.WithMetrics(e.metrics),
		configstore.WithWriteFailureHandler(e.writeFailed),
	)
	e.controller = staging.New(e.registry, e.validateLocked,
		staging.WithPartialCheck(e.partialLocked),
		staging.WithLogger(e.logger),
		staging.WithMetrics(e.metrics),
	)
	e.exports = export.NewManager(e.sinks,
		export.WithReporter(e.reporter),
		export.WithCatalog(e.catalog),
		export.WithLogger(e.logger),
		export.WithMetrics(e.metrics),
	)
	return e, nil
}

func checkCalibration(state domain.FormState) []Problem {
	_, problems := calibration.Check(state)
	return problems
}

// Registry returns the form's field registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Catalog returns the message catalog.
func (e *Engine) Catalog() ports.Catalog {
	return e.catalog
}

// Load replaces the form state with the remembered values. Fields that
// could not be read stay unset; the read errors are reported and returned.
func (e *Engine) Load(ctx context.Context) error {
	state, err := e.store.Load(ctx)

	e.mu.Lock()
	e.state = state
	e.problems = nil
	clear(e.partial)
	e.mu.Unlock()

	if err != nil {
		e.reporter.Report(e.catalog.GetString(MsgReadFailed) + ": " + err.Error())
		return err
	}
	e.logger.Debug("Form state loaded", "fields", len(state))
	return nil
}

// SetDefaults fills the fields that are still unset. Defaults are not
// persisted until the next edit saves the form.
func (e *Engine) SetDefaults(defaults domain.FormState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.registry.Fields() {
		if e.state.Has(f.Key) {
			continue
		}
		if v, ok := defaults.Get(f.Key); ok {
			e.state.Set(f.Key, v)
		}
	}
}

// State returns a copy of the current form state.
func (e *Engine) State() domain.FormState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Focus moves input focus to key. An empty key blurs the form. Keys that are
// not form fields (buttons, other page elements) are outside every group, so
// focusing one settles the group being edited.
func (e *Engine) Focus(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key == "" {
		e.controller.Blur()
		return nil
	}
	e.controller.Focus(key)
	return nil
}

// Edit parses value for the field's kind and applies it. See EditValue.
// Flags accept the strconv.ParseBool spellings.
func (e *Engine) Edit(ctx context.Context, key, value string) error {
	f, ok := e.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
	}
	if f.Kind == domain.KindFlag {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidValue, key, value)
		}
		return e.EditValue(ctx, key, domain.FlagValue(b))
	}
	return e.EditValue(ctx, key, domain.TextValue(value))
}

// EditValue sets key, saves the whole form and then hands the edit to the
// validation controller. The save always completes before validation runs.
func (e *Engine) EditValue(ctx context.Context, key string, v domain.Value) error {
	f, ok := e.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
	}
	if v.Kind != f.Kind {
		return fmt.Errorf("%w: %s is a %s field", domain.ErrInvalidValue, key, f.Kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Set(key, v)
	e.store.Save(ctx, e.state)
	e.controller.Edit(key)
	return nil
}

// Validate runs the full validation now and returns its problems.
func (e *Engine) Validate() []Problem {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.validateLocked()
	return append([]Problem(nil), e.problems...)
}

// LastProblems returns the result of the most recent full validation.
func (e *Engine) LastProblems() []Problem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Problem(nil), e.problems...)
}

// PartialErrors returns the group-local check failures recorded since the
// last full validation, by field key.
func (e *Engine) PartialErrors() map[string]error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]error, len(e.partial))
	for k, v := range e.partial {
		out[k] = v
	}
	return out
}

// Validations returns how many full validations have run.
func (e *Engine) Validations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validations
}

// GroupState returns the staging state of a dependent group.
func (e *Engine) GroupState(group string) domain.GroupState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller.State(group)
}

// Messages localizes problems with the engine's catalog.
func (e *Engine) Messages(problems []Problem) []string {
	return calibration.Messages(problems, e.catalog)
}

// Generate validates the form and streams the calibration file into a new
// export session, aborting any session still open. Generation runs on the
// caller's goroutine; the returned channel yields the outcome of the
// asynchronous close. Close failures are also sent to the reporter.
func (e *Engine) Generate(ctx context.Context) <-chan error {
	e.mu.Lock()
	e.validateLocked()
	problems := e.problems
	state := e.state.Clone()
	e.mu.Unlock()

	if len(problems) > 0 {
		return done(calibration.Err(problems))
	}
	p, problems := calibration.Check(state)
	if err := calibration.Err(problems); err != nil {
		return done(err)
	}

	name := calibration.FileName(p)
	sess, err := e.exports.Begin(ctx, name)
	if err != nil {
		return done(err)
	}
	if err := calibration.Generate(p, sess); err != nil {
		// Write failures were already reported by the session.
		e.exports.Abort()
		return done(err)
	}
	e.logger.Info("Calibration generated", "name", name, "bytes", sess.BytesWritten())
	return e.exports.Finish(ctx)
}

// Clear forgets every remembered value and empties the form.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear stored values: %w", err)
	}
	e.state = domain.NewFormState()
	e.problems = nil
	clear(e.partial)
	return nil
}

// Reset restores keys (every field when none are given) to their values in
// defaults and remembers each of them. Fields without a default are left
// alone. The form is validated once afterwards.
func (e *Engine) Reset(ctx context.Context, defaults domain.FormState, keys ...string) error {
	if len(keys) == 0 {
		keys = e.registry.Keys()
	}
	for _, key := range keys {
		if _, ok := e.registry.Lookup(key); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, key := range keys {
		v, ok := defaults.Get(key)
		if !ok {
			continue
		}
		e.state.Set(key, v)
		if err := e.store.SaveField(ctx, key, v); err != nil {
			return err
		}
	}
	e.validateLocked()
	return nil
}

// Snapshot returns the raw strings the durable medium holds for the form,
// before flag decoding. Fields never remembered are absent.
func (e *Engine) Snapshot(ctx context.Context) (map[string]string, error) {
	return e.store.Snapshot(ctx)
}

// Close aborts an export that is still open.
func (e *Engine) Close() {
	e.exports.Abort()
}

// validateLocked is the controller's full-validation callback. Caller holds e.mu.
func (e *Engine) validateLocked() {
	e.validations++
	e.problems = e.validate(e.state)
	clear(e.partial)
	e.logger.Debug("Form validated", "problems", len(e.problems))
}

// partialLocked is the controller's group-local check. Caller holds e.mu.
func (e *Engine) partialLocked(group, key string) {
	v, _ := e.state.Get(key)
	if err := calibration.PartialCheck(key, v); err != nil {
		e.partial[key] = err
		e.logger.Debug("Partial check failed", "group", group, "key", key, "err", err)
		return
	}
	delete(e.partial, key)
}

func (e *Engine) writeFailed(key string, err error) {
	e.reporter.Report(e.catalog.GetString(MsgWriteFailed) + ": " + key + ": " + err.Error())
}

func done(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
