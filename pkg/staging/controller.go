package staging

import (
	"log/slog"

	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/registry"
)

// PartialCheck is the group-local check run for edits inside an Editing group.
type PartialCheck func(group, key string)

// Controller gates the full-validation callback on dependent group focus.
type Controller struct {
	registry *registry.Registry
	full     func()
	partial  PartialCheck

	states map[string]domain.GroupState
	active string // group currently Editing, "" when none

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Controller.
type Option func(*Controller)

// WithPartialCheck sets the check run for edits inside an Editing group.
func WithPartialCheck(fn PartialCheck) Option {
	return func(c *Controller) {
		c.partial = fn
	}
}

// WithLogger configures a logger for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics records validations and settles.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates a Controller for the groups of reg. full is the whole-form
// validation callback; it must not be nil.
func New(reg *registry.Registry, full func(), opts ...Option) *Controller {
	c := &Controller{
		registry: reg,
		full:     full,
		states:   make(map[string]domain.GroupState),
		logger:   logging.NewNop(),
	}
	for _, g := range reg.Groups() {
		c.states[g.Name] = domain.GroupSettled
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle processes one event to completion.
func (c *Controller) Handle(ev domain.Event) {
	switch ev.Type {
	case domain.EventFocus:
		c.onFocus(ev.Key)
	case domain.EventEdit:
		c.onEdit(ev.Key)
	default:
		c.logger.Debug("Ignoring unknown event", "type", ev.Type, "key", ev.Key)
	}
}

// Focus is shorthand for Handle(domain.FocusEvent(key)).
func (c *Controller) Focus(key string) {
	c.Handle(domain.FocusEvent(key))
}

// Edit is shorthand for Handle(domain.EditEvent(key)).
func (c *Controller) Edit(key string) {
	c.Handle(domain.EditEvent(key))
}

// Blur reports that focus left every field.
func (c *Controller) Blur() {
	c.onFocus("")
}

// State returns the state of group. Unknown groups are always Settled.
func (c *Controller) State(group string) domain.GroupState {
	if s, ok := c.states[group]; ok {
		return s
	}
	return domain.GroupSettled
}

// Active returns the group currently being edited.
func (c *Controller) Active() (string, bool) {
	return c.active, c.active != ""
}

func (c *Controller) onFocus(key string) {
	group, grouped := c.registry.GroupOf(key)

	if c.active != "" && (!grouped || group != c.active) {
		c.settle()
	}
	if grouped && group != c.active {
		c.active = group
		c.states[group] = domain.GroupEditing
		c.logger.Debug("Group editing", "group", group, "key", key)
	}
}

func (c *Controller) onEdit(key string) {
	group, grouped := c.registry.GroupOf(key)

	if grouped && group == c.active {
		c.metrics.Validation(observability.ValidationPartial)
		if c.partial != nil {
			c.partial(group, key)
		}
		return
	}
	c.runFull()
}

// settle moves the active group back to Settled and runs the deferred validation.
func (c *Controller) settle() {
	group := c.active
	c.active = ""
	c.states[group] = domain.GroupSettled
	c.metrics.GroupSettled(group)
	c.logger.Debug("Group settled", "group", group)
	c.runFull()
}

func (c *Controller) runFull() {
	c.metrics.Validation(observability.ValidationFull)
	c.full()
}
