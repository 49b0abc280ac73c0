package domain

// EventType defines the category of a form event.
type EventType string

const (
	EventFocus EventType = "focus" // Focus moved to a field
	EventEdit  EventType = "edit"  // A field value changed (already persisted)
)

// Event is a single UI notification, independent of any dispatch mechanism.
type Event struct {
	Type EventType `json:"type" yaml:"type"`
	Key  string    `json:"key" yaml:"key"`
}

// FocusEvent builds a focus event for key.
func FocusEvent(key string) Event {
	return Event{Type: EventFocus, Key: key}
}

// EditEvent builds an edit event for key.
func EditEvent(key string) Event {
	return Event{Type: EventEdit, Key: key}
}

// GroupState is the staged validation state of a dependent group.
type GroupState string

const (
	GroupSettled GroupState = "settled" // Full validation runs after each edit
	GroupEditing GroupState = "editing" // Focus is inside the group; full validation is withheld
)

// SessionState is the lifecycle state of an export session.
type SessionState string

const (
	SessionIdle    SessionState = "idle"
	SessionOpen    SessionState = "open"
	SessionWriting SessionState = "writing"
	SessionClosing SessionState = "closing"
	SessionClosed  SessionState = "closed"
	SessionAborted SessionState = "aborted"
	SessionFailed  SessionState = "failed"
)

// Active reports whether the session still owns a writable sink.
func (s SessionState) Active() bool {
	return s == SessionOpen || s == SessionWriting
}

// Terminal reports whether the session reached an end state.
func (s SessionState) Terminal() bool {
	return s == SessionClosed || s == SessionAborted || s == SessionFailed
}
