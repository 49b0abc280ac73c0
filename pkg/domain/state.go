package domain

import (
	"maps"
	"strconv"
)

// Value is a single field value. Exactly one of Bool or Text is meaningful,
// depending on Kind.
type Value struct {
	Kind ValueKind `json:"kind"`
	Bool bool      `json:"bool,omitempty"`
	Text string    `json:"text,omitempty"`
}

// FlagValue wraps a boolean value.
func FlagValue(b bool) Value {
	return Value{Kind: KindFlag, Bool: b}
}

// TextValue wraps a scalar value.
func TextValue(s string) Value {
	return Value{Kind: KindScalar, Text: s}
}

// String renders the value the way it is shown to users and generators.
func (v Value) String() string {
	if v.Kind == KindFlag {
		return strconv.FormatBool(v.Bool)
	}
	return v.Text
}

// FormState is the live snapshot of field values keyed by field key.
// A key without an entry is unset: the presentation layer supplies its default.
type FormState map[string]Value

// NewFormState creates an empty form state.
func NewFormState() FormState {
	return make(FormState)
}

// Get returns the value for key and whether it is set.
func (s FormState) Get(key string) (Value, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores a value for key.
func (s FormState) Set(key string, v Value) {
	s[key] = v
}

// SetFlag stores a boolean value for key.
func (s FormState) SetFlag(key string, b bool) {
	s[key] = FlagValue(b)
}

// SetText stores a scalar value for key.
func (s FormState) SetText(key, text string) {
	s[key] = TextValue(text)
}

// Flag returns the boolean value for key. ok is false when the key is unset
// or not a flag.
func (s FormState) Flag(key string) (b bool, ok bool) {
	v, set := s[key]
	if !set || v.Kind != KindFlag {
		return false, false
	}
	return v.Bool, true
}

// Text returns the scalar value for key. ok is false when the key is unset
// or not a scalar.
func (s FormState) Text(key string) (text string, ok bool) {
	v, set := s[key]
	if !set || v.Kind != KindScalar {
		return "", false
	}
	return v.Text, true
}

// Has reports whether key is set.
func (s FormState) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns an independent copy of the state.
func (s FormState) Clone() FormState {
	if s == nil {
		return NewFormState()
	}
	return maps.Clone(s)
}

// Strings flattens the state into its textual representation.
func (s FormState) Strings() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v.String()
	}
	return out
}
