package domain

import "fmt"

// ValueKind describes how a field value is represented and persisted.
type ValueKind string

const (
	KindFlag   ValueKind = "flag"   // Boolean value, persisted as "true"/"false"
	KindScalar ValueKind = "scalar" // Free text, interpreted by the generator
)

// ParseValueKind converts a textual kind (as found in registry files) into a ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	switch ValueKind(s) {
	case KindFlag, KindScalar:
		return ValueKind(s), nil
	case "":
		return KindScalar, nil
	}
	return "", fmt.Errorf("unsupported value kind %q", s)
}

// FieldDescriptor declares one persisted field.
// Descriptors are immutable once a registry has been built.
type FieldDescriptor struct {
	// Key is the stable identifier, also used as the durable storage key.
	Key string `json:"key" yaml:"key" mapstructure:"key"`

	// Kind is the value kind of the field.
	Kind ValueKind `json:"kind" yaml:"kind" mapstructure:"kind"`
}

// Flag is a shorthand for a boolean field descriptor.
func Flag(key string) FieldDescriptor {
	return FieldDescriptor{Key: key, Kind: KindFlag}
}

// Scalar is a shorthand for a text field descriptor.
func Scalar(key string) FieldDescriptor {
	return FieldDescriptor{Key: key, Kind: KindScalar}
}

// DependentGroup is a named set of fields whose edits are validated together.
type DependentGroup struct {
	Name    string   `json:"name" yaml:"name" mapstructure:"name"`
	Members []string `json:"members" yaml:"members" mapstructure:"members"`
}
