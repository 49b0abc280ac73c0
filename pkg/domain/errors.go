package domain

import "errors"

// ErrDuplicateField is returned when a registry declares the same key twice.
var ErrDuplicateField = errors.New("duplicate field key")

// ErrUnknownField is returned when a key is not part of the registry.
var ErrUnknownField = errors.New("unknown field")

// ErrGroupOverlap is returned when a key is declared in more than one dependent group.
var ErrGroupOverlap = errors.New("field belongs to more than one group")

// ErrKeyNotFound is returned by key-value mediums when a key has no stored value.
var ErrKeyNotFound = errors.New("key not found")

// ErrNoActiveSession is returned when an export operation requires an open session.
var ErrNoActiveSession = errors.New("no active export session")

// ErrSessionFailed is returned when an export session can no longer accept writes.
var ErrSessionFailed = errors.New("export session failed")

// ErrInvalidValue is returned when a value does not match the field kind.
var ErrInvalidValue = errors.New("invalid value for field kind")
