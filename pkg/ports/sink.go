package ports

import (
	"context"
	"io"
)

// Sink is a writable destination for one exported artifact.
// The artifact becomes visible to the user only after a successful Close.
type Sink interface {
	io.Writer

	// Close flushes pending data and publishes the artifact.
	Close() error

	// Abort releases the destination without publishing; unflushed data is lost.
	Abort() error
}

// SinkFactory opens sinks for a suggested file name.
type SinkFactory interface {
	Create(ctx context.Context, name string) (Sink, error)
}
