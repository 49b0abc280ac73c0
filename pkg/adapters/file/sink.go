package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/calform/pkg/ports"
)

// DefaultBufferSize is the write buffer of a file sink.
const DefaultBufferSize = 64 * 1024

var errSinkReleased = errors.New("sink already released")

// SinkFactory implements ports.SinkFactory by writing artifacts into a directory.
// Data goes to a hidden partial file that is renamed to its final name on Close,
// so an aborted or failed export never leaves a file that looks complete.
type SinkFactory struct {
	Dir        string
	BufferSize int
}

// NewSinkFactory creates a factory writing into dir ("." when empty).
func NewSinkFactory(dir string) *SinkFactory {
	if dir == "" {
		dir = "."
	}
	return &SinkFactory{Dir: dir, BufferSize: DefaultBufferSize}
}

// Create opens a partial file for name. name must be a plain file name.
func (f *SinkFactory) Create(ctx context.Context, name string) (ports.Sink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid artifact name %q", name)
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure output directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, "."+name+".partial-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create partial file: %w", err)
	}

	size := f.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &fileSink{
		file:  tmp,
		buf:   bufio.NewWriterSize(tmp, size),
		final: filepath.Join(f.Dir, name),
	}, nil
}

type fileSink struct {
	file     *os.File
	buf      *bufio.Writer
	final    string
	released bool
}

func (s *fileSink) Write(p []byte) (int, error) {
	if s.released {
		return 0, errSinkReleased
	}
	return s.buf.Write(p)
}

// Close flushes, syncs and publishes the artifact under its final name.
// On any failure the partial file is removed.
func (s *fileSink) Close() error {
	if s.released {
		return errSinkReleased
	}
	s.released = true
	tmpPath := s.file.Name()

	err := s.buf.Flush()
	if err == nil {
		err = s.file.Sync()
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = replaceFile(tmpPath, s.final)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to publish %s: %w", filepath.Base(s.final), err)
	}
	return nil
}

// Abort drops buffered data and removes the partial file.
func (s *fileSink) Abort() error {
	if s.released {
		return nil
	}
	s.released = true
	s.buf.Reset(nil)

	tmpPath := s.file.Name()
	_ = s.file.Close()
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove partial file: %w", err)
	}
	return nil
}
