package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

// Reporter prints user-facing messages with a coloured status prefix.
// Colours are dropped automatically when w is not a terminal.
type Reporter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{out: termenv.NewOutput(w)}
}

// Report prints an error message. It implements ports.Reporter and is safe
// to call from the goroutine completing an export.
func (r *Reporter) Report(message string) {
	r.print("✗", "#ef4444", message)
}

// Success prints a confirmation.
func (r *Reporter) Success(message string) {
	r.print("✓", "#22c55e", message)
}

// Info prints a neutral line.
func (r *Reporter) Info(message string) {
	r.print("•", "#818cf8", message)
}

func (r *Reporter) print(mark, color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := r.out.String(mark).Foreground(r.out.Color(color)).Bold()
	fmt.Fprintf(r.out, "%s %s\n", prefix, message)
}
