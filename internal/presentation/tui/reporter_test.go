package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/calform/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
)

func TestReporter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := tui.NewReporter(&buf)

	r.Report("Failed to save the generated file: disk full")
	r.Success("Calibration file saved")
	r.Info("3 problems")

	// A bytes.Buffer is not a terminal, so no escape sequences are written.
	assert.Equal(t, "✗ Failed to save the generated file: disk full\n✓ Calibration file saved\n• 3 problems\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	assert.Contains(t, buf.String(), `\___\__,_|_|_|`)
	assert.NotContains(t, buf.String(), "\x1b[")
}
