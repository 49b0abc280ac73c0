package calibration_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkRecorder keeps every chunk it receives.
type chunkRecorder struct {
	chunks []string
	failAt int
}

var errSinkGone = errors.New("sink gone")

func (r *chunkRecorder) WriteString(s string) (int, error) {
	if r.failAt > 0 && len(r.chunks) == r.failAt {
		return 0, errSinkGone
	}
	r.chunks = append(r.chunks, s)
	return len(s), nil
}

func (r *chunkRecorder) String() string {
	return strings.Join(r.chunks, "")
}

func params(t *testing.T, edits map[string]string) calibration.Params {
	t.Helper()
	state := calibration.Defaults()
	state.SetText(registry.KeyLayerHeight, "0.25")
	state.SetText(registry.KeySegmentHeight, "2")
	state.SetText(registry.KeyNumSegments, "5")
	for k, v := range edits {
		state.SetText(k, v)
	}
	p, problems := calibration.Check(state)
	require.Empty(t, problems)
	return p
}

func generate(t *testing.T, p calibration.Params) string {
	t.Helper()
	rec := &chunkRecorder{}
	require.NoError(t, calibration.Generate(p, rec))
	return rec.String()
}

func TestGenerate_Structure(t *testing.T) {
	out := generate(t, params(t, nil))

	assert.True(t, strings.HasPrefix(out, "; generated by K3D LA calibration v1.2\n"))
	assert.True(t, strings.HasSuffix(out, "M84"))
	assert.Contains(t, out, "; Segment:5 K-Factor:0.1\n")
	assert.Contains(t, out, "; Segment:1 K-Factor:0\n")
	assert.Contains(t, out, "; Temperature H:230 B:70 °C\n")
	assert.Contains(t, out, "M190 S70\nM109 S230\nM900 K0\nG28\nG92 E0\n")
	assert.Contains(t, out, "M221 S100\n")
	assert.Contains(t, out, "G1 Z0.25\nG92 Z0.25\n")
	assert.NotContains(t, out, "G29")
	assert.Contains(t, out, ";end gcode\nM104 S0\nM140 S0\nM106 S0\n")

	// One LA command at start plus one per segment change.
	assert.Equal(t, 5, strings.Count(out, "M900 K"))
	assert.Contains(t, out, "M900 K0.1\n")
}

func TestGenerate_Firmware(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		command string
	}{
		{"klipper", registry.KeyFirmwareKlipper, "SET_PRESSURE_ADVANCE ADVANCE=0.025\n"},
		{"rrf", registry.KeyFirmwareRRF, "M572 D0 S0.025\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := calibration.Defaults()
			state.SetFlag(registry.KeyFirmwareMarlin, false)
			state.SetFlag(tt.key, true)
			state.SetText(registry.KeyLayerHeight, "0.25")
			state.SetText(registry.KeySegmentHeight, "2")
			state.SetText(registry.KeyNumSegments, "5")
			p, problems := calibration.Check(state)
			require.Empty(t, problems)

			out := generate(t, p)
			assert.Contains(t, out, tt.command)
			assert.NotContains(t, out, "M900")
		})
	}
}

func TestGenerate_Options(t *testing.T) {
	state := calibration.Defaults()
	state.SetFlag(registry.KeyG29, true)
	state.SetFlag(registry.KeyDelta, true)
	p, problems := calibration.Check(state)
	require.Empty(t, problems)

	out := generate(t, p)
	assert.Contains(t, out, "G28\nG29\n")
	// Delta printers are centered on the origin.
	assert.Contains(t, out, "G1 X-95 Y-50")
}

func TestGenerate_Streams(t *testing.T) {
	p := params(t, nil)
	rec := &chunkRecorder{}
	require.NoError(t, calibration.Generate(p, rec))

	assert.Greater(t, len(rec.chunks), 100)
	for _, c := range rec.chunks[:len(rec.chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "\n"), "chunk %q is a whole line", c)
	}
	assert.Equal(t, generate(t, p), rec.String(), "output is deterministic")
}

func TestGenerate_StopsOnWriteError(t *testing.T) {
	rec := &chunkRecorder{failAt: 10}
	err := calibration.Generate(params(t, nil), rec)

	assert.ErrorIs(t, err, errSinkGone)
	assert.Len(t, rec.chunks, 10)
}

func TestGenerate_RejectsInvalidParams(t *testing.T) {
	p := params(t, nil)
	p.NumSegments = 1

	rec := &chunkRecorder{}
	err := calibration.Generate(p, rec)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Empty(t, rec.chunks)
}

func TestFileName(t *testing.T) {
	p, problems := calibration.Check(calibration.Defaults())
	require.Empty(t, problems)
	assert.Equal(t, "K3D_LA_H230-B70_0-0.1_d0.01.gcode", calibration.FileName(p))

	p.InitKFactor, p.EndKFactor, p.NumSegments = 0.5, 0.125, 4
	assert.Equal(t, "K3D_LA_H230-B70_0.5-0.13_d0.125.gcode", calibration.FileName(p))
}

func TestSegments(t *testing.T) {
	p := params(t, map[string]string{
		registry.KeyInitKFactor: "0.4",
		registry.KeyEndKFactor:  "0",
	})

	assert.Equal(t, []calibration.Segment{
		{Number: 5, KFactor: 0.4},
		{Number: 4, KFactor: 0.3},
		{Number: 3, KFactor: 0.2},
		{Number: 2, KFactor: 0.1},
		{Number: 1, KFactor: 0},
	}, calibration.Segments(p))
}
