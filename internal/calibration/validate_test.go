package calibration_test

import (
	"strings"
	"testing"

	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/pkg/catalog"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Defaults(t *testing.T) {
	p, problems := calibration.Check(calibration.Defaults())
	require.Empty(t, problems)

	assert.Equal(t, 220.0, p.BedX)
	assert.Equal(t, calibration.FirmwareMarlin, p.Firmware())
	assert.Equal(t, 230, p.HotendTemperature)
	assert.Equal(t, 0.8, p.RetractLength)
	assert.Equal(t, 11, p.NumSegments)
	assert.False(t, p.G29)
}

func TestDecode_NumberForms(t *testing.T) {
	state := calibration.Defaults()
	state.SetText(registry.KeyRetractLength, "1,5")
	state.SetText(registry.KeyRetractSpeed, "34.6")
	state.SetText(registry.KeyZOffset, " -0,1 ")

	p, problems := calibration.Decode(state)
	require.Empty(t, problems)
	assert.Equal(t, 1.5, p.RetractLength, "comma is a decimal separator")
	assert.Equal(t, 35, p.RetractSpeed, "integers round")
	assert.Equal(t, -0.1, p.ZOffset)
}

func TestCheck_FormatProblemSuppressesRange(t *testing.T) {
	state := calibration.Defaults()
	state.SetText(registry.KeyBedX, "wide")
	delete(state, registry.KeyFlow)

	_, problems := calibration.Check(state)
	assert.Equal(t, []calibration.Problem{
		{Field: registry.KeyBedX, Kind: calibration.ProblemFormat, Message: "calibration.bedX.format"},
		{Field: registry.KeyFlow, Kind: calibration.ProblemFormat, Message: "calibration.flow.format"},
	}, problems)
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		key   string
		value string
		ok    bool
	}{
		{registry.KeyBedX, "99", false},
		{registry.KeyBedX, "100", true},
		{registry.KeyBedY, "1001", false},
		{registry.KeyHotendTemperature, "149", false},
		{registry.KeyHotendTemperature, "350", true},
		{registry.KeyBedTemperature, "0", true},
		{registry.KeyBedTemperature, "-1", false},
		{registry.KeyCooling, "101", false},
		{registry.KeyRetractLength, "0.05", false},
		{registry.KeyRetractSpeed, "4", false},
		{registry.KeyFlow, "151", false},
		{registry.KeyFirstLayerLineWidth, "2,0", true},
		{registry.KeyFirstLayerSpeed, "9", false},
		{registry.KeyZOffset, "-0.5", true},
		{registry.KeyZOffset, "0.6", false},
		{registry.KeyNumPerimeters, "6", false},
		{registry.KeyLineWidth, "0.09", false},
		{registry.KeyLayerHeight, "1.2", true},
		{registry.KeyFastPrintSpeed, "1001", false},
		{registry.KeySlowPrintSpeed, "10", true},
		{registry.KeyInitKFactor, "2.1", false},
		{registry.KeyEndKFactor, "0", true},
		{registry.KeyNumSegments, "1", false},
		{registry.KeySegmentHeight, "10.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			state := calibration.Defaults()
			state.SetText(tt.key, tt.value)

			_, problems := calibration.Check(state)
			if tt.ok {
				assert.Empty(t, problems)
				return
			}
			require.Len(t, problems, 1)
			assert.Equal(t, tt.key, problems[0].Field)
			assert.Equal(t, calibration.ProblemRange, problems[0].Kind)
		})
	}
}

func TestValidate_FirmwareRequired(t *testing.T) {
	state := calibration.Defaults()
	state.SetFlag(registry.KeyFirmwareMarlin, false)
	state.SetText(registry.KeyBedY, "10")

	_, problems := calibration.Check(state)
	require.Len(t, problems, 2)
	assert.Equal(t, registry.KeyBedY, problems[0].Field, "problems follow form order")
	assert.Equal(t, calibration.MsgFirmwareMissing, problems[1].Message)
}

func TestFirmware_FirstCheckedWins(t *testing.T) {
	p := calibration.Params{Klipper: true, RRF: true}
	assert.Equal(t, calibration.FirmwareKlipper, p.Firmware())
	assert.Equal(t, "klipper", p.Firmware().String())
}

func TestProblemMessagesAreCataloged(t *testing.T) {
	c, err := catalog.New("en")
	require.NoError(t, err)

	_, problems := calibration.Check(domain.NewFormState())
	keys := []string{calibration.MsgFirmwareMissing}
	for _, pr := range problems {
		keys = append(keys, pr.Message)
		if pr.Kind == calibration.ProblemFormat {
			keys = append(keys, strings.TrimSuffix(pr.Message, "format")+"range")
		}
	}
	require.Len(t, keys, 1+1+2*21)

	for _, key := range keys {
		_, ok := c.Lookup(key)
		assert.True(t, ok, "missing catalog entry %s", key)
	}
}

func TestErr(t *testing.T) {
	assert.NoError(t, calibration.Err(nil))

	_, problems := calibration.Check(domain.NewFormState())
	err := calibration.Err(problems)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	var perr *calibration.ProblemsError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Problems, len(problems))
}

func TestPartialCheck(t *testing.T) {
	assert.NoError(t, calibration.PartialCheck(registry.KeyInitKFactor, domain.TextValue("0,05")))
	assert.NoError(t, calibration.PartialCheck(registry.KeyDelta, domain.FlagValue(true)))

	err := calibration.PartialCheck(registry.KeyNumSegments, domain.TextValue("ten"))
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.ErrorIs(t, calibration.PartialCheck(registry.KeyEndKFactor, domain.TextValue("NaN")), domain.ErrInvalidValue)
}
