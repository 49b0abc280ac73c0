package calibration

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Firmware selects the pressure/linear advance command dialect.
type Firmware int

const (
	FirmwareUnknown Firmware = iota
	FirmwareMarlin
	FirmwareKlipper
	FirmwareRRF
)

func (f Firmware) String() string {
	switch f {
	case FirmwareMarlin:
		return "marlin"
	case FirmwareKlipper:
		return "klipper"
	case FirmwareRRF:
		return "rrf"
	default:
		return "unknown"
	}
}

// Params are the decoded calibration parameters.
// Field tags bind each parameter to its registry key and its accepted range.
type Params struct {
	BedX float64 `mapstructure:"k3d_la_bedX" validate:"min=100,max=1000"`
	BedY float64 `mapstructure:"k3d_la_bedY" validate:"min=100,max=1000"`

	Marlin  bool `mapstructure:"k3d_la_firmwareMarlin"`
	Klipper bool `mapstructure:"k3d_la_firmwareKlipper"`
	RRF     bool `mapstructure:"k3d_la_firmwareRRF"`
	Delta   bool `mapstructure:"k3d_la_delta"`
	G29     bool `mapstructure:"k3d_la_g29"`

	TravelSpeed       int     `mapstructure:"k3d_la_travelSpeed" validate:"min=10,max=1000"`
	HotendTemperature int     `mapstructure:"k3d_la_hotendTemperature" validate:"min=150,max=350"`
	BedTemperature    int     `mapstructure:"k3d_la_bedTemperature" validate:"min=0,max=150"`
	RetractLength     float64 `mapstructure:"k3d_la_retractLength" validate:"min=0.1,max=20"`
	RetractSpeed      int     `mapstructure:"k3d_la_retractSpeed" validate:"min=5,max=150"`
	Cooling           int     `mapstructure:"k3d_la_cooling" validate:"min=0,max=100"`
	Flow              int     `mapstructure:"k3d_la_flow" validate:"min=50,max=150"`

	FirstLayerLineWidth float64 `mapstructure:"k3d_la_firstLayerLineWidth" validate:"min=0.1,max=2"`
	FirstLayerSpeed     int     `mapstructure:"k3d_la_firstLayerSpeed" validate:"min=10,max=1000"`
	ZOffset             float64 `mapstructure:"k3d_la_zOffset" validate:"min=-0.5,max=0.5"`

	NumPerimeters  int     `mapstructure:"k3d_la_numPerimeters" validate:"min=1,max=5"`
	LineWidth      float64 `mapstructure:"k3d_la_lineWidth" validate:"min=0.1,max=2"`
	LayerHeight    float64 `mapstructure:"k3d_la_layerHeight" validate:"min=0.05,max=1.2"`
	FastPrintSpeed int     `mapstructure:"k3d_la_fastPrintSpeed" validate:"min=10,max=1000"`
	SlowPrintSpeed int     `mapstructure:"k3d_la_slowPrintSpeed" validate:"min=10,max=1000"`

	InitKFactor   float64 `mapstructure:"k3d_la_initKFactor" validate:"min=0,max=2"`
	EndKFactor    float64 `mapstructure:"k3d_la_endKFactor" validate:"min=0,max=2"`
	NumSegments   int     `mapstructure:"k3d_la_numSegments" validate:"min=2,max=100"`
	SegmentHeight float64 `mapstructure:"k3d_la_segmentHeight" validate:"min=0.5,max=10"`
}

// Firmware returns the selected firmware. When several radio buttons are
// checked the first one in form order wins.
func (p Params) Firmware() Firmware {
	switch {
	case p.Marlin:
		return FirmwareMarlin
	case p.Klipper:
		return FirmwareKlipper
	case p.RRF:
		return FirmwareRRF
	default:
		return FirmwareUnknown
	}
}

// DeltaK is the K-factor step between two consecutive segments.
func (p Params) DeltaK() float64 {
	return math.Abs((p.EndKFactor - p.InitKFactor) / float64(p.NumSegments-1))
}

// Decode converts a form state of the calibration registry into Params.
// Scalars that do not parse as numbers are reported as format problems and
// left at their zero value; flags that are unset decode as false.
func Decode(state domain.FormState) (Params, []Problem) {
	var problems []Problem
	input := make(map[string]any)

	for _, f := range registry.Calibration().Fields() {
		if f.Kind == domain.KindFlag {
			checked, _ := state.Flag(f.Key)
			input[f.Key] = checked
			continue
		}
		raw, _ := state.Text(f.Key)
		if _, err := ParseNumber(raw); err != nil {
			problems = append(problems, formatProblem(f.Key))
			continue
		}
		input[f.Key] = raw
	}

	var p Params
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: numberHook,
		Result:     &p,
	})
	if err != nil {
		panic(fmt.Sprintf("calibration: invalid decoder config: %v", err))
	}
	if err := decoder.Decode(input); err != nil {
		// Every scalar was pre-checked, so this only trips on a registry and
		// Params mismatch.
		panic(fmt.Sprintf("calibration: decode params: %v", err))
	}
	return p, problems
}

// numberHook parses form text into the numeric field it targets. Integer
// fields accept fractional input and round it.
func numberHook(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from != reflect.String {
		return data, nil
	}
	switch to {
	case reflect.Float64:
		return ParseNumber(data.(string))
	case reflect.Int:
		f, err := ParseNumber(data.(string))
		if err != nil {
			return nil, err
		}
		return int(math.Round(f)), nil
	default:
		return data, nil
	}
}

// ParseNumber parses form input as a decimal number. Both "." and "," are
// accepted as the decimal separator.
func ParseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidValue, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", domain.ErrInvalidValue, raw)
	}
	return f, nil
}

// PartialCheck is the group-local check run while a dependent group is
// being edited: the value only has to be a well-formed number.
func PartialCheck(key string, value domain.Value) error {
	if value.Kind != domain.KindScalar {
		return nil
	}
	if _, err := ParseNumber(value.Text); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Defaults returns the values the form starts with before anything was
// remembered.
func Defaults() domain.FormState {
	s := domain.NewFormState()
	s.SetText(registry.KeyBedX, "220")
	s.SetText(registry.KeyBedY, "220")
	s.SetFlag(registry.KeyFirmwareMarlin, true)
	s.SetFlag(registry.KeyFirmwareKlipper, false)
	s.SetFlag(registry.KeyFirmwareRRF, false)
	s.SetFlag(registry.KeyDelta, false)
	s.SetFlag(registry.KeyG29, false)
	s.SetText(registry.KeyTravelSpeed, "150")
	s.SetText(registry.KeyHotendTemperature, "230")
	s.SetText(registry.KeyBedTemperature, "70")
	s.SetText(registry.KeyRetractLength, "0.8")
	s.SetText(registry.KeyRetractSpeed, "35")
	s.SetText(registry.KeyCooling, "50")
	s.SetText(registry.KeyFlow, "100")
	s.SetText(registry.KeyFirstLayerLineWidth, "0.5")
	s.SetText(registry.KeyFirstLayerSpeed, "20")
	s.SetText(registry.KeyZOffset, "0")
	s.SetText(registry.KeyNumPerimeters, "2")
	s.SetText(registry.KeyLineWidth, "0.45")
	s.SetText(registry.KeyLayerHeight, "0.2")
	s.SetText(registry.KeyFastPrintSpeed, "100")
	s.SetText(registry.KeySlowPrintSpeed, "20")
	s.SetText(registry.KeyInitKFactor, "0")
	s.SetText(registry.KeyEndKFactor, "0.1")
	s.SetText(registry.KeyNumSegments, "11")
	s.SetText(registry.KeySegmentHeight, "3")
	return s
}
