package registry

import "github.com/aretw0/calform/pkg/domain"

// Keys of the built-in linear advance calibration form.
const (
	KeyBedX                = "k3d_la_bedX"
	KeyBedY                = "k3d_la_bedY"
	KeyFirmwareMarlin      = "k3d_la_firmwareMarlin"
	KeyFirmwareKlipper     = "k3d_la_firmwareKlipper"
	KeyFirmwareRRF         = "k3d_la_firmwareRRF"
	KeyDelta               = "k3d_la_delta"
	KeyG29                 = "k3d_la_g29"
	KeyTravelSpeed         = "k3d_la_travelSpeed"
	KeyHotendTemperature   = "k3d_la_hotendTemperature"
	KeyBedTemperature      = "k3d_la_bedTemperature"
	KeyRetractLength       = "k3d_la_retractLength"
	KeyRetractSpeed        = "k3d_la_retractSpeed"
	KeyCooling             = "k3d_la_cooling"
	KeyFlow                = "k3d_la_flow"
	KeyFirstLayerLineWidth = "k3d_la_firstLayerLineWidth"
	KeyFirstLayerSpeed     = "k3d_la_firstLayerSpeed"
	KeyZOffset             = "k3d_la_zOffset"
	KeyNumPerimeters       = "k3d_la_numPerimeters"
	KeyLineWidth           = "k3d_la_lineWidth"
	KeyLayerHeight         = "k3d_la_layerHeight"
	KeyFastPrintSpeed      = "k3d_la_fastPrintSpeed"
	KeySlowPrintSpeed      = "k3d_la_slowPrintSpeed"
	KeyInitKFactor         = "k3d_la_initKFactor"
	KeyEndKFactor          = "k3d_la_endKFactor"
	KeySegmentHeight       = "k3d_la_segmentHeight"
	KeyNumSegments         = "k3d_la_numSegments"
)

// GroupSegments is the K-factor sweep: start, end and segment count only make
// sense together.
const GroupSegments = "segments"

var calibration = MustNew(
	[]domain.FieldDescriptor{
		domain.Scalar(KeyBedX),
		domain.Scalar(KeyBedY),
		domain.Flag(KeyFirmwareMarlin),
		domain.Flag(KeyFirmwareKlipper),
		domain.Flag(KeyFirmwareRRF),
		domain.Flag(KeyDelta),
		domain.Flag(KeyG29),
		domain.Scalar(KeyTravelSpeed),
		domain.Scalar(KeyHotendTemperature),
		domain.Scalar(KeyBedTemperature),
		domain.Scalar(KeyRetractLength),
		domain.Scalar(KeyRetractSpeed),
		domain.Scalar(KeyCooling),
		domain.Scalar(KeyFlow),
		domain.Scalar(KeyFirstLayerLineWidth),
		domain.Scalar(KeyFirstLayerSpeed),
		domain.Scalar(KeyZOffset),
		domain.Scalar(KeyNumPerimeters),
		domain.Scalar(KeyLineWidth),
		domain.Scalar(KeyLayerHeight),
		domain.Scalar(KeyFastPrintSpeed),
		domain.Scalar(KeySlowPrintSpeed),
		domain.Scalar(KeyInitKFactor),
		domain.Scalar(KeyEndKFactor),
		domain.Scalar(KeySegmentHeight),
		domain.Scalar(KeyNumSegments),
	},
	domain.DependentGroup{
		Name:    GroupSegments,
		Members: []string{KeyInitKFactor, KeyEndKFactor, KeyNumSegments},
	},
)

// Calibration returns the registry of the linear advance calibration form.
func Calibration() *Registry {
	return calibration
}
