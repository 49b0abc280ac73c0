package calibration

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// GeneratorVersion is stamped into every generated file.
const GeneratorVersion = "v1.2"

const (
	filamentDiameter = 1.75
	modelWidth       = 40.0
	// Moves shorter than this travel without extruding.
	minExtrusionLength = 0.8
)

// Segment is one K-factor step of the tower, numbered from the top.
type Segment struct {
	Number  int
	KFactor float64
}

// Segments lists the tower segments from the top (highest K) down.
func Segments(p Params) []Segment {
	delta := p.DeltaK()
	maxK := math.Max(p.InitKFactor, p.EndKFactor)
	out := make([]Segment, p.NumSegments)
	for i := range out {
		out[i] = Segment{
			Number:  p.NumSegments - i,
			KFactor: round(maxK-delta*float64(i), 3),
		}
	}
	return out
}

// FileName is the suggested name of the generated file.
func FileName(p Params) string {
	return fmt.Sprintf("K3D_LA_H%d-B%d_%s-%s_d%s.gcode",
		p.HotendTemperature, p.BedTemperature,
		num(p.InitKFactor, 2), num(p.EndKFactor, 2), num(p.DeltaK(), 3))
}

// Generate streams the calibration G-code for p to w, one chunk per
// command. It stops at the first write error. Parameters are validated
// first; invalid parameters produce no output.
func Generate(p Params, w io.StringWriter) error {
	if err := Err(Validate(p)); err != nil {
		return err
	}
	g := &generator{p: p, w: w, firstLayerLineWidth: p.FirstLayerLineWidth}
	g.run()
	return g.err
}

type point struct {
	X, Y, Z float64
}

type generator struct {
	p   Params
	w   io.StringWriter
	err error

	pos       point
	e         float64
	retracted bool
	kFactor   float64

	// Narrowed to fit the raft's zig-zag spacing.
	firstLayerLineWidth float64
}

func (g *generator) emit(chunk string) {
	if g.err != nil || chunk == "" {
		return
	}
	_, g.err = g.w.WriteString(chunk)
}

func (g *generator) emitf(format string, args ...any) {
	if g.err != nil {
		return
	}
	g.emit(fmt.Sprintf(format, args...))
}

func (g *generator) run() {
	p := g.p
	g.header()

	g.emit("M104 S150\n")
	g.emitf("M190 S%d\n", p.BedTemperature)
	g.emitf("M109 S%d\n", p.HotendTemperature)
	g.kFactor = math.Min(p.InitKFactor, p.EndKFactor)
	g.emit(g.laCommand(g.kFactor))
	g.emit("G28\n")
	if p.G29 {
		g.emit("G29\n")
	}
	g.emit("G92 E0\n")
	g.emit("G90\n")
	g.emit("M82\n")
	g.emit("M106 S0\n")
	g.emitf("M221 S%d\n", p.Flow)

	center := point{X: p.BedX / 2, Y: p.BedY / 2, Z: p.LayerHeight}
	if p.Delta {
		center = point{Z: p.LayerHeight}
	}

	// Lift to layer height with the z offset applied, then declare it as
	// the nominal layer height.
	g.emitf("G1 Z%s\n", num(p.LayerHeight+p.ZOffset, 2))
	g.emitf("G92 Z%s\n", num(p.LayerHeight, 2))
	g.pos.Z = p.LayerHeight

	g.purge(center)
	g.raft(center)
	g.tower(center)

	g.emit(";end gcode\n")
	g.emit("M104 S0\n")
	g.emit("M140 S0\n")
	g.emit("M106 S0\n")
	g.emitf("G1 Z%f F600\n", g.pos.Z+5)
	g.emit("M84")
}

func (g *generator) header() {
	p := g.p
	g.emit("; generated by K3D LA calibration " + GeneratorVersion + "\n")
	g.emit("; Written by Dmitry Sorkin @ http://k3d.tech/\n")
	g.emit("; and Kekht\n")
	for _, s := range Segments(p) {
		g.emitf("; Segment:%d K-Factor:%s\n", s.Number, strconv.FormatFloat(s.KFactor, 'f', -1, 64))
	}
	g.emitf("; Bedsize: %s:%s\n", num(p.BedX, 0), num(p.BedY, 0))
	g.emitf("; Temperature H:%d B:%d °C\n", p.HotendTemperature, p.BedTemperature)
	g.emitf("; Line width: %s-%s mm\n", num(p.LineWidth, 2), num(p.FirstLayerLineWidth, 2))
	g.emitf("; Layer height: %s mm\n", num(p.LayerHeight, 2))
	g.emitf("; Segments: %dx%s mm\n", p.NumSegments, num(p.SegmentHeight, 2))
	g.emitf("; Print speed: %d, %d, %d mm/s\n", p.FirstLayerSpeed, p.SlowPrintSpeed, p.FastPrintSpeed)
	g.emitf("; Retractions: %smm @ %d mm/s\n", num(p.RetractLength, 2), p.RetractSpeed)
}

// purge draws a two line strip in front of the tower.
func (g *generator) purge(center point) {
	p := g.p
	start := point{
		X: center.X - p.BedX/2 + 15,
		Y: center.Y - modelWidth - 10,
		Z: g.pos.Z,
	}
	two := start
	two.X = center.X + p.BedX/2 - 15
	three := two
	three.Y += g.firstLayerLineWidth
	end := three
	end.X = start.X

	g.move(start, 0, p.TravelSpeed)
	g.move(two, g.firstLayerLineWidth, p.FirstLayerSpeed)
	g.move(three, g.firstLayerLineWidth, p.FirstLayerSpeed)
	g.move(end, g.firstLayerLineWidth, p.FirstLayerSpeed)
}

func (g *generator) raft(center point) {
	p := g.p
	trajectory := g.zigZag(center, g.firstLayerLineWidth, modelWidth+10)

	g.retract()
	g.move(trajectory[0], 0, p.TravelSpeed)
	g.deretract()
	for _, pt := range trajectory[1:] {
		g.move(pt, g.firstLayerLineWidth, p.FirstLayerSpeed)
	}
}

func (g *generator) tower(center point) {
	p := g.p
	layersPerSegment := int(p.SegmentHeight / p.LayerHeight)
	coolingPWM := int(round(float64(p.Cooling)*2.55, 0))
	delta := p.DeltaK()

	for i := 1; i < p.NumSegments*layersPerSegment && g.err == nil; i++ {
		g.emitf(";layer #%s\n", num(g.pos.Z/p.LayerHeight, 0))

		if i < 4 {
			g.emitf("M106 S%s\n", num(float64(coolingPWM*i/3), 0))
		}

		newSegment := i%layersPerSegment == 0
		addition := 0.0
		start := center
		start.Y += (modelWidth - p.LineWidth) / 2
		if newSegment {
			g.kFactor += delta
			g.emit(g.laCommand(g.kFactor))
			addition = p.LineWidth / 2
			start.Y = center.Y + (modelWidth-p.LineWidth/2)/2
		}
		start.Z = g.pos.Z + p.LayerHeight
		g.move(start, 0, p.TravelSpeed)

		for j := 0; j < p.NumPerimeters; j++ {
			g.perimeter(modelWidth + addition - p.LineWidth*2*float64(j+1))
			if j != p.NumPerimeters-1 {
				g.moveBy(0, -p.LineWidth, 0, p.FastPrintSpeed)
			}
		}
	}
}

// perimeter prints one closed loop of the given width. The middle of each
// side except the back is printed slowly so the K-factor effect shows at
// the speed transitions.
func (g *generator) perimeter(width float64) {
	p := g.p
	fast, slow, lw := p.FastPrintSpeed, p.SlowPrintSpeed, p.LineWidth

	const rightShort, frontShort, leftShort = 20.0, 2.0, 0.2
	rightLong := (width - rightShort) / 2
	frontLong := (width - frontShort) / 2
	leftLong := (width - leftShort) / 2

	g.moveBy(width/2, 0, lw, fast)

	g.moveBy(0, -rightLong, lw, fast)
	g.moveBy(0, -rightShort, lw, slow)
	g.moveBy(0, -rightLong, lw, fast)

	g.moveBy(-frontLong, 0, lw, fast)
	g.moveBy(-frontShort, 0, lw, slow)
	g.moveBy(-frontLong, 0, lw, fast)

	g.moveBy(0, leftLong, lw, fast)
	g.moveBy(0, leftShort, lw, slow)
	g.moveBy(0, leftLong, lw, fast)

	g.moveBy(width/2, 0, lw, fast)
}

func (g *generator) laCommand(k float64) string {
	switch g.p.Firmware() {
	case FirmwareMarlin:
		return "M900 K" + num(k, 3) + "\n"
	case FirmwareKlipper:
		return "SET_PRESSURE_ADVANCE ADVANCE=" + num(k, 3) + "\n"
	case FirmwareRRF:
		return "M572 D0 S" + num(k, 3) + "\n"
	default:
		return ";no firmware information\n"
	}
}

func (g *generator) moveBy(dx, dy, width float64, speed int) {
	end := g.pos
	end.X += dx
	end.Y += dy
	g.move(end, width, speed)
}

// move emits a G1 to end. Only changed axes are written; width > 0
// extrudes.
func (g *generator) move(end point, width float64, speed int) {
	var cmd strings.Builder
	cmd.WriteString("G1")
	if end.X != g.pos.X {
		cmd.WriteString(" X" + num(end.X, 2))
	}
	if end.Y != g.pos.Y {
		cmd.WriteString(" Y" + num(end.Y, 2))
	}
	if end.Z != g.pos.Z {
		cmd.WriteString(" Z" + num(end.Z, 2))
	}
	if width > 0 && distance(g.pos, end) > minExtrusionLength {
		g.e += g.extrusion(g.pos, end, width)
		cmd.WriteString(" E" + num(g.e, 4))
	}
	cmd.WriteString(" F" + strconv.Itoa(speed*60) + "\n")

	g.pos = end
	g.emit(cmd.String())
}

func (g *generator) extrusion(start, end point, width float64) float64 {
	return width * g.p.LayerHeight * distance(start, end) * 4 / math.Pi / (filamentDiameter * filamentDiameter)
}

func (g *generator) retract() {
	if g.retracted {
		return
	}
	g.retracted = true
	g.emitf("G1 E%s F%d\n", num(g.e-g.p.RetractLength, 2), g.p.RetractSpeed*60)
}

func (g *generator) deretract() {
	if !g.retracted {
		return
	}
	g.retracted = false
	g.emitf("G1 E%s F%d\n", num(g.e, 2), g.p.RetractSpeed*60)
}

// zigZag returns the raft path: points spread evenly on the square's
// outline, visited alternately from both ends so consecutive moves cross
// the square diagonally. It narrows the first layer line width to the
// resulting spacing.
func (g *generator) zigZag(center point, lineWidth, raftWidth float64) []point {
	side := raftWidth - lineWidth
	perSide := int(side / (lineWidth * math.Sqrt2))
	perSide -= (perSide - 1) % 2
	spacing := side / float64(perSide-1)
	g.firstLayerLineWidth = spacing / math.Sqrt2

	outline := make([]point, perSide*4-4)
	minX, minY := center.X-side/2, center.Y-side/2
	maxX, maxY := center.X+side/2, center.Y+side/2

	// Clockwise from the back left corner.
	for i := 0; i < perSide; i++ {
		outline[i] = point{X: minX + spacing*float64(i), Y: maxY}
	}
	for i := 1; i < perSide; i++ {
		outline[perSide+i-1] = point{X: maxX, Y: maxY - spacing*float64(i)}
	}
	for i := 1; i < perSide; i++ {
		outline[perSide*2+i-2] = point{X: maxX - spacing*float64(i), Y: minY}
	}
	for i := 1; i < perSide-1; i++ {
		outline[perSide*3+i-3] = point{X: minX, Y: minY + spacing*float64(i)}
	}

	n := len(outline)
	path := make([]point, n)
	path[0] = outline[0]
	path[1] = outline[n-1]
	path[2] = outline[1]
	path[3] = outline[2]
	for i := 4; i < n; i += 4 {
		j := i / 2
		path[i] = outline[n-j]
		path[i+1] = outline[n-j-1]
		path[i+2] = outline[j+1]
		path[i+3] = outline[j+2]
	}
	for i := range path {
		path[i].Z = g.pos.Z
	}
	return path
}

func distance(a, b point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func round(v float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(v*ratio) / ratio
}

// num formats v rounded to precision without trailing zeros.
func num(v float64, precision int) string {
	return strconv.FormatFloat(round(v, precision), 'f', -1, 64)
}
