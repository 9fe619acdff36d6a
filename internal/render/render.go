// Package render defines the immediate-mode drawing surface the editor paints
// onto, and three surfaces implementing it: a draw-command recorder for
// canvas frontends, an SVG writer and a PNG rasterizer.
package render

import (
	"math"
	"slices"

	"github.com/schedit/schedit/backend-go/internal/geom"
)

// Context is a canvas-like drawing surface. Coordinates passed to path calls
// are mapped through the current transform at call time; line widths and
// dash lengths through the transform at stroke time.
type Context interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a clockwise (y-down) circular arc from start to end radians.
	Arc(cx, cy, r, start, end float64)
	ClosePath()
	Rect(x, y, w, h float64)
	Stroke()
	Fill()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)

	SetStrokeStyle(color string)
	SetFillStyle(color string)
	SetLineWidth(w float64)
	SetLineDash(pattern []float64)

	// FillText draws one line of text with its top-left corner at (x, y).
	FillText(text string, x, y, fontSize float64)
}

// Tagger is implemented by surfaces that correlate output with entity ids.
type Tagger interface {
	SetObjectID(id string)
}

// Transparent is the color string that disables a stroke or fill.
const Transparent = "transparent"

type SegmentOp uint8

const (
	SegMove SegmentOp = iota
	SegLine
	SegArc
	SegClose
)

// Segment is one device-space path element. For arcs P is the center, R
// the radius, and Sweep is positive clockwise.
type Segment struct {
	Op    SegmentOp
	P     geom.Point
	R     float64
	Start float64
	Sweep float64
}

// ArcStart returns the first point of an arc segment.
func (s Segment) ArcStart() geom.Point {
	return geom.Pt(s.P.X+s.R*math.Cos(s.Start), s.P.Y+s.R*math.Sin(s.Start))
}

// ArcEnd returns the last point of an arc segment.
func (s Segment) ArcEnd() geom.Point {
	a := s.Start + s.Sweep
	return geom.Pt(s.P.X+s.R*math.Cos(a), s.P.Y+s.R*math.Sin(a))
}

// ArcPoints flattens an arc into points spaced at most step device units.
func (s Segment) ArcPoints(step float64) []geom.Point {
	n := int(math.Ceil(math.Abs(s.Sweep) * s.R / step))
	n = max(n, 8)
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := s.Start + s.Sweep*float64(i)/float64(n)
		pts = append(pts, geom.Pt(s.P.X+s.R*math.Cos(a), s.P.Y+s.R*math.Sin(a)))
	}
	return pts
}

// Style is the paint state of a Pen.
type Style struct {
	Stroke    string
	Fill      string
	LineWidth float64
	Dash      []float64
}

type penState struct {
	m     geom.Matrix2D
	style Style
}

// Pen tracks the path, transform stack and paint state shared by every
// surface. Surfaces embed it and add Stroke, Fill and FillText.
type Pen struct {
	cur   penState
	stack []penState
	path  []Segment
}

func newPen() Pen {
	return Pen{cur: penState{
		m:     geom.Identity(),
		style: Style{Stroke: "#000000", Fill: "#000000", LineWidth: 1},
	}}
}

func (p *Pen) BeginPath() {
	p.path = p.path[:0]
}

func (p *Pen) MoveTo(x, y float64) {
	p.path = append(p.path, Segment{Op: SegMove, P: p.cur.m.Apply(geom.Pt(x, y))})
}

func (p *Pen) LineTo(x, y float64) {
	p.path = append(p.path, Segment{Op: SegLine, P: p.cur.m.Apply(geom.Pt(x, y))})
}

func (p *Pen) Arc(cx, cy, r, start, end float64) {
	const turn = 2 * math.Pi
	sweep := end - start
	if sweep >= turn {
		sweep = turn
	} else {
		sweep = math.Mod(sweep, turn)
		if sweep < 0 {
			sweep += turn
		}
	}

	m := p.cur.m
	c := m.Apply(geom.Pt(cx, cy))
	s := m.Apply(geom.Pt(cx+r*math.Cos(start), cy+r*math.Sin(start)))
	if m.Determinant() < 0 {
		sweep = -sweep
	}
	p.path = append(p.path, Segment{
		Op:    SegArc,
		P:     c,
		R:     r * m.ScaleFactor(),
		Start: math.Atan2(s.Y-c.Y, s.X-c.X),
		Sweep: sweep,
	})
}

func (p *Pen) ClosePath() {
	p.path = append(p.path, Segment{Op: SegClose})
}

func (p *Pen) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.ClosePath()
}

func (p *Pen) Save() {
	saved := p.cur
	saved.style.Dash = slices.Clone(p.cur.style.Dash)
	p.stack = append(p.stack, saved)
}

func (p *Pen) Restore() {
	if len(p.stack) == 0 {
		return
	}
	p.cur = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Pen) Translate(x, y float64) {
	p.cur.m = p.cur.m.Multiply(geom.Translate(x, y))
}

func (p *Pen) Rotate(angle float64) {
	p.cur.m = p.cur.m.Multiply(geom.Rotate(angle))
}

func (p *Pen) Scale(sx, sy float64) {
	p.cur.m = p.cur.m.Multiply(geom.Scale(sx, sy))
}

func (p *Pen) SetStrokeStyle(color string) { p.cur.style.Stroke = color }
func (p *Pen) SetFillStyle(color string)   { p.cur.style.Fill = color }
func (p *Pen) SetLineWidth(w float64)      { p.cur.style.LineWidth = w }

func (p *Pen) SetLineDash(pattern []float64) {
	p.cur.style.Dash = slices.Clone(pattern)
}

// Path returns the current device-space path.
func (p *Pen) Path() []Segment {
	return p.path
}

// Transform returns the current transform.
func (p *Pen) Transform() geom.Matrix2D {
	return p.cur.m
}

// DeviceStyle returns the paint state with line width and dash lengths
// scaled to device units.
func (p *Pen) DeviceStyle() Style {
	s := p.cur.style
	k := p.cur.m.ScaleFactor()
	s.LineWidth *= k
	s.Dash = make([]float64, len(p.cur.style.Dash))
	for i, v := range p.cur.style.Dash {
		s.Dash[i] = v * k
	}
	return s
}

// DeviceText maps a text anchor and font size to device space.
func (p *Pen) DeviceText(x, y, fontSize float64) (geom.Point, float64) {
	return p.cur.m.Apply(geom.Pt(x, y)), fontSize * p.cur.m.ScaleFactor()
}

func visible(color string) bool {
	return color != "" && color != Transparent
}
