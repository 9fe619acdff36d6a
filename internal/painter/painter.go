// Package painter draws a scene document onto a render.Context and exports
// it as PNG or SVG.
package painter

import (
	"math"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/render"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

var (
	dashPattern    = []float64{10, 5}
	dashDotPattern = []float64{15, 5, 3, 5}
)

const (
	waveLength    = 20.0
	waveAmplitude = 4.0
	maxWaveSteps  = 1 << 14
)

// Painter draws documents. Text alignment uses Text for line widths.
type Painter struct {
	Symbols symbol.Library
	Text    document.TextMeasurer
}

// Style controls per-entity colors for one paint pass.
type Style struct {
	// Selected reports entities drawn in the highlight color.
	Selected func(kind document.Kind, id string) bool
	// Override replaces every entity color when set.
	Override string
	// Invert swaps grayscale colors (white and black) after Override.
	Invert bool
}

func (s Style) color(kind document.Kind, id, base string) string {
	if s.Selected != nil && s.Selected(kind, id) {
		return symbol.SelectedColor
	}
	if s.Override != "" {
		base = s.Override
	}
	if s.Invert {
		base = InvertColor(base)
	}
	return base
}

// Paint draws rectangles, wires, text boxes and components, in that order.
// Components of unknown type are skipped.
func (p Painter) Paint(ctx render.Context, doc *document.Document, style Style) {
	tagger, _ := ctx.(render.Tagger)
	tag := func(id string) {
		if tagger != nil {
			tagger.SetObjectID(id)
		}
	}

	for _, r := range doc.Rectangles() {
		tag(r.ID)
		p.rectangle(ctx, r, style.color(document.KindRectangle, r.ID, r.Color))
	}
	for _, w := range doc.Wires() {
		tag(w.ID)
		p.Wire(ctx, w, style.color(document.KindWire, w.ID, w.Color))
	}
	for _, t := range doc.TextBoxes() {
		tag(t.ID)
		p.textBox(ctx, t, style.color(document.KindTextBox, t.ID, t.Color))
	}
	for _, c := range doc.Components() {
		sym, ok := p.lookup(c.Type)
		if !ok {
			continue
		}
		tag(c.ID)
		ctx.Save()
		ctx.Translate(c.X, c.Y)
		ctx.Rotate(c.Rotation)
		sx, sy := 1.0, 1.0
		if c.FlipX {
			sx = -1
		}
		if c.FlipY {
			sy = -1
		}
		ctx.Scale(sx, sy)
		sym.DrawColored(ctx, style.color(document.KindComponent, c.ID, symbol.StrokeColor))
		ctx.Restore()
	}
	tag("")
}

func (p Painter) rectangle(ctx render.Context, r document.Rectangle, color string) {
	b := r.Bounds()
	ctx.Save()
	ctx.SetStrokeStyle(color)
	ctx.SetLineWidth(r.Thickness)
	switch r.Style {
	case document.RectDashed:
		ctx.SetLineDash(dashPattern)
	case document.RectDashDot:
		ctx.SetLineDash(dashDotPattern)
	default:
		ctx.SetLineDash(nil)
	}
	ctx.BeginPath()
	ctx.Rect(b.X, b.Y, b.Width, b.Height)
	ctx.Stroke()
	ctx.Restore()
}

// Wire draws one wire with its line style and arrow heads. It is also used
// for the live drawing preview.
func (p Painter) Wire(ctx render.Context, w document.Wire, color string) {
	ctx.Save()
	defer ctx.Restore()
	ctx.SetStrokeStyle(color)
	ctx.SetFillStyle(color)
	ctx.SetLineWidth(w.Thickness)
	ctx.SetLineDash(nil)

	dir := w.End.Sub(w.Start)
	length := w.Start.Distance(w.End)
	if length == 0 {
		return
	}
	unit := dir.Scale(1 / length)
	normal := geom.Pt(-unit.Y, unit.X)
	gap := math.Max(w.Thickness, 2)

	switch w.Style {
	case document.WireDashed:
		ctx.SetLineDash(dashPattern)
		segment(ctx, w.Start, w.End)
	case document.WireDashDot:
		ctx.SetLineDash(dashDotPattern)
		segment(ctx, w.Start, w.End)
	case document.WireDouble:
		ctx.SetLineWidth(math.Max(1, w.Thickness/2))
		off := normal.Scale(gap)
		segment(ctx, w.Start.Add(off), w.End.Add(off))
		segment(ctx, w.Start.Sub(off), w.End.Sub(off))
	case document.WireWavy:
		wave(ctx, w.Start, unit, normal, length)
	case document.WireDoubleWavy:
		ctx.SetLineWidth(math.Max(1, w.Thickness/2))
		off := normal.Scale(gap)
		wave(ctx, w.Start.Add(off), unit, normal, length)
		wave(ctx, w.Start.Sub(off), unit, normal, length)
	default:
		segment(ctx, w.Start, w.End)
	}

	ctx.SetLineDash(nil)
	ctx.SetLineWidth(w.Thickness)
	arrow(ctx, w.Start, unit.Scale(-1), w.ArrowStart, w.Thickness)
	arrow(ctx, w.End, unit, w.ArrowEnd, w.Thickness)
}

func segment(ctx render.Context, a, b geom.Point) {
	ctx.BeginPath()
	ctx.MoveTo(a.X, a.Y)
	ctx.LineTo(b.X, b.Y)
	ctx.Stroke()
}

func wave(ctx render.Context, start, unit, normal geom.Point, length float64) {
	step := math.Max(2, length/maxWaveSteps)
	ctx.BeginPath()
	ctx.MoveTo(start.X, start.Y)
	for d := step; d < length+step; d += step {
		d = math.Min(d, length)
		amp := waveAmplitude * math.Sin(2*math.Pi*d/waveLength)
		pt := start.Add(unit.Scale(d)).Add(normal.Scale(amp))
		ctx.LineTo(pt.X, pt.Y)
		if d == length {
			break
		}
	}
	ctx.Stroke()
}

// arrow draws a head at tip pointing along dir (away from the wire), or
// back toward the wire when inward.
func arrow(ctx render.Context, tip, dir geom.Point, a document.Arrow, thickness float64) {
	if a.IsNone() {
		return
	}
	size := 6 + 3*thickness
	if a.Inward {
		tip = tip.Sub(dir.Scale(size))
		dir = dir.Scale(-1)
	}
	normal := geom.Pt(-dir.Y, dir.X)

	switch a.Shape {
	case document.ArrowTriangle:
		base := tip.Sub(dir.Scale(size))
		left := base.Add(normal.Scale(size * 0.5))
		right := base.Sub(normal.Scale(size * 0.5))
		ctx.BeginPath()
		ctx.MoveTo(left.X, left.Y)
		ctx.LineTo(tip.X, tip.Y)
		ctx.LineTo(right.X, right.Y)
		if a.Fill == document.ArrowOutline {
			ctx.Stroke()
			return
		}
		ctx.ClosePath()
	case document.ArrowCircle:
		c := tip.Sub(dir.Scale(size / 2))
		ctx.BeginPath()
		ctx.Arc(c.X, c.Y, size/2, 0, 2*math.Pi)
	default:
		return
	}

	if a.Fill == document.ArrowFilled {
		ctx.Fill()
	}
	ctx.Stroke()
}

func (p Painter) textBox(ctx render.Context, t document.TextBox, color string) {
	bounds := document.TextBounds(t, p.measurer())
	size := t.FontSize
	if size <= 0 {
		size = document.DefaultStyle().FontSize
	}
	ctx.Save()
	ctx.SetFillStyle(color)
	for i, line := range t.Lines() {
		x := t.X
		switch t.TextAlign {
		case document.AlignCenter:
			x -= p.measurer().LineWidth(line, size) / 2
		case document.AlignRight:
			x -= p.measurer().LineWidth(line, size)
		}
		ctx.FillText(line, x, bounds.Y+float64(i)*size*document.LineHeight, size)
	}
	ctx.Restore()
}

func (p Painter) measurer() document.TextMeasurer {
	if p.Text == nil {
		return document.EstimateMeasurer{}
	}
	return p.Text
}

func (p Painter) lookup(typ string) (symbol.Symbol, bool) {
	if p.Symbols == nil {
		return symbol.Symbol{}, false
	}
	return p.Symbols.Lookup(typ)
}
