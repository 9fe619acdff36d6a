package engine

import (
	"math"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/hittest"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/render"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

const (
	selectionBoxColor = "#4a9eff"
	selectionBoxFill  = "#4a9eff22"
	handleColor       = "#ffff00"
)

// Render paints one editor frame in screen space: grid, document, then the
// overlays of the active gesture and the selection handles.
func (e *Engine) Render(ctx render.Context) {
	ctx.Save()
	defer ctx.Restore()
	ctx.Translate(e.view.Pan.X, e.view.Pan.Y)
	ctx.Scale(e.view.Zoom, e.view.Zoom)

	if e.viewport.X > 0 && e.viewport.Y > 0 {
		area := geom.RectFromCorners(e.view.ToWorld(geom.Point{}), e.view.ToWorld(e.viewport))
		painter.DrawGrid(ctx, area, e.grid, 1/e.view.Zoom)
	}

	e.painter.Paint(ctx, e.doc, painter.Style{Selected: e.doc.IsSelected})

	if t, ok := ctx.(render.Tagger); ok {
		t.SetObjectID("")
	}
	e.renderOverlay(ctx)
	e.renderHandles(ctx)
}

func (e *Engine) renderOverlay(ctx render.Context) {
	def := e.doc.Defaults()
	switch s := e.state.(type) {
	case *DrawingWire:
		if !s.Current.Equal(s.Anchor) {
			e.painter.Wire(ctx, def.NewWire(s.Anchor, s.Current), def.WireColor)
		}
	case *DrawingRect:
		b := geom.RectFromCorners(s.Anchor, s.Current)
		ctx.Save()
		ctx.SetStrokeStyle(def.WireColor)
		ctx.SetLineWidth(def.WireThickness)
		ctx.SetLineDash([]float64{5, 5})
		ctx.BeginPath()
		ctx.Rect(b.X, b.Y, b.Width, b.Height)
		ctx.Stroke()
		ctx.Restore()
	case *DrawingSelectionBox:
		b := s.Box()
		ctx.Save()
		ctx.SetFillStyle(selectionBoxFill)
		ctx.SetStrokeStyle(selectionBoxColor)
		ctx.SetLineWidth(1 / e.view.Zoom)
		ctx.SetLineDash([]float64{4 / e.view.Zoom, 4 / e.view.Zoom})
		ctx.BeginPath()
		ctx.Rect(b.X, b.Y, b.Width, b.Height)
		ctx.Fill()
		ctx.Stroke()
		ctx.Restore()
	}
}

// renderHandles marks the grab points of selected wires and rectangles.
func (e *Engine) renderHandles(ctx render.Context) {
	r := hittest.HandleRadius / 2 / e.view.Zoom
	ctx.Save()
	ctx.SetFillStyle(handleColor)
	ctx.SetStrokeStyle(symbol.StrokeColor)
	ctx.SetLineWidth(1 / e.view.Zoom)
	ctx.SetLineDash(nil)
	for _, w := range e.doc.Wires() {
		if !e.doc.IsSelected(document.KindWire, w.ID) {
			continue
		}
		for _, p := range []geom.Point{w.Start, w.End} {
			ctx.BeginPath()
			ctx.Arc(p.X, p.Y, r, 0, 2*math.Pi)
			ctx.Fill()
			ctx.Stroke()
		}
	}
	for _, rc := range e.doc.Rectangles() {
		if !e.doc.IsSelected(document.KindRectangle, rc.ID) {
			continue
		}
		for _, p := range rc.Bounds().Corners() {
			ctx.BeginPath()
			ctx.Rect(p.X-r, p.Y-r, 2*r, 2*r)
			ctx.Fill()
			ctx.Stroke()
		}
	}
	ctx.Restore()
}

// DrawCommands renders a frame into a draw-command buffer.
func (e *Engine) DrawCommands() []render.DrawCommand {
	rec := render.NewRecorder()
	e.Render(rec)
	return rec.Commands()
}

// RenderJSON renders a frame and returns the draw commands as JSON.
func (e *Engine) RenderJSON() string {
	result, _ := render.DrawCommandsToJSON(e.DrawCommands())
	return result
}
