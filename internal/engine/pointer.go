package engine

import (
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/hittest"
)

// Mouse buttons, numbered as in DOM pointer events.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// PointerEvent is a pointer input in screen coordinates.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	Shift  bool    `json:"shift"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
	Double bool    `json:"double"`
}

func (ev PointerEvent) Screen() geom.Point {
	return geom.Pt(ev.X, ev.Y)
}

// WheelEvent zooms about the pointer. Negative DeltaY zooms in.
type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

const wheelZoomStep = 1.1

// PointerDown starts or advances a gesture.
func (e *Engine) PointerDown(ev PointerEvent) {
	world := e.view.ToWorld(ev.Screen())
	e.pointer = world

	if e.busy {
		return
	}
	if isDrawing(e.state) {
		switch ev.Button {
		case ButtonRight:
			e.busy = true
			e.state = &Idle{}
		case ButtonLeft:
			e.busy = true
			e.finishDrawing(world)
		}
		return
	}

	if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && ev.Shift) {
		e.busy = true
		e.state = &PanningView{Last: ev.Screen()}
		return
	}
	if ev.Button != ButtonLeft {
		return
	}
	e.busy = true

	if ev.Double {
		e.state = &DrawingWire{Anchor: e.snap(world), Current: e.snap(world)}
		return
	}

	hit := e.resolver.At(e.doc, world, e.view.Zoom)

	if ev.Ctrl || ev.Meta {
		if !hit.IsNone() {
			e.doc.AddToSelection(hit.Kind, hit.ID)
		}
		return
	}

	if !hit.IsNone() && e.doc.IsSelected(hit.Kind, hit.ID) {
		e.startDrag(hit, world)
		return
	}

	if e.tool == ToolDraw {
		endpoint := hit.Kind == document.KindWire && (hit.Part == hittest.PartStart || hit.Part == hittest.PartEnd)
		if !hit.IsNone() && !endpoint {
			e.doc.SetPrimary(hit.Kind, hit.ID)
			return
		}
		e.startDrawing(world)
		return
	}

	if hit.IsNone() {
		e.state = &DrawingSelectionBox{Anchor: world, Current: world}
		return
	}
	e.doc.SetPrimary(hit.Kind, hit.ID)
}

// PointerMove updates the active gesture. Drags apply transient updates
// only.
func (e *Engine) PointerMove(ev PointerEvent) {
	world := e.view.ToWorld(ev.Screen())
	e.pointer = world

	switch s := e.state.(type) {
	case *PanningView:
		e.view.Pan = e.view.Pan.Add(ev.Screen().Sub(s.Last))
		s.Last = ev.Screen()
	case *DrawingWire:
		s.Current = e.snap(world)
	case *DrawingRect:
		s.Current = e.snap(world)
	case *DrawingSelectionBox:
		s.Current = world
	default:
		e.dragTo(world, false)
	}
}

// PointerUp ends the active gesture. A drag snaps to the grid and commits
// once when anything moved.
func (e *Engine) PointerUp(ev PointerEvent) {
	world := e.view.ToWorld(ev.Screen())
	e.pointer = world
	defer func() { e.busy = false }()

	switch s := e.state.(type) {
	case *PanningView:
		e.state = &Idle{}
	case *DrawingWire, *DrawingRect:
		// Drawing waits for the second click.
	case *DrawingSelectionBox:
		s.Current = world
		sel := e.resolver.InBox(e.doc, s.Box())
		if sel.IsEmpty() {
			e.doc.ClearSelection()
		} else {
			e.doc.SetMulti(sel)
		}
		e.state = &Idle{}
	case *Idle:
	default:
		if e.dragTo(world, true) {
			e.doc.Commit()
		} else {
			e.cancelDrag()
		}
		e.state = &Idle{}
	}
}

// Wheel zooms about the pointer, keeping the world point under it fixed.
func (e *Engine) Wheel(ev WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	screen := geom.Pt(ev.X, ev.Y)
	world := e.view.ToWorld(screen)
	factor := wheelZoomStep
	if ev.DeltaY > 0 {
		factor = 1 / wheelZoomStep
	}
	zoom := clampZoom(e.view.Zoom * factor)
	e.view = View{Zoom: zoom, Pan: screen.Sub(world.Scale(zoom))}
}

func (e *Engine) startDrawing(world geom.Point) {
	anchor := e.snap(world)
	if e.doc.Defaults().DrawingMode == document.DrawRect {
		e.state = &DrawingRect{Anchor: anchor, Current: anchor}
		return
	}
	e.state = &DrawingWire{Anchor: anchor, Current: anchor}
}

// finishDrawing handles the second click of a draw. Degenerate and
// overlapping wires are dropped without feedback.
func (e *Engine) finishDrawing(world geom.Point) {
	target := e.snap(world)
	def := e.doc.Defaults()
	switch s := e.state.(type) {
	case *DrawingWire:
		if !target.Equal(s.Anchor) && !e.overlapsWire(s.Anchor, target) {
			e.doc.AddWire(def.NewWire(s.Anchor, target))
		}
	case *DrawingRect:
		if !target.Equal(s.Anchor) {
			e.doc.AddRectangle(def.NewRectangle(s.Anchor, target))
		}
	}
	e.state = &Idle{}
}

// overlapsWire reports whether a-b lies entirely on an existing wire.
func (e *Engine) overlapsWire(a, b geom.Point) bool {
	for _, w := range e.doc.Wires() {
		if geom.SegmentContainedIn(a, b, w.Start, w.End, OverlapTolerance) {
			return true
		}
	}
	return false
}

func (e *Engine) startDrag(hit hittest.Hit, world geom.Point) {
	if e.doc.Multi().Contains(hit.Kind, hit.ID) {
		e.state = &DraggingGroup{Originals: e.doc.Extract(e.doc.Multi()), Grab: world}
		return
	}

	switch hit.Kind {
	case document.KindComponent:
		if c, ok := e.doc.Component(hit.ID); ok {
			e.state = &DraggingComponent{ID: c.ID, Origin: c.Anchor(), Grab: world}
		}
	case document.KindTextBox:
		if t, ok := e.doc.TextBox(hit.ID); ok {
			e.state = &DraggingTextBox{ID: t.ID, Origin: t.Anchor(), Grab: world}
		}
	case document.KindWire:
		w, ok := e.doc.Wire(hit.ID)
		if !ok {
			return
		}
		switch hit.Part {
		case hittest.PartStart:
			e.state = &DraggingWireEndpoint{ID: w.ID, AtStart: true, Original: w.Start}
		case hittest.PartEnd:
			e.state = &DraggingWireEndpoint{ID: w.ID, Original: w.End}
		default:
			e.state = &DraggingWireBody{ID: w.ID, Start: w.Start, End: w.End, Grab: world}
		}
	case document.KindRectangle:
		r, ok := e.doc.Rectangle(hit.ID)
		if !ok {
			return
		}
		if i, ok := hit.Part.Corner(); ok {
			e.state = &DraggingRectCorner{ID: r.ID, Corner: i, Start: r.Start, End: r.End}
			return
		}
		e.state = &DraggingRectangle{ID: r.ID, Start: r.Start, End: r.End, Grab: world}
	}
}

// dragTo moves the dragged entities for a pointer at world. With final
// set, positions are snapped to the grid; it then reports whether the
// gesture changed anything compared to where it started.
func (e *Engine) dragTo(world geom.Point, final bool) bool {
	place := func(p geom.Point) geom.Point {
		if final {
			return e.snap(p)
		}
		return p
	}

	switch s := e.state.(type) {
	case *DraggingComponent:
		at := place(s.Origin.Add(world.Sub(s.Grab)))
		e.doc.UpdateComponentTransient(s.ID, document.ComponentPatch{}.MoveTo(at))
		return !at.Equal(s.Origin)

	case *DraggingTextBox:
		at := place(s.Origin.Add(world.Sub(s.Grab)))
		e.doc.UpdateTextBoxTransient(s.ID, document.TextBoxPatch{}.MoveTo(at))
		return !at.Equal(s.Origin)

	case *DraggingWireBody:
		d := world.Sub(s.Grab)
		a, b := place(s.Start.Add(d)), place(s.End.Add(d))
		e.doc.UpdateWireTransient(s.ID, document.WirePatch{Start: &a, End: &b})
		return !a.Equal(s.Start) || !b.Equal(s.End)

	case *DraggingWireEndpoint:
		p := place(world)
		patch := document.WirePatch{End: &p}
		if s.AtStart {
			patch = document.WirePatch{Start: &p}
		}
		e.doc.UpdateWireTransient(s.ID, patch)
		return !p.Equal(s.Original)

	case *DraggingRectCorner:
		corners := geom.RectFromCorners(s.Start, s.End).Corners()
		fixed := corners[(s.Corner+2)&3]
		p := place(world)
		e.doc.UpdateRectangleTransient(s.ID, document.RectanglePatch{Start: &fixed, End: &p})
		return !p.Equal(corners[s.Corner&3])

	case *DraggingRectangle:
		d := world.Sub(s.Grab)
		a, b := place(s.Start.Add(d)), place(s.End.Add(d))
		e.doc.UpdateRectangleTransient(s.ID, document.RectanglePatch{Start: &a, End: &b})
		return !a.Equal(s.Start) || !b.Equal(s.End)

	case *DraggingGroup:
		return e.dragGroup(s, world.Sub(s.Grab), place)
	}
	return false
}

func (e *Engine) dragGroup(s *DraggingGroup, d geom.Point, place func(geom.Point) geom.Point) bool {
	moved := false
	track := func(from, to geom.Point) {
		if !from.Equal(to) {
			moved = true
		}
	}
	for _, w := range s.Originals.Wires {
		a, b := place(w.Start.Add(d)), place(w.End.Add(d))
		track(w.Start, a)
		track(w.End, b)
		e.doc.UpdateWireTransient(w.ID, document.WirePatch{Start: &a, End: &b})
	}
	for _, r := range s.Originals.Rectangles {
		a, b := place(r.Start.Add(d)), place(r.End.Add(d))
		track(r.Start, a)
		track(r.End, b)
		e.doc.UpdateRectangleTransient(r.ID, document.RectanglePatch{Start: &a, End: &b})
	}
	for _, t := range s.Originals.TextBoxes {
		at := place(t.Anchor().Add(d))
		track(t.Anchor(), at)
		e.doc.UpdateTextBoxTransient(t.ID, document.TextBoxPatch{}.MoveTo(at))
	}
	for _, c := range s.Originals.Components {
		at := place(c.Anchor().Add(d))
		track(c.Anchor(), at)
		e.doc.UpdateComponentTransient(c.ID, document.ComponentPatch{}.MoveTo(at))
	}
	return moved
}

// cancelDrag puts dragged entities back where the gesture found them.
func (e *Engine) cancelDrag() {
	switch s := e.state.(type) {
	case *DraggingComponent:
		e.doc.UpdateComponentTransient(s.ID, document.ComponentPatch{}.MoveTo(s.Origin))
	case *DraggingTextBox:
		e.doc.UpdateTextBoxTransient(s.ID, document.TextBoxPatch{}.MoveTo(s.Origin))
	case *DraggingWireBody:
		e.doc.UpdateWireTransient(s.ID, document.WirePatch{Start: &s.Start, End: &s.End})
	case *DraggingWireEndpoint:
		p := s.Original
		patch := document.WirePatch{End: &p}
		if s.AtStart {
			patch = document.WirePatch{Start: &p}
		}
		e.doc.UpdateWireTransient(s.ID, patch)
	case *DraggingRectCorner:
		e.doc.UpdateRectangleTransient(s.ID, document.RectanglePatch{Start: &s.Start, End: &s.End})
	case *DraggingRectangle:
		e.doc.UpdateRectangleTransient(s.ID, document.RectanglePatch{Start: &s.Start, End: &s.End})
	case *DraggingGroup:
		e.dragGroup(s, geom.Point{}, func(p geom.Point) geom.Point { return p })
	}
}

