package engine

import (
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
)

// State is the active interaction mode. Exactly one is active at a time;
// the concrete types below are the only implementations.
type State interface {
	Name() string
}

// Idle waits for input.
type Idle struct{}

// PanningView moves the view with the pointer. Last is in screen space.
type PanningView struct {
	Last geom.Point
}

// DrawingWire has a snapped anchor and follows the pointer until the next
// click commits or cancels.
type DrawingWire struct {
	Anchor  geom.Point
	Current geom.Point
}

type DrawingRect struct {
	Anchor  geom.Point
	Current geom.Point
}

// DraggingComponent moves one component. Grab is the world point of the
// pointer-down.
type DraggingComponent struct {
	ID     string
	Origin geom.Point
	Grab   geom.Point
}

type DraggingWireBody struct {
	ID         string
	Start, End geom.Point
	Grab       geom.Point
}

// DraggingWireEndpoint moves one end of a wire; AtStart selects which.
type DraggingWireEndpoint struct {
	ID       string
	AtStart  bool
	Original geom.Point
}

// DraggingRectCorner moves one corner while the opposite corner stays put.
type DraggingRectCorner struct {
	ID         string
	Corner     int
	Start, End geom.Point
}

type DraggingRectangle struct {
	ID         string
	Start, End geom.Point
	Grab       geom.Point
}

type DraggingTextBox struct {
	ID     string
	Origin geom.Point
	Grab   geom.Point
}

// DraggingGroup moves every member of the multi-selection by the same
// offset. Originals holds the members as they were at pointer-down.
type DraggingGroup struct {
	Originals document.Snapshot
	Grab      geom.Point
}

// DrawingSelectionBox tracks a rubber-band box in world space.
type DrawingSelectionBox struct {
	Anchor  geom.Point
	Current geom.Point
}

func (*Idle) Name() string                 { return "idle" }
func (*PanningView) Name() string          { return "panningView" }
func (*DrawingWire) Name() string          { return "drawingWire" }
func (*DrawingRect) Name() string          { return "drawingRect" }
func (*DraggingComponent) Name() string    { return "draggingComponent" }
func (*DraggingWireBody) Name() string     { return "draggingWireBody" }
func (*DraggingWireEndpoint) Name() string { return "draggingWireEndpoint" }
func (*DraggingRectCorner) Name() string   { return "draggingRectCorner" }
func (*DraggingRectangle) Name() string    { return "draggingRectangle" }
func (*DraggingTextBox) Name() string      { return "draggingTextBox" }
func (*DraggingGroup) Name() string        { return "draggingGroup" }
func (*DrawingSelectionBox) Name() string  { return "drawingSelectionBox" }

// Box returns the normalized selection box.
func (s *DrawingSelectionBox) Box() geom.Rect {
	return geom.RectFromCorners(s.Anchor, s.Current)
}

// isDrawing reports whether s waits for a second click.
func isDrawing(s State) bool {
	switch s.(type) {
	case *DrawingWire, *DrawingRect:
		return true
	}
	return false
}
