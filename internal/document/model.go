package document

import "github.com/schedit/schedit/backend-go/internal/geom"

// Kind names an entity collection.
type Kind string

const (
	KindNone      Kind = ""
	KindWire      Kind = "wire"
	KindRectangle Kind = "rectangle"
	KindTextBox   Kind = "textBox"
	KindComponent Kind = "component"
)

type WireStyle string

const (
	WireSolid      WireStyle = "solid"
	WireDouble     WireStyle = "double"
	WireDashed     WireStyle = "dashed"
	WireDashDot    WireStyle = "dash-dot"
	WireWavy       WireStyle = "wavy"
	WireDoubleWavy WireStyle = "double-wavy"
)

// Valid reports whether s is a known wire style.
func (s WireStyle) Valid() bool {
	switch s {
	case WireSolid, WireDouble, WireDashed, WireDashDot, WireWavy, WireDoubleWavy:
		return true
	}
	return false
}

type RectStyle string

const (
	RectSolid   RectStyle = "solid"
	RectDashed  RectStyle = "dashed"
	RectDashDot RectStyle = "dash-dot"
)

func (s RectStyle) Valid() bool {
	switch s {
	case RectSolid, RectDashed, RectDashDot:
		return true
	}
	return false
}

type ArrowShape string

const (
	ArrowNone     ArrowShape = "none"
	ArrowTriangle ArrowShape = "triangle"
	ArrowCircle   ArrowShape = "circle"
)

type ArrowFill string

const (
	ArrowOutline ArrowFill = "outline"
	ArrowHollow  ArrowFill = "hollow"
	ArrowFilled  ArrowFill = "filled"
)

// Arrow decorates one end of a wire.
type Arrow struct {
	Shape  ArrowShape `json:"shape"`
	Fill   ArrowFill  `json:"fill"`
	Inward bool       `json:"inward"`
}

// IsNone reports whether the arrow draws nothing.
func (a Arrow) IsNone() bool {
	return a.Shape == "" || a.Shape == ArrowNone
}

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

type VerticalAlign string

const (
	AlignTop    VerticalAlign = "top"
	AlignMiddle VerticalAlign = "middle"
	AlignBottom VerticalAlign = "bottom"
)

type DrawingMode string

const (
	DrawLine DrawingMode = "line"
	DrawRect DrawingMode = "rect"
)

type Wire struct {
	ID         string     `json:"id,omitempty"`
	Start      geom.Point `json:"start"`
	End        geom.Point `json:"end"`
	Color      string     `json:"color"`
	Thickness  float64    `json:"thickness"`
	Style      WireStyle  `json:"style"`
	ArrowStart Arrow      `json:"arrowStart"`
	ArrowEnd   Arrow      `json:"arrowEnd"`
}

func (w Wire) entityID() string { return w.ID }

// Bounds returns the axis-aligned box spanned by the wire's endpoints.
func (w Wire) Bounds() geom.Rect {
	return geom.RectFromCorners(w.Start, w.End)
}

// Rectangle corners are stored as drawn; Bounds normalizes them.
type Rectangle struct {
	ID        string     `json:"id,omitempty"`
	Start     geom.Point `json:"start"`
	End       geom.Point `json:"end"`
	Color     string     `json:"color"`
	Thickness float64    `json:"thickness"`
	Style     RectStyle  `json:"style"`
}

func (r Rectangle) entityID() string { return r.ID }

func (r Rectangle) Bounds() geom.Rect {
	return geom.RectFromCorners(r.Start, r.End)
}

// Corner returns corner i (0..3) of the normalized bounds, clockwise from
// the top-left.
func (r Rectangle) Corner(i int) geom.Point {
	return r.Bounds().Corners()[i&3]
}

type TextBox struct {
	ID            string        `json:"id,omitempty"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Text          string        `json:"text"`
	Color         string        `json:"color"`
	FontSize      float64       `json:"fontSize"`
	TextAlign     TextAlign     `json:"textAlign"`
	VerticalAlign VerticalAlign `json:"verticalAlign"`
}

func (t TextBox) entityID() string { return t.ID }

func (t TextBox) Anchor() geom.Point {
	return geom.Pt(t.X, t.Y)
}

// Component is a placed instance of a library symbol.
type Component struct {
	ID       string  `json:"id,omitempty"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	FlipX    bool    `json:"flipX"`
	FlipY    bool    `json:"flipY"`
}

func (c Component) entityID() string { return c.ID }

func (c Component) Anchor() geom.Point {
	return geom.Pt(c.X, c.Y)
}

// Placement returns the local-to-world transform of the component.
func (c Component) Placement() geom.Matrix2D {
	return geom.Placement(c.X, c.Y, c.Rotation, c.FlipX, c.FlipY)
}

// Defaults are the style settings applied to newly created entities.
type Defaults struct {
	WireColor     string      `json:"wireColor"`
	WireThickness float64     `json:"wireThickness"`
	WireStyle     WireStyle   `json:"wireStyle"`
	ArrowStart    Arrow       `json:"arrowStart"`
	ArrowEnd      Arrow       `json:"arrowEnd"`
	RectStyle     RectStyle   `json:"rectStyle"`
	TextColor     string      `json:"textColor"`
	FontSize      float64     `json:"fontSize"`
	DrawingMode   DrawingMode `json:"drawingMode"`
}

// DefaultStyle returns the initial style defaults.
func DefaultStyle() Defaults {
	return Defaults{
		WireColor:     "#ffffff",
		WireThickness: 2,
		WireStyle:     WireSolid,
		ArrowStart:    Arrow{Shape: ArrowNone, Fill: ArrowFilled},
		ArrowEnd:      Arrow{Shape: ArrowNone, Fill: ArrowFilled},
		RectStyle:     RectSolid,
		TextColor:     "#ffffff",
		FontSize:      16,
		DrawingMode:   DrawLine,
	}
}

// NewWire builds a wire from a to b styled with the defaults. The id is
// assigned when the wire is added.
func (d Defaults) NewWire(a, b geom.Point) Wire {
	return Wire{
		Start:      a,
		End:        b,
		Color:      d.WireColor,
		Thickness:  d.WireThickness,
		Style:      d.WireStyle,
		ArrowStart: d.ArrowStart,
		ArrowEnd:   d.ArrowEnd,
	}
}

func (d Defaults) NewRectangle(a, b geom.Point) Rectangle {
	return Rectangle{
		Start:     a,
		End:       b,
		Color:     d.WireColor,
		Thickness: d.WireThickness,
		Style:     d.RectStyle,
	}
}

func (d Defaults) NewTextBox(at geom.Point, text string) TextBox {
	return TextBox{
		X:             at.X,
		Y:             at.Y,
		Text:          text,
		Color:         d.TextColor,
		FontSize:      d.FontSize,
		TextAlign:     AlignLeft,
		VerticalAlign: AlignTop,
	}
}
