package document

import (
	"math"

	"github.com/schedit/schedit/backend-go/internal/geom"
)

// NewSampleFile returns a small RC low-pass schematic used for demos and
// smoke tests.
func NewSampleFile() *File {
	def := DefaultStyle()

	wire := func(x0, y0, x1, y1 float64) Wire {
		return def.NewWire(geom.Pt(x0, y0), geom.Pt(x1, y1))
	}

	label := def.NewTextBox(geom.Pt(160, 40), "RC low-pass\nfc = 1/(2πRC)")
	label.TextAlign = AlignCenter

	frame := def.NewRectangle(geom.Pt(20, 20), geom.Pt(320, 260))
	frame.Style = RectDashed
	frame.Color = "#888888"

	out := wire(200, 100, 280, 100)
	out.ArrowEnd = Arrow{Shape: ArrowTriangle, Fill: ArrowFilled}

	return &File{
		Version: FileVersion,
		Wires: []Wire{
			wire(60, 100, 100, 100),
			wire(160, 100, 200, 100),
			wire(200, 100, 200, 140),
			wire(200, 200, 200, 220),
			out,
		},
		Rectangles: []Rectangle{frame},
		TextBoxes:  []TextBox{label},
		Components: []Component{
			{Type: "resistor", X: 100, Y: 100},
			{Type: "capacitor", X: 200, Y: 140, Rotation: math.Pi / 2},
			{Type: "gnd", X: 200, Y: 240},
		},
	}
}

// NewSampleDocument creates a document preloaded with the sample schematic.
func NewSampleDocument() *Document {
	d := New()
	d.Load(NewSampleFile())
	return d
}
