package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

func newResolver() Resolver {
	return Resolver{Symbols: symbol.Builtin(), Text: document.EstimateMeasurer{}}
}

func TestAtPriority(t *testing.T) {
	doc := document.New()
	def := doc.Defaults()
	wire := doc.AddWire(def.NewWire(geom.Pt(0, 0), geom.Pt(200, 0)))
	comp := doc.AddComponent(document.Component{Type: "resistor", X: 100, Y: 0})
	rect := doc.AddRectangle(def.NewRectangle(geom.Pt(0, 100), geom.Pt(100, 200)))
	text := doc.AddTextBox(def.NewTextBox(geom.Pt(300, 300), "label"))
	r := newResolver()

	tests := []struct {
		name string
		p    geom.Point
		want Hit
	}{
		{"text box", geom.Pt(310, 305), Hit{document.KindTextBox, text, PartBody}},
		{"component over wire body", geom.Pt(130, 0), Hit{document.KindComponent, comp, PartBody}},
		{"wire start handle", geom.Pt(3, 3), Hit{document.KindWire, wire, PartStart}},
		{"wire end handle", geom.Pt(198, 0), Hit{document.KindWire, wire, PartEnd}},
		{"wire body", geom.Pt(50, 4), Hit{document.KindWire, wire, PartBody}},
		{"rect corner", geom.Pt(102, 198), Hit{document.KindRectangle, rect, CornerPart(2)}},
		{"rect edge", geom.Pt(50, 103), Hit{document.KindRectangle, rect, PartBody}},
		{"rect interior is empty", geom.Pt(50, 150), Hit{}},
		{"empty space", geom.Pt(-500, -500), Hit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.At(doc, tt.p, 1))
		})
	}
}

func TestAtScalesWithZoom(t *testing.T) {
	doc := document.New()
	wire := doc.AddWire(doc.Defaults().NewWire(geom.Pt(0, 0), geom.Pt(200, 0)))
	r := newResolver()

	assert.True(t, r.At(doc, geom.Pt(100, 10), 1).IsNone())
	assert.Equal(t, wire, r.At(doc, geom.Pt(100, 10), 0.5).ID)
}

func TestSelectedHandlesWin(t *testing.T) {
	doc := document.New()
	def := doc.Defaults()
	first := doc.AddWire(def.NewWire(geom.Pt(0, 0), geom.Pt(100, 0)))
	second := doc.AddWire(def.NewWire(geom.Pt(4, 0), geom.Pt(4, 100)))
	r := newResolver()

	assert.Equal(t, first, r.At(doc, geom.Pt(2, 0), 1).ID)

	doc.SetPrimary(document.KindWire, second)
	hit := r.At(doc, geom.Pt(2, 0), 1)
	assert.Equal(t, second, hit.ID)
	assert.Equal(t, PartStart, hit.Part)
}

func TestUnknownComponentTypeIsSkipped(t *testing.T) {
	doc := document.New()
	doc.AddComponent(document.Component{Type: "vacuum_tube", X: 0, Y: 0})
	r := newResolver()

	assert.True(t, r.At(doc, geom.Pt(0, 0), 1).IsNone())
	assert.True(t, r.InBox(doc, geom.Rect{X: -100, Y: -100, Width: 200, Height: 200}).IsEmpty())
}

func TestInBoxIsStrict(t *testing.T) {
	doc := document.New()
	def := doc.Defaults()
	inside := doc.AddWire(def.NewWire(geom.Pt(10, 10), geom.Pt(90, 10)))
	straddling := doc.AddWire(def.NewWire(geom.Pt(20, 50), geom.Pt(150, 50)))
	comp := doc.AddComponent(document.Component{Type: "resistor", X: 20, Y: 80})
	doc.AddRectangle(def.NewRectangle(geom.Pt(10, 20), geom.Pt(120, 40)))
	text := doc.AddTextBox(def.NewTextBox(geom.Pt(10, 60), "ok"))
	r := newResolver()

	sel := r.InBox(doc, geom.RectFromCorners(geom.Pt(0, 0), geom.Pt(100, 100)))

	assert.Equal(t, []string{inside}, sel.Wires)
	assert.NotContains(t, sel.Wires, straddling)
	assert.Empty(t, sel.Rectangles)
	assert.Equal(t, []string{text}, sel.TextBoxes)
	// Center at (50, 80) is inside even though the right pin end is not.
	assert.Equal(t, []string{comp}, sel.Components)
}

func TestCornerPart(t *testing.T) {
	i, ok := CornerPart(3).Corner()
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	_, ok = PartBody.Corner()
	assert.False(t, ok)
}
