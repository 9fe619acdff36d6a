package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/history"
)

func TestPasteTwiceDoesNotAccumulate(t *testing.T) {
	doc := document.New()
	h := history.New(0)
	doc.SetRecorder(h)
	h.Reset(doc)

	def := doc.Defaults()
	w1 := doc.AddWire(def.NewWire(geom.Pt(0, 0), geom.Pt(100, 0)))
	w2 := doc.AddWire(def.NewWire(geom.Pt(0, 40), geom.Pt(100, 40)))
	c1 := doc.AddComponent(document.Component{Type: "resistor", X: 200, Y: 0})
	doc.SetMulti(document.SelectionOf(
		document.Ref{Kind: document.KindWire, ID: w1},
		document.Ref{Kind: document.KindWire, ID: w2},
		document.Ref{Kind: document.KindComponent, ID: c1},
	))

	cb := New()
	require.True(t, cb.Copy(doc))

	entries := h.Len()
	first := cb.Paste(doc)
	assert.Equal(t, entries+1, h.Len())
	second := cb.Paste(doc)
	assert.Equal(t, entries+2, h.Len())

	assert.Len(t, doc.Wires(), 6)
	assert.Len(t, doc.Components(), 3)

	ids := map[string]bool{}
	for _, w := range doc.Wires() {
		ids[w.ID] = true
	}
	for _, c := range doc.Components() {
		ids[c.ID] = true
	}
	assert.Len(t, ids, 9)

	for _, sel := range []document.Selection{first, second} {
		require.Len(t, sel.Wires, 2)
		w, ok := doc.Wire(sel.Wires[0])
		require.True(t, ok)
		assert.Equal(t, geom.Pt(20, 20), w.Start)
		assert.Equal(t, geom.Pt(120, 20), w.End)

		c, ok := doc.Component(sel.Components[0])
		require.True(t, ok)
		assert.Equal(t, geom.Pt(220, 20), c.Anchor())
	}

	assert.Equal(t, second, doc.Multi())
	assert.True(t, doc.Primary().IsZero())
}

func TestCopyUsesPrimaryWhenNoMulti(t *testing.T) {
	doc := document.New()
	id := doc.AddTextBox(doc.Defaults().NewTextBox(geom.Pt(5, 5), "note"))
	doc.SetPrimary(document.KindTextBox, id)

	cb := New()
	require.True(t, cb.Copy(doc))
	sel := cb.Paste(doc)

	require.Len(t, sel.TextBoxes, 1)
	tb, _ := doc.TextBox(sel.TextBoxes[0])
	assert.Equal(t, "note", tb.Text)
	assert.Equal(t, geom.Pt(25, 25), tb.Anchor())
}

func TestCopyIsIndependentOfLaterEdits(t *testing.T) {
	doc := document.New()
	id := doc.AddComponent(document.Component{Type: "gnd", X: 0, Y: 0})
	doc.SetPrimary(document.KindComponent, id)
	cb := New()
	cb.Copy(doc)

	doc.UpdateComponent(id, document.ComponentPatch{X: document.Ptr(500.0)})
	sel := cb.Paste(doc)

	c, _ := doc.Component(sel.Components[0])
	assert.Equal(t, 20.0, c.X)
}

func TestEmptyClipboardPastesNothing(t *testing.T) {
	doc := document.New()
	h := history.New(0)
	doc.SetRecorder(h)
	h.Reset(doc)

	cb := New()
	assert.False(t, cb.Copy(doc))
	assert.True(t, cb.Paste(doc).IsEmpty())
	assert.Equal(t, 1, h.Len())
	assert.True(t, doc.IsEmpty())
}
