package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
)

func setup(limit int) (*document.Document, *Manager) {
	doc := document.New()
	h := New(limit)
	doc.SetRecorder(h)
	h.Reset(doc)
	return doc, h
}

func addWire(doc *document.Document, x float64) string {
	return doc.AddWire(doc.Defaults().NewWire(geom.Pt(x, 0), geom.Pt(x, 100)))
}

func TestUndoRedoInverseLaw(t *testing.T) {
	doc, h := setup(DefaultLimit)
	d0 := doc.Snapshot()

	var states []document.Snapshot
	w := addWire(doc, 0)
	states = append(states, doc.Snapshot())
	c := doc.AddComponent(document.Component{Type: "resistor", X: 40, Y: 40})
	states = append(states, doc.Snapshot())
	doc.UpdateWire(w, document.WirePatch{Color: document.Ptr("#ff0000")})
	states = append(states, doc.Snapshot())
	doc.UpdateComponent(c, document.ComponentPatch{FlipX: document.Ptr(true)})
	states = append(states, doc.Snapshot())
	doc.RemoveWire(w)
	states = append(states, doc.Snapshot())

	n := len(states)
	for i := n - 1; i >= 0; i-- {
		require.True(t, h.Undo(doc))
		if i > 0 {
			assert.Equal(t, states[i-1], doc.Snapshot())
		}
	}
	assert.Equal(t, d0, doc.Snapshot())
	assert.False(t, h.Undo(doc))

	for i := range n {
		require.True(t, h.Redo(doc))
		assert.Equal(t, states[i], doc.Snapshot())
	}
	assert.False(t, h.Redo(doc))
}

func TestNewCommitDiscardsRedoBranch(t *testing.T) {
	doc, h := setup(DefaultLimit)
	a := addWire(doc, 0)
	b := addWire(doc, 20)

	h.Undo(doc)
	assert.True(t, doc.Has(document.KindWire, a))
	assert.False(t, doc.Has(document.KindWire, b))

	c := addWire(doc, 40)
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo(doc))

	assert.Len(t, doc.Wires(), 2)
	assert.True(t, doc.Has(document.KindWire, a))
	assert.True(t, doc.Has(document.KindWire, c))
	assert.False(t, doc.Has(document.KindWire, b))
}

func TestUndoClearsSelection(t *testing.T) {
	doc, h := setup(DefaultLimit)
	id := addWire(doc, 0)
	addWire(doc, 20)
	doc.SetPrimary(document.KindWire, id)

	h.Undo(doc)
	assert.True(t, doc.Primary().IsZero())
	assert.True(t, doc.Multi().IsEmpty())
}

func TestLimitEvictsOldest(t *testing.T) {
	doc, h := setup(DefaultLimit)
	for i := range 60 {
		addWire(doc, float64(i*20))
	}
	assert.Equal(t, DefaultLimit, h.Len())
	assert.Equal(t, DefaultLimit-1, h.Index())

	undone := 0
	for h.Undo(doc) {
		undone++
	}
	assert.Equal(t, DefaultLimit-1, undone)
	assert.Len(t, doc.Wires(), 60-(DefaultLimit-1))
}

func TestEmptyHistoryIsInert(t *testing.T) {
	doc := document.New()
	h := New(0)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Undo(doc))
	assert.False(t, h.Redo(doc))
	_, ok := h.Current()
	assert.False(t, ok)
}
