package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/geom"
)

type recorder struct {
	snapshots []Snapshot
}

func (r *recorder) Record(s Snapshot) { r.snapshots = append(r.snapshots, s) }

func newRecorded() (*Document, *recorder) {
	d := New()
	r := &recorder{}
	d.SetRecorder(r)
	return d, r
}

func TestAddAssignsIDsAndCommits(t *testing.T) {
	d, r := newRecorded()
	def := d.Defaults()

	wid := d.AddWire(def.NewWire(geom.Pt(0, 0), geom.Pt(100, 0)))
	cid := d.AddComponent(Component{Type: "resistor", X: 20, Y: 40})

	assert.True(t, strings.HasPrefix(wid, "wire_"))
	assert.True(t, strings.HasPrefix(cid, "comp_"))
	assert.Len(t, r.snapshots, 2)
	assert.Len(t, r.snapshots[1].Wires, 1)
	assert.Len(t, r.snapshots[1].Components, 1)

	w, ok := d.Wire(wid)
	require.True(t, ok)
	assert.Equal(t, "#ffffff", w.Color)
	assert.Equal(t, 2.0, w.Thickness)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	d, _ := newRecorded()
	id := d.AddWire(d.Defaults().NewWire(geom.Pt(0, 0), geom.Pt(20, 0)))

	snap := d.Snapshot()
	d.UpdateWireTransient(id, WirePatch{End: Ptr(geom.Pt(40, 0))})

	assert.Equal(t, geom.Pt(20, 0), snap.Wires[0].End)
	snap.Wires[0].Color = "#ff0000"
	w, _ := d.Wire(id)
	assert.Equal(t, "#ffffff", w.Color)
}

func TestRemoveIsIdempotent(t *testing.T) {
	d, r := newRecorded()
	id := d.AddRectangle(d.Defaults().NewRectangle(geom.Pt(0, 0), geom.Pt(40, 40)))
	d.SetPrimary(KindRectangle, id)

	d.RemoveRectangle(id)
	d.RemoveRectangle(id)
	d.RemoveRectangle("rect_missing")

	assert.Len(t, r.snapshots, 2)
	assert.True(t, d.Primary().IsZero())
	assert.True(t, d.IsEmpty())
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	d, r := newRecorded()
	d.UpdateComponent("comp_missing", ComponentPatch{X: Ptr(10.0)})
	d.UpdateWire("wire_missing", WirePatch{Color: Ptr("#000000")})
	assert.Empty(t, r.snapshots)
}

func TestTransientUpdatesDoNotRecord(t *testing.T) {
	d, r := newRecorded()
	id := d.AddComponent(Component{Type: "diode"})

	for i := range 50 {
		d.UpdateComponentTransient(id, ComponentPatch{X: Ptr(float64(i))})
	}
	assert.Len(t, r.snapshots, 1)

	d.Commit()
	require.Len(t, r.snapshots, 2)
	assert.Equal(t, 49.0, r.snapshots[1].Components[0].X)
}

func TestPatchIgnoresInvalidValues(t *testing.T) {
	d, _ := newRecorded()
	id := d.AddWire(d.Defaults().NewWire(geom.Pt(0, 0), geom.Pt(20, 0)))
	d.UpdateWire(id, WirePatch{Thickness: Ptr(0.0), Style: Ptr(WireStyle("zigzag"))})

	w, _ := d.Wire(id)
	assert.Equal(t, 2.0, w.Thickness)
	assert.Equal(t, WireSolid, w.Style)
}

func TestBatchCommitsOnce(t *testing.T) {
	d, r := newRecorded()
	d.Batch(func() {
		d.AddWire(Wire{Start: geom.Pt(0, 0), End: geom.Pt(1, 0)})
		d.Batch(func() {
			d.AddComponent(Component{Type: "gnd"})
		})
		d.AddTextBox(TextBox{Text: "x"})
	})
	assert.Len(t, r.snapshots, 1)
	assert.Equal(t, 3, d.Len())

	d.Batch(func() {})
	assert.Len(t, r.snapshots, 1)
}

func TestRemoveSelected(t *testing.T) {
	d, r := newRecorded()
	w := d.AddWire(Wire{Start: geom.Pt(0, 0), End: geom.Pt(1, 0)})
	c := d.AddComponent(Component{Type: "gnd"})
	keep := d.AddComponent(Component{Type: "diode"})
	before := len(r.snapshots)

	d.SetMulti(SelectionOf(Ref{KindWire, w}, Ref{KindComponent, c}))
	d.RemoveSelected()

	assert.Len(t, r.snapshots, before+1)
	assert.Equal(t, 1, d.Len())
	assert.True(t, d.Has(KindComponent, keep))
	assert.True(t, d.Selected().IsEmpty())

	d.RemoveSelected()
	assert.Len(t, r.snapshots, before+1)
}

func TestRestoreClearsSelectionAndNotifies(t *testing.T) {
	d, _ := newRecorded()
	var notified int
	d.AddObserver(ObserverFunc(func(*Document) { notified++ }))

	empty := d.Snapshot()
	id := d.AddComponent(Component{Type: "gnd"})
	d.SetPrimary(KindComponent, id)
	d.UpdateComponentTransient(id, ComponentPatch{X: Ptr(5.0)})

	d.Restore(empty)
	assert.True(t, d.IsEmpty())
	assert.True(t, d.Primary().IsZero())
	assert.Equal(t, 2, notified)
}

func TestSelectionModesAreExclusive(t *testing.T) {
	d := New()
	d.SetMulti(SelectionOf(Ref{KindWire, "wire_a"}, Ref{KindComponent, "comp_b"}))
	assert.True(t, d.Primary().IsZero())
	assert.Equal(t, 2, d.Selected().Len())

	d.SetPrimary(KindTextBox, "text_c")
	assert.True(t, d.Multi().IsEmpty())
	assert.Equal(t, []Ref{{KindTextBox, "text_c"}}, d.Selected().Refs())

	d.AddToSelection(KindWire, "wire_a")
	assert.True(t, d.Primary().IsZero())
	assert.ElementsMatch(t, []Ref{{KindTextBox, "text_c"}, {KindWire, "wire_a"}}, d.Selected().Refs())

	d.AddToSelection(KindWire, "wire_a")
	assert.False(t, d.IsSelected(KindWire, "wire_a"))
	assert.True(t, d.IsSelected(KindTextBox, "text_c"))
}

func TestTextBoundsAlignment(t *testing.T) {
	tb := TextBox{X: 100, Y: 100, Text: "abcd\nab", FontSize: 10}
	assert.Equal(t, geom.Rect{X: 100, Y: 100, Width: 24, Height: 24}, TextBounds(tb, EstimateMeasurer{}))

	tb.TextAlign, tb.VerticalAlign = AlignCenter, AlignBottom
	assert.Equal(t, geom.Rect{X: 88, Y: 76, Width: 24, Height: 24}, TextBounds(tb, nil))

	tb.TextAlign, tb.VerticalAlign = AlignRight, AlignMiddle
	assert.Equal(t, geom.Rect{X: 76, Y: 88, Width: 24, Height: 24}, TextBounds(tb, nil))
}
