// Package document holds the scene document: the entity collections, the
// style defaults and the selection state, plus the JSON file format.
//
// Mutations come in two flavours. Committing mutations hand a snapshot to the
// Recorder (the undo history) and notify Observers. Transient mutations, used
// for every intermediate frame of a drag, do neither; the gesture ends with an
// explicit Commit.
package document

import (
	"slices"

	"github.com/jinzhu/copier"

	"github.com/schedit/schedit/backend-go/internal/typeid"
)

// Snapshot is a deep copy of the four entity collections.
type Snapshot struct {
	Wires      []Wire      `json:"wires"`
	Rectangles []Rectangle `json:"rectangles"`
	TextBoxes  []TextBox   `json:"textBoxes"`
	Components []Component `json:"components"`
}

// Recorder receives a snapshot after every committing mutation.
type Recorder interface {
	Record(Snapshot)
}

// Observer is notified whenever the collections change outside a drag:
// commits, restores and loads.
type Observer interface {
	DocumentChanged(*Document)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(*Document)

func (f ObserverFunc) DocumentChanged(d *Document) { f(d) }

type entity interface {
	Wire | Rectangle | TextBox | Component
	entityID() string
}

// Document is the single owner of the scene. It is not safe for concurrent
// use; callers serialize access.
type Document struct {
	wires      []Wire
	rectangles []Rectangle
	textBoxes  []TextBox
	components []Component

	defaults Defaults

	primary Ref
	multi   Selection

	recorder  Recorder
	observers []Observer

	batchDepth int
	batchDirty bool
}

// New creates an empty document with default styles.
func New() *Document {
	return &Document{
		wires:      []Wire{},
		rectangles: []Rectangle{},
		textBoxes:  []TextBox{},
		components: []Component{},
		defaults:   DefaultStyle(),
	}
}

// SetRecorder installs the history sink. A nil recorder disables recording.
func (d *Document) SetRecorder(r Recorder) {
	d.recorder = r
}

func (d *Document) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Document) Defaults() Defaults {
	return d.defaults
}

func (d *Document) SetDefaults(def Defaults) {
	d.defaults = def
}

// --- Reads ---

func (d *Document) Wires() []Wire           { return slices.Clone(d.wires) }
func (d *Document) Rectangles() []Rectangle { return slices.Clone(d.rectangles) }
func (d *Document) TextBoxes() []TextBox    { return slices.Clone(d.textBoxes) }
func (d *Document) Components() []Component { return slices.Clone(d.components) }

func (d *Document) Wire(id string) (Wire, bool)           { return find(d.wires, id) }
func (d *Document) Rectangle(id string) (Rectangle, bool) { return find(d.rectangles, id) }
func (d *Document) TextBox(id string) (TextBox, bool)     { return find(d.textBoxes, id) }
func (d *Document) Component(id string) (Component, bool) { return find(d.components, id) }

// Has reports whether the referenced entity exists.
func (d *Document) Has(kind Kind, id string) bool {
	switch kind {
	case KindWire:
		return indexOf(d.wires, id) >= 0
	case KindRectangle:
		return indexOf(d.rectangles, id) >= 0
	case KindTextBox:
		return indexOf(d.textBoxes, id) >= 0
	case KindComponent:
		return indexOf(d.components, id) >= 0
	}
	return false
}

func (d *Document) Len() int {
	return len(d.wires) + len(d.rectangles) + len(d.textBoxes) + len(d.components)
}

func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// --- Adds ---

func (d *Document) AddWire(w Wire) string {
	w.ID = typeid.NewWireID()
	d.wires = append(d.wires, w)
	d.commit()
	return w.ID
}

func (d *Document) AddRectangle(r Rectangle) string {
	r.ID = typeid.NewRectangleID()
	d.rectangles = append(d.rectangles, r)
	d.commit()
	return r.ID
}

func (d *Document) AddTextBox(t TextBox) string {
	t.ID = typeid.NewTextBoxID()
	d.textBoxes = append(d.textBoxes, t)
	d.commit()
	return t.ID
}

func (d *Document) AddComponent(c Component) string {
	c.ID = typeid.NewComponentID()
	d.components = append(d.components, c)
	d.commit()
	return c.ID
}

// --- Removes ---

func (d *Document) RemoveWire(id string) {
	var ok bool
	if d.wires, ok = remove(d.wires, id); ok {
		d.forget(KindWire, id)
		d.commit()
	}
}

func (d *Document) RemoveRectangle(id string) {
	var ok bool
	if d.rectangles, ok = remove(d.rectangles, id); ok {
		d.forget(KindRectangle, id)
		d.commit()
	}
}

func (d *Document) RemoveTextBox(id string) {
	var ok bool
	if d.textBoxes, ok = remove(d.textBoxes, id); ok {
		d.forget(KindTextBox, id)
		d.commit()
	}
}

func (d *Document) RemoveComponent(id string) {
	var ok bool
	if d.components, ok = remove(d.components, id); ok {
		d.forget(KindComponent, id)
		d.commit()
	}
}

// Remove deletes the referenced entity.
func (d *Document) Remove(ref Ref) {
	switch ref.Kind {
	case KindWire:
		d.RemoveWire(ref.ID)
	case KindRectangle:
		d.RemoveRectangle(ref.ID)
	case KindTextBox:
		d.RemoveTextBox(ref.ID)
	case KindComponent:
		d.RemoveComponent(ref.ID)
	}
}

// RemoveSelected deletes every selected entity in one commit and clears the
// selection.
func (d *Document) RemoveSelected() {
	sel := d.Selected()
	if sel.IsEmpty() {
		return
	}
	d.Batch(func() {
		for _, ref := range sel.Refs() {
			d.Remove(ref)
		}
	})
	d.ClearSelection()
}

// --- Batching, commit, snapshot ---

// Batch runs fn and folds every commit it triggers into one. Nested batches
// commit when the outermost returns.
func (d *Document) Batch(fn func()) {
	d.batchDepth++
	defer func() {
		d.batchDepth--
		if d.batchDepth == 0 && d.batchDirty {
			d.batchDirty = false
			d.commit()
		}
	}()
	fn()
}

// Commit records the current collections, closing a drag gesture.
func (d *Document) Commit() {
	d.commit()
}

func (d *Document) commit() {
	if d.batchDepth > 0 {
		d.batchDirty = true
		return
	}
	if d.recorder != nil {
		d.recorder.Record(d.Snapshot())
	}
	d.notify()
}

func (d *Document) notify() {
	for _, o := range d.observers {
		o.DocumentChanged(d)
	}
}

// Snapshot returns a deep copy of the collections.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		Wires:      deepCopy(d.wires),
		Rectangles: deepCopy(d.rectangles),
		TextBoxes:  deepCopy(d.textBoxes),
		Components: deepCopy(d.components),
	}
}

// Restore replaces the collections with a copy of s and clears the
// selection. It does not record.
func (d *Document) Restore(s Snapshot) {
	d.wires = deepCopy(s.Wires)
	d.rectangles = deepCopy(s.Rectangles)
	d.textBoxes = deepCopy(s.TextBoxes)
	d.components = deepCopy(s.Components)
	d.ClearSelection()
	d.notify()
}

// --- helpers ---

func deepCopy[T entity](src []T) []T {
	dst := make([]T, 0, len(src))
	if len(src) == 0 {
		return dst
	}
	if err := copier.CopyWithOption(&dst, src, copier.Option{DeepCopy: true}); err != nil || len(dst) != len(src) {
		dst = append(dst[:0], src...)
	}
	return dst
}

func indexOf[T entity](items []T, id string) int {
	return slices.IndexFunc(items, func(v T) bool { return v.entityID() == id })
}

func find[T entity](items []T, id string) (T, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func remove[T entity](items []T, id string) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

// Extract returns deep copies of the selected entities that exist, in
// document order.
func (d *Document) Extract(sel Selection) Snapshot {
	return Snapshot{
		Wires:      deepCopy(pick(d.wires, sel.Wires)),
		Rectangles: deepCopy(pick(d.rectangles, sel.Rectangles)),
		TextBoxes:  deepCopy(pick(d.textBoxes, sel.TextBoxes)),
		Components: deepCopy(pick(d.components, sel.Components)),
	}
}

func pick[T entity](items []T, ids []string) []T {
	var out []T
	for _, v := range items {
		if slices.Contains(ids, v.entityID()) {
			out = append(out, v)
		}
	}
	return out
}
