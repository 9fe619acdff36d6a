// Package clipboard copies selected entities and pastes them back as fresh
// entities at a fixed offset.
package clipboard

import (
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
)

// Offset is added to every pasted coordinate, relative to the copied
// originals. Repeated pastes land on the same spot.
var Offset = geom.Pt(20, 20)

type Clipboard struct {
	content document.Snapshot
}

func New() *Clipboard {
	return &Clipboard{}
}

// Copy stores deep copies of the document's current selection. An empty
// selection leaves the clipboard unchanged and returns false.
func (c *Clipboard) Copy(doc *document.Document) bool {
	sel := doc.Selected()
	if sel.IsEmpty() {
		return false
	}
	content := doc.Extract(sel)
	if len(content.Wires)+len(content.Rectangles)+len(content.TextBoxes)+len(content.Components) == 0 {
		return false
	}
	c.content = content
	return true
}

func (c *Clipboard) IsEmpty() bool {
	s := c.content
	return len(s.Wires)+len(s.Rectangles)+len(s.TextBoxes)+len(s.Components) == 0
}

// Paste inserts offset copies with fresh ids in one commit and makes them
// the multi-selection. It returns the new selection; an empty clipboard
// pastes nothing.
func (c *Clipboard) Paste(doc *document.Document) document.Selection {
	var sel document.Selection
	if c.IsEmpty() {
		return sel
	}
	doc.Batch(func() {
		for _, w := range c.content.Wires {
			w.Start, w.End = w.Start.Add(Offset), w.End.Add(Offset)
			sel.Add(document.KindWire, doc.AddWire(w))
		}
		for _, r := range c.content.Rectangles {
			r.Start, r.End = r.Start.Add(Offset), r.End.Add(Offset)
			sel.Add(document.KindRectangle, doc.AddRectangle(r))
		}
		for _, t := range c.content.TextBoxes {
			t.X, t.Y = t.X+Offset.X, t.Y+Offset.Y
			sel.Add(document.KindTextBox, doc.AddTextBox(t))
		}
		for _, comp := range c.content.Components {
			comp.X, comp.Y = comp.X+Offset.X, comp.Y+Offset.Y
			sel.Add(document.KindComponent, doc.AddComponent(comp))
		}
	})
	doc.SetMulti(sel)
	return sel
}
