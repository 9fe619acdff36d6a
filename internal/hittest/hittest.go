// Package hittest resolves which entity, and which part of it, a world-space
// point or drag box addresses.
package hittest

import (
	"fmt"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

// Pick radii in screen pixels; divide by zoom for world units.
const (
	HandleRadius = 8.0
	PickRadius   = 5.0
)

// Part is the addressed piece of an entity.
type Part string

const (
	PartNone  Part = ""
	PartBody  Part = "body"
	PartStart Part = "start"
	PartEnd   Part = "end"
)

// CornerPart returns the part naming rectangle corner i.
func CornerPart(i int) Part {
	return Part(fmt.Sprintf("corner%d", i&3))
}

// Corner returns the corner index of a corner part.
func (p Part) Corner() (int, bool) {
	var i int
	if _, err := fmt.Sscanf(string(p), "corner%d", &i); err != nil || i < 0 || i > 3 {
		return 0, false
	}
	return i, true
}

// Hit is the result of a point query. Kind is KindNone on a miss.
type Hit struct {
	Kind document.Kind `json:"kind"`
	ID   string        `json:"id,omitempty"`
	Part Part          `json:"part,omitempty"`
}

func (h Hit) IsNone() bool {
	return h.Kind == document.KindNone
}

// Ref returns the addressed entity.
func (h Hit) Ref() document.Ref {
	return document.Ref{Kind: h.Kind, ID: h.ID}
}

// Resolver runs hit queries. Components whose type the library does not
// know are skipped.
type Resolver struct {
	Symbols symbol.Library
	Text    document.TextMeasurer
}

// At returns the first match for world point p, testing in priority order:
// text boxes, components (topmost first), wire endpoint handles, rectangle
// corner handles, rectangle edges, wire bodies. Handles of selected entities
// are tried before those of unselected ones.
func (r Resolver) At(doc *document.Document, p geom.Point, zoom float64) Hit {
	if zoom <= 0 {
		zoom = 1
	}
	handle := HandleRadius / zoom
	pick := PickRadius / zoom

	texts := doc.TextBoxes()
	for i := len(texts) - 1; i >= 0; i-- {
		if document.TextBounds(texts[i], r.Text).Contains(p) {
			return Hit{Kind: document.KindTextBox, ID: texts[i].ID, Part: PartBody}
		}
	}

	comps := doc.Components()
	for i := len(comps) - 1; i >= 0; i-- {
		sym, ok := r.lookup(comps[i].Type)
		if ok && sym.Contains(comps[i], p) {
			return Hit{Kind: document.KindComponent, ID: comps[i].ID, Part: PartBody}
		}
	}

	wires := doc.Wires()
	for _, selectedPass := range []bool{true, false} {
		for _, w := range wires {
			if selectedPass && !doc.IsSelected(document.KindWire, w.ID) {
				continue
			}
			if p.Distance(w.Start) <= handle {
				return Hit{Kind: document.KindWire, ID: w.ID, Part: PartStart}
			}
			if p.Distance(w.End) <= handle {
				return Hit{Kind: document.KindWire, ID: w.ID, Part: PartEnd}
			}
		}
	}

	rects := doc.Rectangles()
	for _, selectedPass := range []bool{true, false} {
		for _, rc := range rects {
			if selectedPass && !doc.IsSelected(document.KindRectangle, rc.ID) {
				continue
			}
			for i, c := range rc.Bounds().Corners() {
				if p.Distance(c) <= handle {
					return Hit{Kind: document.KindRectangle, ID: rc.ID, Part: CornerPart(i)}
				}
			}
		}
	}

	for i := len(rects) - 1; i >= 0; i-- {
		if onEdge(rects[i].Bounds(), p, pick) {
			return Hit{Kind: document.KindRectangle, ID: rects[i].ID, Part: PartBody}
		}
	}

	for i := len(wires) - 1; i >= 0; i-- {
		w := wires[i]
		if geom.DistanceToSegment(p, w.Start, w.End) <= pick+w.Thickness/2 {
			return Hit{Kind: document.KindWire, ID: w.ID, Part: PartBody}
		}
	}

	return Hit{}
}

// InBox returns every entity lying fully inside box: components by their
// extent center, wires and rectangles by their whole bounding box, text
// boxes by their whole text bounds.
func (r Resolver) InBox(doc *document.Document, box geom.Rect) document.Selection {
	var sel document.Selection
	for _, w := range doc.Wires() {
		if box.ContainsRect(w.Bounds()) {
			sel.Add(document.KindWire, w.ID)
		}
	}
	for _, rc := range doc.Rectangles() {
		if box.ContainsRect(rc.Bounds()) {
			sel.Add(document.KindRectangle, rc.ID)
		}
	}
	for _, t := range doc.TextBoxes() {
		if box.ContainsRect(document.TextBounds(t, r.Text)) {
			sel.Add(document.KindTextBox, t.ID)
		}
	}
	for _, c := range doc.Components() {
		sym, ok := r.lookup(c.Type)
		if ok && box.Contains(sym.Center(c)) {
			sel.Add(document.KindComponent, c.ID)
		}
	}
	return sel
}

func (r Resolver) lookup(typ string) (symbol.Symbol, bool) {
	if r.Symbols == nil {
		return symbol.Symbol{}, false
	}
	return r.Symbols.Lookup(typ)
}

func onEdge(b geom.Rect, p geom.Point, tol float64) bool {
	c := b.Corners()
	for i := range c {
		if geom.DistanceToSegment(p, c[i], c[(i+1)%4]) <= tol {
			return true
		}
	}
	return false
}
