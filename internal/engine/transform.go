package engine

import (
	"math"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
)

// RotateSelection turns the selection by +90°. A lone component turns in
// place; anything else turns about the grid-snapped centroid of its
// anchor points, with each component's own rotation advanced as well.
func (e *Engine) RotateSelection() {
	sel := e.doc.Selected()
	if sel.IsEmpty() {
		return
	}
	if id, ok := loneComponent(sel); ok {
		if c, ok := e.doc.Component(id); ok {
			rot := geom.NormalizeAngle(c.Rotation + math.Pi/2)
			e.doc.UpdateComponent(id, document.ComponentPatch{Rotation: &rot})
		}
		return
	}

	content := e.doc.Extract(sel)
	center := e.snap(geom.Centroid(anchors(content)))
	move := func(p geom.Point) geom.Point { return geom.RotateQuarter(p, center) }
	e.doc.Batch(func() {
		e.moveAll(content, move)
		for _, c := range content.Components {
			rot := geom.NormalizeAngle(c.Rotation + math.Pi/2)
			e.doc.UpdateComponent(c.ID, document.ComponentPatch{Rotation: &rot})
		}
	})
}

// MirrorSelection reflects the selection horizontally (across a vertical
// axis) or vertically. A lone component toggles its flip flag; a group is
// reflected about its grid-snapped centroid and each component's rotation
// is negated.
func (e *Engine) MirrorSelection(horizontal bool) {
	sel := e.doc.Selected()
	if sel.IsEmpty() {
		return
	}
	if id, ok := loneComponent(sel); ok {
		if c, ok := e.doc.Component(id); ok {
			e.doc.UpdateComponent(id, flipPatch(c, horizontal))
		}
		return
	}

	content := e.doc.Extract(sel)
	center := e.snap(geom.Centroid(anchors(content)))
	move := func(p geom.Point) geom.Point {
		if horizontal {
			return geom.MirrorX(p, center.X)
		}
		return geom.MirrorY(p, center.Y)
	}
	e.doc.Batch(func() {
		e.moveAll(content, move)
		for _, c := range content.Components {
			patch := flipPatch(c, horizontal)
			rot := geom.NormalizeAngle(-c.Rotation)
			patch.Rotation = &rot
			e.doc.UpdateComponent(c.ID, patch)
		}
	})
}

func flipPatch(c document.Component, horizontal bool) document.ComponentPatch {
	if horizontal {
		return document.ComponentPatch{FlipX: document.Ptr(!c.FlipX)}
	}
	return document.ComponentPatch{FlipY: document.Ptr(!c.FlipY)}
}

// moveAll maps every anchor point of content through move and commits
// each entity.
func (e *Engine) moveAll(content document.Snapshot, move func(geom.Point) geom.Point) {
	for _, w := range content.Wires {
		a, b := move(w.Start), move(w.End)
		e.doc.UpdateWire(w.ID, document.WirePatch{Start: &a, End: &b})
	}
	for _, r := range content.Rectangles {
		a, b := move(r.Start), move(r.End)
		e.doc.UpdateRectangle(r.ID, document.RectanglePatch{Start: &a, End: &b})
	}
	for _, t := range content.TextBoxes {
		e.doc.UpdateTextBox(t.ID, document.TextBoxPatch{}.MoveTo(move(t.Anchor())))
	}
	for _, c := range content.Components {
		e.doc.UpdateComponent(c.ID, document.ComponentPatch{}.MoveTo(move(c.Anchor())))
	}
}

func anchors(s document.Snapshot) []geom.Point {
	var pts []geom.Point
	for _, w := range s.Wires {
		pts = append(pts, w.Start, w.End)
	}
	for _, r := range s.Rectangles {
		pts = append(pts, r.Start, r.End)
	}
	for _, t := range s.TextBoxes {
		pts = append(pts, t.Anchor())
	}
	for _, c := range s.Components {
		pts = append(pts, c.Anchor())
	}
	return pts
}

func loneComponent(sel document.Selection) (string, bool) {
	if sel.Len() == 1 && len(sel.Components) == 1 {
		return sel.Components[0], true
	}
	return "", false
}
