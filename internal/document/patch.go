package document

import "github.com/schedit/schedit/backend-go/internal/geom"

// Ptr returns a pointer to v, for filling patch fields.
func Ptr[T any](v T) *T {
	return &v
}

// WirePatch is a partial wire update; nil fields are left unchanged.
type WirePatch struct {
	Start      *geom.Point `json:"start,omitempty"`
	End        *geom.Point `json:"end,omitempty"`
	Color      *string     `json:"color,omitempty"`
	Thickness  *float64    `json:"thickness,omitempty"`
	Style      *WireStyle  `json:"style,omitempty"`
	ArrowStart *Arrow      `json:"arrowStart,omitempty"`
	ArrowEnd   *Arrow      `json:"arrowEnd,omitempty"`
}

func (p WirePatch) apply(w *Wire) {
	if p.Start != nil {
		w.Start = *p.Start
	}
	if p.End != nil {
		w.End = *p.End
	}
	if p.Color != nil {
		w.Color = *p.Color
	}
	if p.Thickness != nil && *p.Thickness > 0 {
		w.Thickness = *p.Thickness
	}
	if p.Style != nil && p.Style.Valid() {
		w.Style = *p.Style
	}
	if p.ArrowStart != nil {
		w.ArrowStart = *p.ArrowStart
	}
	if p.ArrowEnd != nil {
		w.ArrowEnd = *p.ArrowEnd
	}
}

type RectanglePatch struct {
	Start     *geom.Point `json:"start,omitempty"`
	End       *geom.Point `json:"end,omitempty"`
	Color     *string     `json:"color,omitempty"`
	Thickness *float64    `json:"thickness,omitempty"`
	Style     *RectStyle  `json:"style,omitempty"`
}

func (p RectanglePatch) apply(r *Rectangle) {
	if p.Start != nil {
		r.Start = *p.Start
	}
	if p.End != nil {
		r.End = *p.End
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	if p.Thickness != nil && *p.Thickness > 0 {
		r.Thickness = *p.Thickness
	}
	if p.Style != nil && p.Style.Valid() {
		r.Style = *p.Style
	}
}

type TextBoxPatch struct {
	X             *float64       `json:"x,omitempty"`
	Y             *float64       `json:"y,omitempty"`
	Text          *string        `json:"text,omitempty"`
	Color         *string        `json:"color,omitempty"`
	FontSize      *float64       `json:"fontSize,omitempty"`
	TextAlign     *TextAlign     `json:"textAlign,omitempty"`
	VerticalAlign *VerticalAlign `json:"verticalAlign,omitempty"`
}

func (p TextBoxPatch) apply(t *TextBox) {
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontSize != nil && *p.FontSize > 0 {
		t.FontSize = *p.FontSize
	}
	if p.TextAlign != nil {
		t.TextAlign = *p.TextAlign
	}
	if p.VerticalAlign != nil {
		t.VerticalAlign = *p.VerticalAlign
	}
}

// MoveTo sets the anchor.
func (p TextBoxPatch) MoveTo(at geom.Point) TextBoxPatch {
	p.X, p.Y = Ptr(at.X), Ptr(at.Y)
	return p
}

type ComponentPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	FlipX    *bool    `json:"flipX,omitempty"`
	FlipY    *bool    `json:"flipY,omitempty"`
}

func (p ComponentPatch) apply(c *Component) {
	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	if p.Rotation != nil {
		c.Rotation = *p.Rotation
	}
	if p.FlipX != nil {
		c.FlipX = *p.FlipX
	}
	if p.FlipY != nil {
		c.FlipY = *p.FlipY
	}
}

func (p ComponentPatch) MoveTo(at geom.Point) ComponentPatch {
	p.X, p.Y = Ptr(at.X), Ptr(at.Y)
	return p
}

// --- Updates ---

// UpdateWire merges p into the wire and commits. Unknown ids are ignored.
func (d *Document) UpdateWire(id string, p WirePatch) {
	if d.updateWire(id, p) {
		d.commit()
	}
}

// UpdateWireTransient merges p without recording, for drag frames.
func (d *Document) UpdateWireTransient(id string, p WirePatch) {
	d.updateWire(id, p)
}

func (d *Document) updateWire(id string, p WirePatch) bool {
	i := indexOf(d.wires, id)
	if i < 0 {
		return false
	}
	p.apply(&d.wires[i])
	return true
}

func (d *Document) UpdateRectangle(id string, p RectanglePatch) {
	if d.updateRectangle(id, p) {
		d.commit()
	}
}

func (d *Document) UpdateRectangleTransient(id string, p RectanglePatch) {
	d.updateRectangle(id, p)
}

func (d *Document) updateRectangle(id string, p RectanglePatch) bool {
	i := indexOf(d.rectangles, id)
	if i < 0 {
		return false
	}
	p.apply(&d.rectangles[i])
	return true
}

func (d *Document) UpdateTextBox(id string, p TextBoxPatch) {
	if d.updateTextBox(id, p) {
		d.commit()
	}
}

func (d *Document) UpdateTextBoxTransient(id string, p TextBoxPatch) {
	d.updateTextBox(id, p)
}

func (d *Document) updateTextBox(id string, p TextBoxPatch) bool {
	i := indexOf(d.textBoxes, id)
	if i < 0 {
		return false
	}
	p.apply(&d.textBoxes[i])
	return true
}

func (d *Document) UpdateComponent(id string, p ComponentPatch) {
	if d.updateComponent(id, p) {
		d.commit()
	}
}

func (d *Document) UpdateComponentTransient(id string, p ComponentPatch) {
	d.updateComponent(id, p)
}

func (d *Document) updateComponent(id string, p ComponentPatch) bool {
	i := indexOf(d.components, id)
	if i < 0 {
		return false
	}
	p.apply(&d.components[i])
	return true
}
