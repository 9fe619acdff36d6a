package document

import "slices"

// Ref addresses a single entity.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

func (r Ref) IsZero() bool {
	return r.Kind == KindNone || r.ID == ""
}

// Selection is a set of entity ids per kind.
type Selection struct {
	Wires      []string `json:"wires"`
	Rectangles []string `json:"rectangles"`
	TextBoxes  []string `json:"textBoxes"`
	Components []string `json:"components"`
}

func (s Selection) Len() int {
	return len(s.Wires) + len(s.Rectangles) + len(s.TextBoxes) + len(s.Components)
}

func (s Selection) IsEmpty() bool {
	return s.Len() == 0
}

// IDs returns the ids selected for kind.
func (s Selection) IDs(kind Kind) []string {
	switch kind {
	case KindWire:
		return s.Wires
	case KindRectangle:
		return s.Rectangles
	case KindTextBox:
		return s.TextBoxes
	case KindComponent:
		return s.Components
	}
	return nil
}

func (s *Selection) ids(kind Kind) *[]string {
	switch kind {
	case KindWire:
		return &s.Wires
	case KindRectangle:
		return &s.Rectangles
	case KindTextBox:
		return &s.TextBoxes
	case KindComponent:
		return &s.Components
	}
	return nil
}

func (s Selection) Contains(kind Kind, id string) bool {
	return slices.Contains(s.IDs(kind), id)
}

// Add inserts id unless already present.
func (s *Selection) Add(kind Kind, id string) {
	ids := s.ids(kind)
	if ids == nil || id == "" || slices.Contains(*ids, id) {
		return
	}
	*ids = append(*ids, id)
}

// Remove drops id if present.
func (s *Selection) Remove(kind Kind, id string) {
	ids := s.ids(kind)
	if ids == nil {
		return
	}
	*ids = slices.DeleteFunc(*ids, func(v string) bool { return v == id })
}

// Refs flattens the selection in wire, rectangle, text, component order.
func (s Selection) Refs() []Ref {
	refs := make([]Ref, 0, s.Len())
	for _, kind := range []Kind{KindWire, KindRectangle, KindTextBox, KindComponent} {
		for _, id := range s.IDs(kind) {
			refs = append(refs, Ref{Kind: kind, ID: id})
		}
	}
	return refs
}

func (s Selection) clone() Selection {
	return Selection{
		Wires:      slices.Clone(s.Wires),
		Rectangles: slices.Clone(s.Rectangles),
		TextBoxes:  slices.Clone(s.TextBoxes),
		Components: slices.Clone(s.Components),
	}
}

// SelectionOf builds a selection from refs.
func SelectionOf(refs ...Ref) Selection {
	var s Selection
	for _, r := range refs {
		s.Add(r.Kind, r.ID)
	}
	return s
}

// --- Document selection state ---

// Primary returns the single selected entity, if any.
func (d *Document) Primary() Ref {
	return d.primary
}

// Multi returns a copy of the multi-selection sets.
func (d *Document) Multi() Selection {
	return d.multi.clone()
}

// Selected returns what keyboard commands act on: the multi-selection when
// non-empty, otherwise the primary selection.
func (d *Document) Selected() Selection {
	if !d.multi.IsEmpty() {
		return d.multi.clone()
	}
	if d.primary.IsZero() {
		return Selection{}
	}
	return SelectionOf(d.primary)
}

// IsSelected reports whether the entity is primary or in the multi-selection.
func (d *Document) IsSelected(kind Kind, id string) bool {
	return d.primary == (Ref{Kind: kind, ID: id}) || d.multi.Contains(kind, id)
}

// SetPrimary selects one entity and clears the multi-selection.
func (d *Document) SetPrimary(kind Kind, id string) {
	d.primary = Ref{Kind: kind, ID: id}
	d.multi = Selection{}
}

// SetMulti replaces the multi-selection and clears the primary.
func (d *Document) SetMulti(sel Selection) {
	d.primary = Ref{}
	d.multi = sel.clone()
}

func (d *Document) ClearSelection() {
	d.primary = Ref{}
	d.multi = Selection{}
}

// AddToSelection toggles an entity in the multi-selection. A primary
// selection is folded into the set first.
func (d *Document) AddToSelection(kind Kind, id string) {
	if !d.primary.IsZero() {
		d.multi.Add(d.primary.Kind, d.primary.ID)
		d.primary = Ref{}
	}
	if d.multi.Contains(kind, id) {
		d.multi.Remove(kind, id)
		return
	}
	d.multi.Add(kind, id)
}

func (d *Document) forget(kind Kind, id string) {
	if d.primary == (Ref{Kind: kind, ID: id}) {
		d.primary = Ref{}
	}
	d.multi.Remove(kind, id)
}
