package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FileVersion is the version tag written to saved documents.
const FileVersion = "1.0"

// ErrMalformed is returned when a document file cannot be parsed or lacks
// its wires or components array.
var ErrMalformed = errors.New("malformed document")

// File is the on-disk JSON form of a document. Ids are not persisted;
// loading assigns fresh ones.
type File struct {
	Version    string      `json:"version"`
	Wires      []Wire      `json:"wires"`
	Rectangles []Rectangle `json:"rectangles"`
	TextBoxes  []TextBox   `json:"textBoxes"`
	Components []Component `json:"components"`
	SavedAt    string      `json:"savedAt,omitempty"`
}

// ToFile converts the current collections to file form.
func (d *Document) ToFile() *File {
	s := d.Snapshot()
	f := &File{
		Version:    FileVersion,
		Wires:      s.Wires,
		Rectangles: s.Rectangles,
		TextBoxes:  s.TextBoxes,
		Components: s.Components,
	}
	for i := range f.Wires {
		f.Wires[i].ID = ""
	}
	for i := range f.Rectangles {
		f.Rectangles[i].ID = ""
	}
	for i := range f.TextBoxes {
		f.TextBoxes[i].ID = ""
	}
	for i := range f.Components {
		f.Components[i].ID = ""
	}
	return f
}

// Encode serializes the document as indented JSON.
func Encode(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d.ToFile(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses a document file and fills missing style fields with the
// defaults.
func Decode(data []byte) (*File, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, key := range []string{"wires", "components"} {
		v, ok := raw[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q array", ErrMalformed, key)
		}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f.normalize(DefaultStyle())
	return &f, nil
}

func (f *File) normalize(def Defaults) {
	if f.Version == "" {
		f.Version = FileVersion
	}
	for i := range f.Wires {
		w := &f.Wires[i]
		if w.Color == "" {
			w.Color = def.WireColor
		}
		if w.Thickness <= 0 {
			w.Thickness = def.WireThickness
		}
		if !w.Style.Valid() {
			w.Style = WireSolid
		}
		if w.ArrowStart.Shape == "" {
			w.ArrowStart = def.ArrowStart
		}
		if w.ArrowEnd.Shape == "" {
			w.ArrowEnd = def.ArrowEnd
		}
	}
	for i := range f.Rectangles {
		r := &f.Rectangles[i]
		if r.Color == "" {
			r.Color = def.WireColor
		}
		if r.Thickness <= 0 {
			r.Thickness = def.WireThickness
		}
		if !r.Style.Valid() {
			r.Style = RectSolid
		}
	}
	for i := range f.TextBoxes {
		t := &f.TextBoxes[i]
		if t.Color == "" {
			t.Color = def.TextColor
		}
		if t.FontSize <= 0 {
			t.FontSize = def.FontSize
		}
		if t.TextAlign == "" {
			t.TextAlign = AlignLeft
		}
		if t.VerticalAlign == "" {
			t.VerticalAlign = AlignTop
		}
	}
}

// Load replaces the collections with the file's entities through the add
// path, in one commit. History is not cleared; the selection is.
func (d *Document) Load(f *File) {
	d.Batch(func() {
		d.wires = []Wire{}
		d.rectangles = []Rectangle{}
		d.textBoxes = []TextBox{}
		d.components = []Component{}
		d.ClearSelection()
		for _, w := range f.Wires {
			d.AddWire(w)
		}
		for _, r := range f.Rectangles {
			d.AddRectangle(r)
		}
		for _, t := range f.TextBoxes {
			d.AddTextBox(t)
		}
		for _, c := range f.Components {
			d.AddComponent(c)
		}
		d.batchDirty = true
	})
}

// LoadJSON decodes data and loads it. On error the document is untouched.
func (d *Document) LoadJSON(data []byte) error {
	f, err := Decode(data)
	if err != nil {
		return err
	}
	d.Load(f)
	return nil
}

// IsRestorable reports whether data is a well-formed document worth
// restoring: it parses and has at least one wire or component.
func IsRestorable(data []byte) bool {
	f, err := Decode(data)
	if err != nil {
		return false
	}
	return len(f.Wires) > 0 || len(f.Components) > 0
}
