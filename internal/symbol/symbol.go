// Package symbol is the built-in component symbol library: per-type extents,
// pin positions and drawing procedures, all in the component's local frame.
package symbol

import (
	"slices"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/render"
)

const (
	StrokeColor   = "#ffffff"
	SelectedColor = "#ffff00"
	LineWidth     = 2.0
)

// Pin is a connection point in the local, unrotated, unflipped frame.
type Pin struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Symbol describes one component type. The placement point of a component
// is the local origin; Origin is the top-left of the local extent box.
type Symbol struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Origin   geom.Point `json:"origin"`
	Pins     []Pin      `json:"pins"`

	draw func(ctx render.Context)
}

// Draw paints the symbol in its local frame.
func (s Symbol) Draw(ctx render.Context, selected bool) {
	color := StrokeColor
	if selected {
		color = SelectedColor
	}
	s.DrawColored(ctx, color)
}

// DrawColored paints the symbol with every stroke and fill in color.
func (s Symbol) DrawColored(ctx render.Context, color string) {
	ctx.Save()
	ctx.SetStrokeStyle(color)
	ctx.SetFillStyle(color)
	ctx.SetLineWidth(LineWidth)
	ctx.SetLineDash(nil)
	if s.draw != nil {
		s.draw(ctx)
	}
	ctx.Restore()
}

// LocalBounds returns the extent box in the local frame.
func (s Symbol) LocalBounds() geom.Rect {
	return geom.Rect{X: s.Origin.X, Y: s.Origin.Y, Width: s.Width, Height: s.Height}
}

// Center returns the world position of the extent box center for c.
func (s Symbol) Center(c document.Component) geom.Point {
	return c.Placement().Apply(s.LocalBounds().Center())
}

// Bounds returns the world-space axis-aligned box around c's extent.
func (s Symbol) Bounds(c document.Component) geom.Rect {
	return c.Placement().TransformRect(s.LocalBounds())
}

// Contains reports whether world point p lies inside c's rotated extent box.
func (s Symbol) Contains(c document.Component, p geom.Point) bool {
	return geom.PointInRotatedBox(p, s.Center(c), s.Width/2, s.Height/2, c.Rotation)
}

// PinPositions returns c's pins in world space.
func (s Symbol) PinPositions(c document.Component) []geom.Point {
	m := c.Placement()
	pts := make([]geom.Point, len(s.Pins))
	for i, pin := range s.Pins {
		pts[i] = m.Apply(geom.Pt(pin.X, pin.Y))
	}
	return pts
}

// Library resolves component types to symbols.
type Library interface {
	Lookup(typ string) (Symbol, bool)
}

// Catalog is a map-backed Library.
type Catalog map[string]Symbol

func (c Catalog) Lookup(typ string) (Symbol, bool) {
	s, ok := c[typ]
	return s, ok
}

// Types returns the symbol types in sorted order, for palettes.
func (c Catalog) Types() []string {
	types := make([]string, 0, len(c))
	for t := range c {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Symbols returns every symbol sorted by type.
func (c Catalog) Symbols() []Symbol {
	out := make([]Symbol, 0, len(c))
	for _, t := range c.Types() {
		out = append(out, c[t])
	}
	return out
}
