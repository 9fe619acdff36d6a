package painter

import (
	"log/slog"
	"sync"

	"github.com/gogpu/gg/text"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/render"
)

// FontMeasurer measures text with the font the raster exporter draws with.
// It falls back to the glyph-width estimate when the font cannot load.
type FontMeasurer struct {
	mu    sync.Mutex
	faces map[float64]text.Face
}

func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{faces: make(map[float64]text.Face)}
}

func (m *FontMeasurer) LineWidth(line string, fontSize float64) float64 {
	if line == "" {
		return 0
	}
	face, ok := m.face(fontSize)
	if !ok {
		return document.EstimateMeasurer{}.LineWidth(line, fontSize)
	}
	return face.Advance(line)
}

func (m *FontMeasurer) face(size float64) (text.Face, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f, true
	}
	src, err := render.FontSource()
	if err != nil {
		slog.Warn("load measurement font", "error", err)
		return nil, false
	}
	f := src.Face(size)
	m.faces[size] = f
	return f, true
}
