package document

import (
	"strings"
	"unicode/utf8"

	"github.com/schedit/schedit/backend-go/internal/geom"
)

// LineHeight is the line advance as a multiple of the font size.
const LineHeight = 1.2

// TextMeasurer reports the advance width of one line of text.
type TextMeasurer interface {
	LineWidth(line string, fontSize float64) float64
}

// EstimateMeasurer approximates every glyph as 0.6 em wide.
type EstimateMeasurer struct{}

func (EstimateMeasurer) LineWidth(line string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(line)) * fontSize * 0.6
}

// Lines splits text into its display lines.
func (t TextBox) Lines() []string {
	return strings.Split(t.Text, "\n")
}

// TextBounds returns the world-space box covered by a text box, honouring
// its horizontal and vertical alignment relative to the anchor.
func TextBounds(t TextBox, m TextMeasurer) geom.Rect {
	if m == nil {
		m = EstimateMeasurer{}
	}
	size := t.FontSize
	if size <= 0 {
		size = DefaultStyle().FontSize
	}

	lines := t.Lines()
	var width float64
	for _, line := range lines {
		width = max(width, m.LineWidth(line, size))
	}
	height := float64(len(lines)) * size * LineHeight

	x, y := t.X, t.Y
	switch t.TextAlign {
	case AlignCenter:
		x -= width / 2
	case AlignRight:
		x -= width
	}
	switch t.VerticalAlign {
	case AlignMiddle:
		y -= height / 2
	case AlignBottom:
		y -= height
	}
	return geom.Rect{X: x, Y: y, Width: width, Height: height}
}
