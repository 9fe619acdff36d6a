package painter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/render"
)

var (
	ErrNothingToExport = errors.New("nothing to export")
	ErrUnknownFormat   = errors.New("unknown export format")
	ErrTooLarge        = errors.New("export too large")
)

const (
	DefaultPadding    = 50.0
	DefaultBackground = "#1a1a1a"
	gridColor         = "#333"

	// MaxExportSize bounds each side of an exported image in pixels.
	MaxExportSize = 16384
	maxGridLines  = 4096
)

// Format is an export file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat maps a file extension or name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

type ExportOptions struct {
	Background   string  `json:"background"`
	Transparent  bool    `json:"transparent"`
	ShowGrid     bool    `json:"showGrid"`
	UseWireColor bool    `json:"useWireColor"`
	WireColor    string  `json:"wireColor"`
	InvertColors bool    `json:"invertColors"`
	Padding      float64 `json:"padding"`
	Scale        float64 `json:"scale"`
}

// DefaultExportOptions returns a dark, gridless export at 1x.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Background: DefaultBackground,
		WireColor:  document.DefaultStyle().WireColor,
		Padding:    DefaultPadding,
		Scale:      1,
	}
}

func (o ExportOptions) normalized() ExportOptions {
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Transparent {
		o.Background = render.Transparent
	}
	return o
}

func (o ExportOptions) style() Style {
	var s Style
	if o.UseWireColor && o.WireColor != "" {
		s.Override = o.WireColor
	}
	s.Invert = o.InvertColors
	return s
}

// Bounds returns the world-space box around every entity, and false for an
// empty document.
func (p Painter) Bounds(doc *document.Document) (geom.Rect, bool) {
	var (
		out   geom.Rect
		found bool
	)
	add := func(r geom.Rect) {
		if !found {
			out, found = r, true
			return
		}
		out = out.Union(r)
	}
	for _, w := range doc.Wires() {
		add(w.Bounds())
	}
	for _, r := range doc.Rectangles() {
		add(r.Bounds())
	}
	for _, t := range doc.TextBoxes() {
		add(document.TextBounds(t, p.measurer()))
	}
	for _, c := range doc.Components() {
		if sym, ok := p.lookup(c.Type); ok {
			add(sym.Bounds(c))
		} else {
			add(geom.RectAround(c.Anchor()))
		}
	}
	return out, found
}

// exportFrame returns the padded world-space area an export covers.
func (p Painter) exportFrame(doc *document.Document, opts ExportOptions) (geom.Rect, error) {
	bounds, ok := p.Bounds(doc)
	if !ok {
		return geom.Rect{}, ErrNothingToExport
	}
	return bounds.Inset(opts.Padding), nil
}

// exportSize returns the output size in pixels for frame at scale.
func exportSize(frame geom.Rect, scale float64) (int, int, error) {
	w := math.Ceil(frame.Width * scale)
	h := math.Ceil(frame.Height * scale)
	if !(w <= MaxExportSize && h <= MaxExportSize) {
		return 0, 0, fmt.Errorf("%w: %.0fx%.0f exceeds %d pixels per side", ErrTooLarge, w, h, MaxExportSize)
	}
	return int(w), int(h), nil
}

func (p Painter) paintExport(ctx render.Context, doc *document.Document, frame geom.Rect, opts ExportOptions) {
	ctx.Save()
	ctx.Scale(opts.Scale, opts.Scale)
	ctx.Translate(-frame.X, -frame.Y)
	if opts.ShowGrid {
		drawGrid(ctx, frame, geom.GridSize, gridColor, 1)
	}
	p.Paint(ctx, doc, opts.style())
	ctx.Restore()
}

// drawGrid strokes grid lines covering area, aligned to multiples of size.
func drawGrid(ctx render.Context, area geom.Rect, size float64, color string, width float64) {
	x0 := math.Floor(area.X/size) * size
	y0 := math.Floor(area.Y/size) * size
	x1 := math.Ceil((area.X+area.Width)/size) * size
	y1 := math.Ceil((area.Y+area.Height)/size) * size
	if (x1-x0)/size > maxGridLines || (y1-y0)/size > maxGridLines {
		return
	}

	ctx.Save()
	ctx.SetStrokeStyle(color)
	ctx.SetLineWidth(width)
	ctx.SetLineDash(nil)
	ctx.BeginPath()
	for x := x0; x <= x1; x += size {
		ctx.MoveTo(x, y0)
		ctx.LineTo(x, y1)
	}
	for y := y0; y <= y1; y += size {
		ctx.MoveTo(x0, y)
		ctx.LineTo(x1, y)
	}
	ctx.Stroke()
	ctx.Restore()
}

// DrawGrid strokes the editor grid over area.
func DrawGrid(ctx render.Context, area geom.Rect, size float64, width float64) {
	drawGrid(ctx, area, size, gridColor, width)
}

// ExportSVG renders doc to an SVG document.
func (p Painter) ExportSVG(doc *document.Document, opts ExportOptions) ([]byte, error) {
	opts = opts.normalized()
	frame, err := p.exportFrame(doc, opts)
	if err != nil {
		return nil, err
	}
	if _, _, err := exportSize(frame, opts.Scale); err != nil {
		return nil, err
	}
	svg := render.NewSVG(frame.Width*opts.Scale, frame.Height*opts.Scale, opts.Background)
	p.paintExport(svg, doc, frame, opts)
	return svg.Bytes(), nil
}

// ExportPNG renders doc to PNG bytes.
func (p Painter) ExportPNG(doc *document.Document, opts ExportOptions) ([]byte, error) {
	opts = opts.normalized()
	frame, err := p.exportFrame(doc, opts)
	if err != nil {
		return nil, err
	}
	w, h, err := exportSize(frame, opts.Scale)
	if err != nil {
		return nil, err
	}
	raster := render.NewRaster(w, h, opts.Background)
	p.paintExport(raster, doc, frame, opts)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("export png: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders doc in format f.
func (p Painter) Export(doc *document.Document, f Format, opts ExportOptions) ([]byte, error) {
	switch f {
	case FormatPNG:
		return p.ExportPNG(doc, opts)
	case FormatSVG:
		return p.ExportSVG(doc, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// InvertColor swaps light and dark grays and leaves chromatic colors alone.
// Channels within 10 of each other count as gray.
func InvertColor(color string) string {
	if !strings.HasPrefix(color, "#") {
		return color
	}
	c := gg.Hex(color)
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	if absDiff(r, g) >= 10 || absDiff(g, b) >= 10 || absDiff(r, b) >= 10 {
		return color
	}
	v := 255 - r
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}

func absDiff(a, b int) int {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
