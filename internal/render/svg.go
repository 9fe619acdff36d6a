package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVG is a Context that writes an SVG document.
type SVG struct {
	Pen
	buf    bytes.Buffer
	canvas *svg.SVG
	ended  bool
}

// NewSVG creates an SVG surface of the given pixel size. A visible
// background color is painted as a full-size rect.
func NewSVG(width, height float64, background string) *SVG {
	s := &SVG{Pen: newPen()}
	s.canvas = svg.New(&s.buf)
	w, h := int(math.Ceil(width)), int(math.Ceil(height))
	s.canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %s %s"`, formatFloat(width), formatFloat(height)))
	if visible(background) {
		s.canvas.Rect(0, 0, w, h, attr("fill", background))
	}
	return s
}

func (s *SVG) Stroke() {
	style := s.DeviceStyle()
	d := s.pathData()
	if !visible(style.Stroke) || d == "" {
		return
	}
	attrs := []string{
		`fill="none"`,
		attr("stroke", style.Stroke),
		attr("stroke-width", formatFloat(style.LineWidth)),
		`stroke-linecap="round"`,
		`stroke-linejoin="round"`,
	}
	if len(style.Dash) > 0 {
		parts := make([]string, len(style.Dash))
		for i, v := range style.Dash {
			parts[i] = formatFloat(v)
		}
		attrs = append(attrs, attr("stroke-dasharray", strings.Join(parts, " ")))
	}
	s.canvas.Path(d, attrs...)
}

func (s *SVG) Fill() {
	style := s.DeviceStyle()
	d := s.pathData()
	if !visible(style.Fill) || d == "" {
		return
	}
	s.canvas.Path(d, attr("fill", style.Fill))
}

// FillText places text through a translated group so the anchor keeps its
// fractional position.
func (s *SVG) FillText(text string, x, y, fontSize float64) {
	if text == "" || !visible(s.cur.style.Fill) {
		return
	}
	at, size := s.DeviceText(x, y, fontSize)
	s.canvas.Gtransform(fmt.Sprintf("translate(%s)", formatPoint(at.X, at.Y)))
	s.canvas.Text(0, 0, text,
		`font-family="sans-serif"`,
		attr("font-size", formatFloat(size)),
		attr("fill", s.cur.style.Fill),
		`dominant-baseline="text-before-edge"`)
	s.canvas.Gend()
}

func (s *SVG) pathData() string {
	var parts []string
	hasPoint := false
	for _, seg := range s.path {
		switch seg.Op {
		case SegMove:
			parts = append(parts, "M "+formatPoint(seg.P.X, seg.P.Y))
			hasPoint = true
		case SegLine:
			parts = append(parts, "L "+formatPoint(seg.P.X, seg.P.Y))
			hasPoint = true
		case SegArc:
			start := seg.ArcStart()
			if hasPoint {
				parts = append(parts, "L "+formatPoint(start.X, start.Y))
			} else {
				parts = append(parts, "M "+formatPoint(start.X, start.Y))
			}
			parts = append(parts, arcData(seg)...)
			hasPoint = true
		case SegClose:
			parts = append(parts, "Z")
		}
	}
	return strings.Join(parts, " ")
}

// arcData renders an arc as SVG elliptical-arc commands, splitting full
// circles in two since a single A command cannot describe one.
func arcData(seg Segment) []string {
	if math.Abs(seg.Sweep) >= 2*math.Pi-1e-9 {
		half := seg
		half.Sweep = seg.Sweep / 2
		second := half
		second.Start = seg.Start + half.Sweep
		return append(arcData(half), arcData(second)...)
	}
	large, sweep := 0, 0
	if math.Abs(seg.Sweep) > math.Pi {
		large = 1
	}
	if seg.Sweep > 0 {
		sweep = 1
	}
	end := seg.ArcEnd()
	r := formatFloat(seg.R)
	return []string{fmt.Sprintf("A %s %s 0 %d %d %s", r, r, large, sweep, formatPoint(end.X, end.Y))}
}

// Bytes closes the document on first call and returns it.
func (s *SVG) Bytes() []byte {
	if !s.ended {
		s.canvas.End()
		s.ended = true
	}
	return s.buf.Bytes()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*1000)/1000, 'f', -1, 64)
}

func formatPoint(x, y float64) string {
	return formatFloat(x) + " " + formatFloat(y)
}

// attr renders name="value" with the value escaped for XML.
func attr(name, value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return name + `="` + buf.String() + `"`
}
