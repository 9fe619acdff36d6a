package render

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// FontSource returns the shared Go Regular font used for raster text and
// text measurement.
func FontSource() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Raster is a Context that paints into an RGBA pixmap through gg.
type Raster struct {
	Pen
	dc  *gg.Context
	err error
}

// NewRaster creates a pixel surface filled with background, or left
// transparent when background is empty or "transparent".
func NewRaster(width, height int, background string) *Raster {
	dc := gg.NewContext(width, height)
	if visible(background) {
		dc.ClearWithColor(gg.Hex(background))
	}
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Raster{Pen: newPen(), dc: dc}
}

func (r *Raster) Stroke() {
	style := r.DeviceStyle()
	if !visible(style.Stroke) || !r.tracePath() {
		return
	}
	r.dc.SetStrokeBrush(gg.SolidHex(style.Stroke))
	r.dc.SetLineWidth(style.LineWidth)
	if len(style.Dash) > 0 {
		r.dc.SetDash(style.Dash...)
	} else {
		r.dc.ClearDash()
	}
	r.keep(r.dc.Stroke())
}

func (r *Raster) Fill() {
	style := r.DeviceStyle()
	if !visible(style.Fill) || !r.tracePath() {
		return
	}
	r.dc.SetFillBrush(gg.SolidHex(style.Fill))
	r.keep(r.dc.Fill())
}

func (r *Raster) FillText(s string, x, y, fontSize float64) {
	if s == "" || !visible(r.cur.style.Fill) {
		return
	}
	src, err := FontSource()
	if err != nil {
		r.keep(fmt.Errorf("load font: %w", err))
		return
	}
	at, size := r.DeviceText(x, y, fontSize)
	face := src.Face(size)
	r.dc.SetFont(face)
	r.dc.SetFillBrush(gg.SolidHex(r.cur.style.Fill))
	r.dc.DrawString(s, at.X, at.Y+face.Metrics().Ascent)
}

// tracePath replays the device path into gg, flattening arcs.
func (r *Raster) tracePath() bool {
	if len(r.path) == 0 {
		return false
	}
	r.dc.ClearPath()
	hasPoint := false
	for _, seg := range r.path {
		switch seg.Op {
		case SegMove:
			r.dc.MoveTo(seg.P.X, seg.P.Y)
			hasPoint = true
		case SegLine:
			r.dc.LineTo(seg.P.X, seg.P.Y)
			hasPoint = true
		case SegArc:
			for i, p := range seg.ArcPoints(2) {
				if i == 0 && !hasPoint {
					r.dc.MoveTo(p.X, p.Y)
					continue
				}
				r.dc.LineTo(p.X, p.Y)
			}
			hasPoint = true
		case SegClose:
			r.dc.ClosePath()
		}
	}
	return true
}

func (r *Raster) keep(err error) {
	if err != nil && r.err == nil {
		slog.Debug("raster draw failed", "error", err)
		r.err = err
	}
}

// Err returns the first drawing error.
func (r *Raster) Err() error {
	return r.err
}

// Image returns the painted pixmap.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the pixmap as PNG and releases the context.
func (r *Raster) EncodePNG(w io.Writer) error {
	defer r.dc.Close()
	if r.err != nil {
		return fmt.Errorf("render raster: %w", r.err)
	}
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
