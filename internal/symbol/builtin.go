package symbol

import (
	"math"

	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/render"
)

// Builtin returns the standard symbol catalog.
func Builtin() Catalog {
	syms := []Symbol{
		{
			Type: "resistor", Name: "Resistor (JIS)", Category: "passive",
			Width: 60, Height: 20, Origin: geom.Pt(0, -10),
			Pins: twoPin("1", "2"),
			draw: func(ctx render.Context) {
				ctx.BeginPath()
				ctx.Rect(10, -5, 40, 10)
				ctx.MoveTo(0, 0)
				ctx.LineTo(10, 0)
				ctx.MoveTo(50, 0)
				ctx.LineTo(60, 0)
				ctx.Stroke()
			},
		},
		{
			Type: "resistor_us", Name: "Resistor (zigzag)", Category: "passive",
			Width: 60, Height: 20, Origin: geom.Pt(0, -10),
			Pins: twoPin("1", "2"),
			draw: func(ctx render.Context) {
				half := func() {
					ctx.BeginPath()
					ctx.MoveTo(0, 0)
					ctx.LineTo(10.5, 0)
					ctx.LineTo(14.5, 7)
					ctx.LineTo(20.5, -7)
					ctx.LineTo(26.5, 7)
					ctx.LineTo(30, 0)
					ctx.Stroke()
				}
				half()
				// The right half is the left half turned about the center.
				ctx.Save()
				ctx.Translate(30, 0)
				ctx.Rotate(math.Pi)
				ctx.Translate(-30, 0)
				half()
				ctx.Restore()
			},
		},
		{
			Type: "capacitor", Name: "Capacitor", Category: "passive",
			Width: 60, Height: 40, Origin: geom.Pt(0, -20),
			Pins: twoPin("+", "-"),
			draw: func(ctx render.Context) {
				ctx.BeginPath()
				ctx.MoveTo(0, 0)
				ctx.LineTo(25, 0)
				ctx.MoveTo(25, -12)
				ctx.LineTo(25, 12)
				ctx.MoveTo(35, -12)
				ctx.LineTo(35, 12)
				ctx.MoveTo(35, 0)
				ctx.LineTo(60, 0)
				ctx.Stroke()
			},
		},
		{
			Type: "inductor", Name: "Inductor (JIS)", Category: "passive",
			Width: 60, Height: 40, Origin: geom.Pt(0, -20),
			Pins: twoPin("1", "2"),
			draw: func(ctx render.Context) {
				ctx.BeginPath()
				ctx.Rect(10, -8, 40, 16)
				ctx.MoveTo(0, 0)
				ctx.LineTo(10, 0)
				ctx.MoveTo(15, -8)
				ctx.LineTo(20, 8)
				ctx.MoveTo(50, 0)
				ctx.LineTo(60, 0)
				ctx.Stroke()
			},
		},
		{
			Type: "inductor_coil", Name: "Inductor (coil)", Category: "passive",
			Width: 60, Height: 40, Origin: geom.Pt(0, -20),
			Pins: twoPin("1", "2"),
			draw: func(ctx render.Context) {
				ctx.BeginPath()
				ctx.MoveTo(0, 0)
				ctx.LineTo(10, 0)
				for i := range 4 {
					x := 10 + float64(i)*10
					ctx.Arc(x+5, 0, 5, math.Pi, 0)
				}
				ctx.LineTo(60, 0)
				ctx.Stroke()
			},
		},
		{
			Type: "diode", Name: "Diode", Category: "semiconductor",
			Width: 60, Height: 30, Origin: geom.Pt(0, -15),
			Pins: []Pin{
				{ID: "anode", X: 0, Y: 0, Label: "A"},
				{ID: "cathode", X: 60, Y: 0, Label: "K"},
			},
			draw: func(ctx render.Context) {
				line(ctx, 0, 0, 20, 0)

				ctx.BeginPath()
				ctx.MoveTo(20, -10)
				ctx.LineTo(20, 10)
				ctx.LineTo(40, 0)
				ctx.ClosePath()
				ctx.Fill()

				line(ctx, 40, -10, 40, 10)
				line(ctx, 40, 0, 60, 0)
			},
		},
		{
			Type: "mosfet_n", Name: "N-ch MOSFET", Category: "semiconductor",
			Width: 60, Height: 60, Origin: geom.Pt(-30, -30),
			Pins: []Pin{
				{ID: "gate", X: -30, Y: 0, Label: "G"},
				{ID: "drain", X: 10, Y: -30, Label: "D"},
				{ID: "source", X: 10, Y: 30, Label: "S"},
			},
			draw: func(ctx render.Context) {
				line(ctx, -30, 0, -8, 0)
				line(ctx, -8, -18, -8, 18)

				// channel
				ctx.BeginPath()
				ctx.MoveTo(0, -18)
				ctx.LineTo(0, -6)
				ctx.MoveTo(0, -3)
				ctx.LineTo(0, 3)
				ctx.MoveTo(0, 6)
				ctx.LineTo(0, 18)
				ctx.Stroke()

				ctx.BeginPath()
				ctx.MoveTo(0, -12)
				ctx.LineTo(10, -12)
				ctx.LineTo(10, -30)
				ctx.Stroke()

				ctx.BeginPath()
				ctx.MoveTo(0, 12)
				ctx.LineTo(10, 12)
				ctx.LineTo(10, 30)
				ctx.Stroke()

				line(ctx, 0, 0, 10, 0)

				ctx.BeginPath()
				ctx.Arc(3, 0, 24, 0, 2*math.Pi)
				ctx.Stroke()
			},
		},
		{
			Type: "gnd", Name: "GND", Category: "symbol",
			Width: 40, Height: 40, Origin: geom.Pt(-20, -20),
			Pins: []Pin{{ID: "p1", X: 0, Y: -20}},
			draw: func(ctx render.Context) {
				line(ctx, 0, -20, 0, 0)
				line(ctx, -15, 0, 15, 0)
				line(ctx, -10, 5, 10, 5)
				line(ctx, -5, 10, 5, 10)
			},
		},
	}

	c := make(Catalog, len(syms))
	for _, s := range syms {
		c[s.Type] = s
	}
	return c
}

func twoPin(a, b string) []Pin {
	return []Pin{
		{ID: "p1", X: 0, Y: 0, Label: a},
		{ID: "p2", X: 60, Y: 0, Label: b},
	}
}

func line(ctx render.Context, x0, y0, x1, y1 float64) {
	ctx.BeginPath()
	ctx.MoveTo(x0, y0)
	ctx.LineTo(x1, y1)
	ctx.Stroke()
}
