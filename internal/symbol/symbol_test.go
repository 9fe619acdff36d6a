package symbol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/render"
)

func TestBuiltinTypes(t *testing.T) {
	lib := Builtin()
	assert.Equal(t, []string{
		"capacitor", "diode", "gnd", "inductor", "inductor_coil", "mosfet_n", "resistor", "resistor_us",
	}, lib.Types())

	_, ok := lib.Lookup("transistor_pnp")
	assert.False(t, ok)
}

func TestGeometryFollowsPlacement(t *testing.T) {
	res, ok := Builtin().Lookup("resistor")
	require.True(t, ok)

	c := document.Component{Type: "resistor", X: 100, Y: 100}
	assert.Equal(t, geom.Pt(130, 100), res.Center(c))
	assert.True(t, res.Contains(c, geom.Pt(155, 105)))
	assert.False(t, res.Contains(c, geom.Pt(95, 100)))
	assert.Equal(t, []geom.Point{geom.Pt(100, 100), geom.Pt(160, 100)}, res.PinPositions(c))

	c.Rotation = math.Pi / 2
	center := res.Center(c)
	assert.InDelta(t, 100, center.X, 1e-9)
	assert.InDelta(t, 130, center.Y, 1e-9)
	assert.True(t, res.Contains(c, geom.Pt(105, 155)))
	assert.False(t, res.Contains(c, geom.Pt(155, 105)))

	b := res.Bounds(c)
	assert.InDelta(t, 90, b.X, 1e-9)
	assert.InDelta(t, 20, b.Width, 1e-9)
	assert.InDelta(t, 60, b.Height, 1e-9)

	c = document.Component{Type: "resistor", X: 100, Y: 100, FlipX: true}
	assert.Equal(t, geom.Pt(70, 100), res.Center(c))
}

func TestDrawUsesSelectionColor(t *testing.T) {
	for _, sym := range Builtin().Symbols() {
		rec := render.NewRecorder()
		sym.Draw(rec, true)
		require.NotEmpty(t, rec.Commands(), sym.Type)
		for _, cmd := range rec.Commands() {
			if cmd.Stroke != "" {
				assert.Equal(t, SelectedColor, cmd.Stroke, sym.Type)
			}
			if cmd.Fill != "" {
				assert.Equal(t, SelectedColor, cmd.Fill, sym.Type)
			}
		}
	}

	rec := render.NewRecorder()
	Builtin()["diode"].Draw(rec, false)
	assert.Equal(t, StrokeColor, rec.Commands()[0].Stroke)
}
