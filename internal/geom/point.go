// Package geom is the geometry kernel of the editor: world-space points,
// segment and box tests, grid snapping and screen/world mapping.
// Every function is pure.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// GridSize is the default grid spacing in world units.
const GridSize = 20.0

// Point is a position in world (or screen) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return fromVec(r2.Add(p.vec(), q.vec()))
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return fromVec(r2.Scale(f, p.vec()))
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(p.vec(), q.vec()))
}

// Equal reports exact coordinate equality.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// DistanceToSegment returns the distance from p to the segment a-b. The
// projection parameter is clamped to [0,1]; a zero-length segment degrades to
// point distance.
func DistanceToSegment(p, a, b Point) float64 {
	d := r2.Sub(b.vec(), a.vec())
	lengthSquared := r2.Norm2(d)
	if lengthSquared == 0 {
		return p.Distance(a)
	}

	t := r2.Dot(r2.Sub(p.vec(), a.vec()), d) / lengthSquared
	t = math.Max(0, math.Min(1, t))

	closest := r2.Add(a.vec(), r2.Scale(t, d))
	return r2.Norm(r2.Sub(p.vec(), closest))
}

// PointInRotatedBox reports whether p lies inside the box of the given half
// extents centred on center and rotated by rotation radians.
func PointInRotatedBox(p, center Point, halfWidth, halfHeight, rotation float64) bool {
	local := r2.Sub(r2.Rotate(p.vec(), -rotation, center.vec()), center.vec())
	return math.Abs(local.X) <= halfWidth && math.Abs(local.Y) <= halfHeight
}

// IsPointOnSegment reports whether p lies on segment a-b within tol. The
// projection parameter may overshoot the ends by tol.
func IsPointOnSegment(p, a, b Point, tol float64) bool {
	d := r2.Sub(b.vec(), a.vec())
	lengthSquared := r2.Norm2(d)
	if lengthSquared == 0 {
		return math.Abs(p.X-a.X) < tol && math.Abs(p.Y-a.Y) < tol
	}

	t := r2.Dot(r2.Sub(p.vec(), a.vec()), d) / lengthSquared
	if t < -tol || t > 1+tol {
		return false
	}

	closest := r2.Add(a.vec(), r2.Scale(t, d))
	return r2.Norm2(r2.Sub(p.vec(), closest)) < tol*tol
}

// SegmentContainedIn reports whether both ends of s0-s1 lie on segment a-b, i.e.
// the candidate is collinear with and contained in the existing segment.
func SegmentContainedIn(s0, s1, a, b Point, tol float64) bool {
	return IsPointOnSegment(s0, a, b, tol) && IsPointOnSegment(s1, a, b, tol)
}

// SnapToGrid rounds v to the nearest multiple of grid. Halves round toward
// positive infinity.
func SnapToGrid(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Floor(v/grid+0.5) * grid
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: SnapToGrid(p.X, grid), Y: SnapToGrid(p.Y, grid)}
}

// ScreenToWorld maps a screen position through the view's pan and zoom.
func ScreenToWorld(screen, pan Point, zoom float64) Point {
	return Point{X: (screen.X - pan.X) / zoom, Y: (screen.Y - pan.Y) / zoom}
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(world, pan Point, zoom float64) Point {
	return Point{X: world.X*zoom + pan.X, Y: world.Y*zoom + pan.Y}
}

// RotateAround rotates p by angle radians about center.
func RotateAround(p, center Point, angle float64) Point {
	return fromVec(r2.Rotate(p.vec(), angle, center.vec()))
}

// RotateQuarter rotates p by +90° about center (clockwise on a y-down
// canvas). Exact for integral inputs, so four turns are the identity.
func RotateQuarter(p, center Point) Point {
	return Point{
		X: center.X - (p.Y - center.Y),
		Y: center.Y + (p.X - center.X),
	}
}

// MirrorX reflects p across the vertical line x = axis.
func MirrorX(p Point, axis float64) Point {
	return Point{X: 2*axis - p.X, Y: p.Y}
}

// MirrorY reflects p across the horizontal line y = axis.
func MirrorY(p Point, axis float64) Point {
	return Point{X: p.X, Y: 2*axis - p.Y}
}

// Centroid returns the mean of pts, or the zero point for an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum r2.Vec
	for _, p := range pts {
		sum = r2.Add(sum, p.vec())
	}
	return fromVec(r2.Scale(1/float64(len(pts)), sum))
}

// NormalizeAngle folds a into [0, 2π). Values within 1e-9 of a full turn
// fold to zero.
func NormalizeAngle(a float64) float64 {
	const turn = 2 * math.Pi
	a = math.Mod(a, turn)
	if a < 0 {
		a += turn
	}
	if turn-a < 1e-9 || a < 1e-9 {
		return 0
	}
	return a
}
