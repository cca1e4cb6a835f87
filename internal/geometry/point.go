package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D point in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromImagePoint converts an integer pixel coordinate.
func FromImagePoint(p image.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// ImagePoint rounds the point to the nearest pixel.
func (p Point) ImagePoint() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// cross returns the z component of (a-o) x (b-o).
// Positive means o->a->b turns clockwise on screen (y down).
func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Contour is an ordered sequence of points tracing a boundary. It may be
// open, non-convex or self-intersecting.
type Contour []Point

// Bounds returns the axis-aligned bounding box of the contour.
func (c Contour) Bounds() (min, max Point) {
	if len(c) == 0 {
		return Point{}, Point{}
	}
	min, max = c[0], c[0]
	for _, p := range c[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Clone returns a copy of the contour.
func (c Contour) Clone() Contour {
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// Quad is exactly four points. Whether they are ordered depends on where
// the Quad came from; see OrderCorners.
type Quad [4]Point

// Points returns the corners as a slice.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}

// Contour returns the corners as a closed contour in stored order.
func (q Quad) Contour() Contour {
	return Contour(q.Points())
}

// Area returns the absolute area enclosed by the corners in stored order.
func (q Quad) Area() float64 {
	return PolygonArea(q.Contour())
}

// Map applies fn to every corner.
func (q Quad) Map(fn func(Point) Point) Quad {
	var out Quad
	for i, p := range q {
		out[i] = fn(p)
	}
	return out
}

// FullFrame returns the four corners of a width x height image in the order
// (0,0), (W,0), (0,H), (W,H).
func FullFrame(width, height int) Quad {
	w, h := float64(width), float64(height)
	return Quad{{0, 0}, {w, 0}, {0, h}, {w, h}}
}
