package geometry

import (
	"math"
)

// PolygonArea returns the absolute area of the closed polygon described by c,
// using the shoelace formula. Fewer than 3 points have zero area.
//
// Self-intersecting input yields the net signed area of its lobes, which is
// smaller than the visual area. That is what makes the raw area a poor proxy
// for broken contours and motivates the other ranking strategies.
func PolygonArea(c Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(sum) / 2
}

// ArcLength returns the perimeter of a closed contour or the path length of
// an open one.
func ArcLength(c Contour, closed bool) float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 1; i < n; i++ {
		length += Distance(c[i-1], c[i])
	}
	if closed {
		length += Distance(c[n-1], c[0])
	}
	return length
}

// IsConvex reports whether the closed polygon c is convex.
//
// Every non-degenerate turn must have the same orientation and the turns
// must add up to a single revolution, which rejects star-shaped
// self-intersecting polygons. Collinear and repeated points are ignored.
// Fewer than 3 distinct points are never convex.
func IsConvex(c Contour) bool {
	pts := dedupe(c)
	n := len(pts)
	if n < 3 {
		return false
	}

	sign := 0
	var turning float64
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		d := pts[(i+2)%n]
		z := cross(a, b, d)
		if z != 0 {
			s := 1
			if z < 0 {
				s = -1
			}
			if sign == 0 {
				sign = s
			} else if s != sign {
				return false
			}
		}
		turning += turnAngle(a, b, d)
	}
	if sign == 0 {
		return false
	}
	return math.Abs(math.Abs(turning)-2*math.Pi) < 1e-6
}

// turnAngle returns the signed exterior angle at b.
func turnAngle(a, b, c Point) float64 {
	in := math.Atan2(b.Y-a.Y, b.X-a.X)
	out := math.Atan2(c.Y-b.Y, c.X-b.X)
	d := out - in
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// dedupe drops consecutive duplicate points, including a closing duplicate
// of the first point.
func dedupe(c Contour) Contour {
	out := make(Contour, 0, len(c))
	for _, p := range c {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// ApproxPolyDP simplifies a contour with the Douglas-Peucker algorithm.
//
// Parameters:
//   - c: the contour to simplify.
//   - epsilon: maximum distance between the original curve and its
//     approximation. Page detection uses 2% of the perimeter.
//   - closed: whether the contour is a closed curve.
//
// Returns a new contour whose vertices are a subset of the input points.
//
// # Closed Curves
//
// A closed curve has no natural endpoints, so it is split at two extreme
// points: the point farthest from the first point, and the point farthest
// from that one. Each half is simplified independently. The seam vertex is
// then dropped if it lies within epsilon of the segment joining its
// neighbours, so the result does not depend on where tracing started.
func ApproxPolyDP(c Contour, epsilon float64, closed bool) Contour {
	pts := dedupe(c)
	n := len(pts)
	if n < 3 {
		return pts.Clone()
	}
	if !closed {
		return douglasPeucker(pts, epsilon)
	}

	a := farthestFrom(pts, pts[0])
	b := farthestFrom(pts, pts[a])
	if a == b {
		return Contour{pts[a]}
	}

	// Rotate so the curve starts at a, then split at b.
	rotated := make(Contour, 0, n+1)
	rotated = append(rotated, pts[a:]...)
	rotated = append(rotated, pts[:a]...)
	split := (b - a + n) % n

	first := douglasPeucker(rotated[:split+1], epsilon)
	second := douglasPeucker(append(rotated[split:].Clone(), rotated[0]), epsilon)

	out := make(Contour, 0, len(first)+len(second))
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)

	return dropSeam(out, epsilon)
}

// dropSeam removes vertices lying within epsilon of the chord between their
// neighbours. Only the two seam vertices can normally qualify.
func dropSeam(c Contour, epsilon float64) Contour {
	changed := true
	for changed && len(c) > 3 {
		changed = false
		for i := 0; i < len(c) && len(c) > 3; i++ {
			prev := c[(i-1+len(c))%len(c)]
			next := c[(i+1)%len(c)]
			if perpendicularDistance(c[i], prev, next) <= epsilon {
				c = append(c[:i:i], c[i+1:]...)
				changed = true
				break
			}
		}
	}
	return c
}

func farthestFrom(c Contour, p Point) int {
	best, bestDist := 0, -1.0
	for i, q := range c {
		if d := Distance(p, q); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// douglasPeucker simplifies an open polyline, always keeping both ends.
func douglasPeucker(c Contour, epsilon float64) Contour {
	n := len(c)
	if n < 3 {
		return c.Clone()
	}
	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}
		idx, maxDist := -1, -1.0
		for i := s.lo + 1; i < s.hi; i++ {
			if d := perpendicularDistance(c[i], c[s.lo], c[s.hi]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
		}
	}

	out := make(Contour, 0)
	for i, k := range keep {
		if k {
			out = append(out, c[i])
		}
	}
	return out
}

// perpendicularDistance returns the distance from p to the line through a
// and b, or to a itself when a and b coincide.
func perpendicularDistance(p, a, b Point) float64 {
	length := Distance(a, b)
	if length == 0 {
		return Distance(p, a)
	}
	return math.Abs(cross(a, b, p)) / length
}
