package geometry

import (
	"math"
	"sort"
)

// ConvexHull returns the convex hull of the points using Andrew's monotone
// chain. The hull is returned without repeated endpoints; collinear points on
// hull edges are dropped. Inputs of fewer than 3 distinct points are returned
// deduplicated.
func ConvexHull(c Contour) Contour {
	pts := c.Clone()
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	uniq := pts[:0]
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		uniq = append(uniq, p)
	}
	pts = uniq
	if len(pts) < 3 {
		return pts.Clone()
	}

	hull := make(Contour, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// RotatedRect is a rectangle at an arbitrary angle.
type RotatedRect struct {
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Angle of the Width edge in degrees, in [0, 90).
	Angle float64 `json:"angle"`
	// Corners in traversal order around the rectangle.
	Corners Quad `json:"corners"`
}

// Area returns Width*Height.
func (r RotatedRect) Area() float64 {
	return r.Width * r.Height
}

// MinAreaRect returns the minimum-area rectangle enclosing the points.
//
// # Algorithm
//
// Rotating calipers over the convex hull: the optimal rectangle has one side
// collinear with a hull edge, so each edge direction is tried and the
// bounding box of the hull projected onto that edge and its normal is
// measured. The smallest box wins.
//
// Degenerate inputs still produce a rectangle: a single point yields a
// zero-size rect at that point, collinear points a zero-height rect along
// the segment.
func MinAreaRect(c Contour) RotatedRect {
	hull := ConvexHull(c)
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		p := hull[0]
		return RotatedRect{Center: p, Corners: Quad{p, p, p, p}}
	}

	bestArea := math.Inf(1)
	var best RotatedRect

	n := len(hull)
	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		edge := b.Sub(a)
		length := math.Hypot(edge.X, edge.Y)
		if length == 0 {
			continue
		}
		u := edge.Scale(1 / length)
		v := Point{X: -u.Y, Y: u.X}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			d := p.Sub(a)
			pu := d.X*u.X + d.Y*u.Y
			pv := d.X*v.X + d.Y*v.Y
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			at := func(su, sv float64) Point {
				return a.Add(u.Scale(su)).Add(v.Scale(sv))
			}
			best = RotatedRect{
				Center: at((minU+maxU)/2, (minV+maxV)/2),
				Width:  maxU - minU,
				Height: maxV - minV,
				Angle:  normalizeAngle(math.Atan2(u.Y, u.X) * 180 / math.Pi),
				Corners: Quad{
					at(minU, minV),
					at(maxU, minV),
					at(maxU, maxV),
					at(minU, maxV),
				},
			}
		}
	}
	return best
}

// normalizeAngle folds an edge direction into [0, 90).
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 90)
	if deg < 0 {
		deg += 90
	}
	if 90-deg < 1e-9 {
		deg = 0
	}
	return deg
}
