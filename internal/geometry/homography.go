package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when four correspondences do not define a
// projective transform, e.g. three of the points are collinear.
var ErrDegenerate = errors.New("degenerate point configuration")

// Matrix3 is a row-major 3x3 projective transform.
type Matrix3 [9]float64

// Identity returns the identity transform.
func Identity() Matrix3 {
	return Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps p through the transform. ok is false when p maps to infinity.
func (m Matrix3) Apply(p Point) (q Point, ok bool) {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if math.Abs(w) < 1e-12 {
		return Point{}, false
	}
	return Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}, true
}

// Homography computes the transform H such that H(src[i]) = dst[i] for all
// four corners.
//
// # Algorithm
//
// With h33 fixed to 1, each correspondence (x,y) -> (u,v) contributes two
// linear equations:
//
//	x*h11 + y*h12 + h13 - u*x*h31 - u*y*h32 = u
//	x*h21 + y*h22 + h23 - v*x*h31 - v*y*h32 = v
//
// The resulting 8x8 system is solved with an LU decomposition.
func Homography(src, dst Quad) (Matrix3, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		b.SetVec(2*i, u)
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return Matrix3{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	var m Matrix3
	for i := 0; i < 8; i++ {
		m[i] = h.AtVec(i)
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) {
			return Matrix3{}, ErrDegenerate
		}
	}
	m[8] = 1
	return m, nil
}
