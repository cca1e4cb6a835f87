package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrCornerCount is returned when a corner operation does not receive
// exactly four points.
var ErrCornerCount = errors.New("expected exactly 4 corner points")

// OrderCorners sorts four points into top-left, top-right, bottom-right,
// bottom-left order.
//
// Parameters:
//   - pts: exactly 4 points in any order. The slice is not modified.
//
// Returns:
//   - Quad: corners ordered [tl, tr, br, bl].
//   - error: ErrCornerCount if len(pts) != 4.
//
// # Algorithm
//
// Two independent sorts classify the corners without tie-breaking rules:
//
//  1. By coordinate sum x+y: the smallest is top-left, the largest is
//     bottom-right.
//  2. By coordinate difference y-x: the smallest is top-right, the largest
//     is bottom-left.
//
// The classification is robust to small rotations of an axis-aligned-ish
// quadrilateral. Strongly rotated quads (around 45 degrees) can map two
// roles onto the same input point.
func OrderCorners(pts []Point) (Quad, error) {
	if len(pts) != 4 {
		return Quad{}, fmt.Errorf("%w: got %d", ErrCornerCount, len(pts))
	}

	work := make([]Point, 4)
	copy(work, pts)

	var q Quad

	sort.SliceStable(work, func(i, j int) bool {
		return work[i].X+work[i].Y < work[j].X+work[j].Y
	})
	q[0] = work[0]
	q[2] = work[3]

	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Y-work[i].X < work[j].Y-work[j].X
	})
	q[1] = work[0]
	q[3] = work[3]

	return q, nil
}

// TargetRectSize returns the width and height of the rectangle an ordered
// quad should be warped into.
//
// Width is the longer of the top and bottom edges, height the longer of the
// left and right edges, so a slightly skewed quad is never under-sized.
func TargetRectSize(q Quad) (width, height float64) {
	tl, tr, br, bl := q[0], q[1], q[2], q[3]
	width = math.Max(Distance(br, bl), Distance(tr, tl))
	height = math.Max(Distance(tr, br), Distance(tl, bl))
	return width, height
}
