package imaging

import (
	"image"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// minComponentPixels is the size below which an edge component is treated
// as noise and not traced.
const minComponentPixels = 10

// mooreDirs lists the 8 neighbour offsets clockwise on screen, starting
// West.
var mooreDirs = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// dirIndex maps an offset (dx+1, dy+1) to its index in mooreDirs.
var dirIndex = [3][3]int{
	// dy = -1, 0, 1 for each dx
	{1, 0, 7},
	{2, -1, 6},
	{3, 4, 5},
}

// ContourMode selects which boundaries FindContoursMode traces.
type ContourMode int

const (
	// ContourExternal traces only the outer boundary of each component.
	ContourExternal ContourMode = iota
	// ContourList also traces the boundary of every hole, the
	// 4-connected background regions a component encloses. Hole contours
	// run along the background pixels just inside the component.
	ContourList
)

// FindContours traces the outer boundary of every 8-connected group of
// non-zero pixels in a binary edge map. It is FindContoursMode with
// ContourExternal.
//
// Returns one closed contour per component, in raster order of each
// component's top-left pixel. Components smaller than 10 pixels are
// discarded as noise.
//
// # Algorithm
//
//  1. Component labelling: iterative flood fill with 8-connectivity.
//  2. Boundary tracing: Moore-neighbour tracing from the component's first
//     pixel in raster order, whose West neighbour is always background.
//     Neighbours are scanned clockwise starting just after the backtrack
//     pixel. Tracing stops when the start pixel is about to be left in the
//     same direction as the first move.
//
// Open curves (a single line, a broken outline) produce a contour that runs
// along one side and back along the other, which is what hull and
// minimum-rectangle closing expect.
func FindContours(edges *image.Gray) ([]geometry.Contour, error) {
	return FindContoursMode(edges, ContourExternal)
}

// FindContoursMode traces component boundaries, and with ContourList hole
// boundaries too. Contours come in raster order of their first pixel;
// holes smaller than 10 pixels are dropped like small components.
func FindContoursMode(edges *image.Gray, mode ContourMode) ([]geometry.Contour, error) {
	b := edges.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	width, height := b.Dx(), b.Dy()

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		row := edges.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			mask[y][x] = edges.Pix[row+x] != 0
		}
	}

	labels := make([][]int, height)
	for y := 0; y < height; y++ {
		labels[y] = make([]int, width)
	}

	contours := make([]geometry.Contour, 0)
	next := 0
	holes := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y][x] != 0 {
				continue
			}
			if !mask[y][x] {
				if mode != ContourList {
					continue
				}
				holes--
				size, enclosed := fillBackground(mask, labels, x, y, width, height, holes)
				if enclosed && size >= minComponentPixels {
					contours = append(contours, traceBoundary(labels, image.Pt(x, y), width, height, holes, size))
				}
				continue
			}
			next++
			size := floodFill(mask, labels, x, y, width, height, next)
			if size < minComponentPixels {
				continue
			}
			contours = append(contours, traceBoundary(labels, image.Pt(x, y), width, height, next, size))
		}
	}

	return contours, nil
}

// floodFill performs iterative flood-fill from a starting point, writing id
// into labels for every reached pixel. Returns the component size.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large components. Uses 8-connectivity (includes diagonal neighbors).
func floodFill(mask [][]bool, labels [][]int, startX, startY, width, height, id int) int {
	stack := []image.Point{{X: startX, Y: startY}}
	size := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if labels[p.Y][p.X] != 0 || !mask[p.Y][p.X] {
			continue
		}

		labels[p.Y][p.X] = id
		size++

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return size
}

// fillBackground labels the 4-connected background region containing the
// start pixel with id (negative, so it never clashes with components).
// enclosed is false when the region touches the image border.
func fillBackground(mask [][]bool, labels [][]int, startX, startY, width, height, id int) (size int, enclosed bool) {
	stack := []image.Point{{X: startX, Y: startY}}
	enclosed = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if labels[p.Y][p.X] != 0 || mask[p.Y][p.X] {
			continue
		}

		labels[p.Y][p.X] = id
		size++
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			enclosed = false
		}

		stack = append(stack,
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y - 1},
			image.Point{X: p.X, Y: p.Y + 1},
		)
	}
	return size, enclosed
}

// traceBoundary runs Moore-neighbour tracing over the pixels labelled id.
// start must be the component's first pixel in raster order.
func traceBoundary(labels [][]int, start image.Point, width, height, id, size int) geometry.Contour {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height && labels[p.Y][p.X] == id
	}

	// step returns the next boundary pixel and the backtrack direction
	// as seen from it.
	step := func(c image.Point, back int) (image.Point, int, bool) {
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			n := c.Add(mooreDirs[d])
			if inside(n) {
				prev := c.Add(mooreDirs[(d+7)%8]).Sub(n)
				return n, dirIndex[prev.X+1][prev.Y+1], true
			}
		}
		return c, back, false
	}

	contour := geometry.Contour{geometry.FromImagePoint(start)}
	c, back := start, 0

	first, firstBack, ok := step(c, back)
	if !ok {
		return contour
	}

	// Each boundary pixel can be entered from at most 4 sides.
	limit := 4*size + 8
	c, back = first, firstBack
	for i := 0; i < limit; i++ {
		if c == start {
			n, _, _ := step(c, back)
			if n == first {
				break
			}
		} else {
			contour = append(contour, geometry.FromImagePoint(c))
		}
		c, back, _ = step(c, back)
	}

	return contour
}
