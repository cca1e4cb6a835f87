package imaging

import (
	"image"
	"math"
)

var (
	sobelX = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Sobel returns the horizontal and vertical 3x3 Sobel responses of a plane.
// Values are in raw 0..255 intensity units (a full black-to-white step
// yields 1020).
func Sobel(p *Plane) (gx, gy *Plane) {
	return p.Convolve(sobelX), p.Convolve(sobelY)
}

// Canny performs Canny edge detection with explicit thresholds.
//
// The input is not blurred here; callers smooth beforehand. Thresholds are
// compared against the L2 gradient magnitude sqrt(Gx² + Gy²) of the 3x3
// Sobel operator, in raw intensity units.
//
// Parameters:
//   - src: grayscale input.
//   - low: weak-edge threshold. Pixels above it survive only when connected
//     to a strong edge.
//   - high: strong-edge threshold. Pixels above it are always edges.
//
// Returns a binary image: 255 for edge pixels, 0 elsewhere.
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: keep a pixel only if it is a local maximum
//     along its gradient direction (quantised to 4 sectors). Ties are
//     broken toward the first neighbour so plateaus thin to one pixel.
//
//  3. Hysteresis: pixels above high seed a flood fill that follows
//     8-connected pixels above low. Everything not reached is discarded.
func Canny(src *image.Gray, low, high float64) (*image.Gray, error) {
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if low > high {
		low, high = high, low
	}

	p := PlaneOf(src)
	width, height := p.W, p.H

	gx, gy := Sobel(p)
	magnitude := NewPlane(width, height)
	for i := range magnitude.Pix {
		magnitude.Pix[i] = math.Hypot(gx.Pix[i], gy.Pix[i])
	}

	// Non-maximum suppression
	suppressed := NewPlane(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude.Pix[i]
			if mag <= low {
				continue
			}
			angle := math.Atan2(gy.Pix[i], gx.Pix[i])

			// Determine neighbors to compare based on gradient direction
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude.Pix[i-1]
				n2 = magnitude.Pix[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude.Pix[i-width-1]
				n2 = magnitude.Pix[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude.Pix[i-width]
				n2 = magnitude.Pix[i+width]
			default:
				n1 = magnitude.Pix[i-width+1]
				n2 = magnitude.Pix[i+width-1]
			}

			if mag > n1 && mag >= n2 {
				suppressed.Pix[i] = mag
			}
		}
	}

	// Hysteresis
	result := image.NewGray(image.Rect(0, 0, width, height))
	stack := make([]int, 0, 1024)
	for i, v := range suppressed.Pix {
		if v > high && result.Pix[i] == 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := j%width, j/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					if result.Pix[k] == 0 && suppressed.Pix[k] > low {
						result.Pix[k] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}

	return result, nil
}
