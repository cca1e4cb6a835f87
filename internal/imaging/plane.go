package imaging

import (
	"image"
	"math"
)

// Plane is a single-channel float64 image, row-major, anchored at (0,0).
type Plane struct {
	W, H int
	Pix  []float64
}

// NewPlane allocates a zeroed plane.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]float64, w*h)}
}

// PlaneOf copies a gray image into a plane with values in 0..255.
func PlaneOf(g *image.Gray) *Plane {
	b := g.Bounds()
	p := NewPlane(b.Dx(), b.Dy())
	for y := 0; y < p.H; y++ {
		si := g.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < p.W; x++ {
			p.Pix[y*p.W+x] = float64(g.Pix[si+x])
		}
	}
	return p
}

// At returns the value at (x, y) with reflect-101 border handling
// (…dcb|abcd…|cba…), so any coordinate is valid.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[reflect101(y, p.H)*p.W+reflect101(x, p.W)]
}

// Gray converts the plane back to 8 bits, rounding and saturating.
func (p *Plane) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, p.W, p.H))
	for i, v := range p.Pix {
		g.Pix[i] = saturate(v)
	}
	return g
}

// Abs returns a plane of absolute values.
func (p *Plane) Abs() *Plane {
	out := NewPlane(p.W, p.H)
	for i, v := range p.Pix {
		out.Pix[i] = math.Abs(v)
	}
	return out
}

// Convolve applies a square kernel, centred, with reflect-101 borders.
// The response is not clamped, so signed kernels keep their sign.
func (p *Plane) Convolve(kernel [][]float64) *Plane {
	r := len(kernel) / 2
	out := NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for ky := -r; ky <= r; ky++ {
				row := kernel[ky+r]
				for kx := -r; kx <= r; kx++ {
					if k := row[kx+r]; k != 0 {
						sum += p.At(x+kx, y+ky) * k
					}
				}
			}
			out.Pix[y*p.W+x] = sum
		}
	}
	return out
}

// SepConvolve applies kx along rows then ky along columns.
func (p *Plane) SepConvolve(kx, ky []float64) *Plane {
	tmp := NewPlane(p.W, p.H)
	rx := len(kx) / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for i, k := range kx {
				sum += p.At(x+i-rx, y) * k
			}
			tmp.Pix[y*p.W+x] = sum
		}
	}

	out := NewPlane(p.W, p.H)
	ry := len(ky) / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for i, k := range ky {
				sum += tmp.At(x, y+i-ry) * k
			}
			out.Pix[y*p.W+x] = sum
		}
	}
	return out
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge pixel without repeating it.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func saturate(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
