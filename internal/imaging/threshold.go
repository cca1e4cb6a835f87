package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// sauvolaRange is the dynamic range R of the standard deviation in
// Sauvola's formula for 8-bit images.
const sauvolaRange = 128

// AdaptiveGaussian binarizes a gray image against a Gaussian-weighted local
// mean.
//
// Parameters:
//   - src: grayscale input.
//   - blockSize: odd neighbourhood size; even values are bumped up by one.
//   - c: constant subtracted from the local mean.
//
// A pixel becomes 255 when it is brighter than (local mean - c) and 0
// otherwise, so text darker than its surroundings ends up black.
func AdaptiveGaussian(src *image.Gray, blockSize int, c float64) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	in := compact(src)
	mean := fromNRGBA(imaging.Blur(in, GaussianSigma(blockSize)))

	dst := image.NewGray(in.Rect)
	for i, v := range in.Pix {
		if float64(v) > float64(mean.Pix[i])-c {
			dst.Pix[i] = 255
		}
	}
	return dst
}

// Sauvola binarizes a gray image with Sauvola's method. k is the
// sensitivity (typically 0.2 to 0.5) and window the neighbourhood size in
// pixels. The threshold of each pixel is
//
//	T = m * (1 + k*(s/128 - 1))
//
// where m and s are the mean and standard deviation of the window, which
// is clipped at the image border. Local statistics come from summed-area
// tables, so the cost does not depend on the window size.
func Sauvola(src *image.Gray, k float64, window int) *image.Gray {
	if window < 3 {
		window = 3
	}
	in := compact(src)
	w, h := in.Rect.Dx(), in.Rect.Dy()
	sum, sq := integralImages(in)
	half := window / 2
	stride := w + 1

	dst := image.NewGray(in.Rect)
	for y := 0; y < h; y++ {
		y0, y1 := clamp(y-half, 0, h-1), clamp(y+half, 0, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := clamp(x-half, 0, w-1), clamp(x+half, 0, w-1)
			a, b := y0*stride+x0, y0*stride+x1+1
			c, d := (y1+1)*stride+x0, (y1+1)*stride+x1+1
			n := float64((x1 - x0 + 1) * (y1 - y0 + 1))

			mean := (sum[d] - sum[b] - sum[c] + sum[a]) / n
			variance := (sq[d]-sq[b]-sq[c]+sq[a])/n - mean*mean
			dev := math.Sqrt(math.Max(0, variance))
			t := mean * (1 + k*(dev/sauvolaRange-1))

			if float64(in.Pix[y*w+x]) >= t {
				dst.Pix[y*w+x] = 255
			}
		}
	}
	return dst
}

// integralImages returns the summed-area tables of the values and of
// their squares, each (w+1)*(h+1) with a zero first row and column.
func integralImages(g *image.Gray) (sum, sq []float64) {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	stride := w + 1
	sum = make([]float64, stride*(h+1))
	sq = make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum, rowSq float64
		for x := 0; x < w; x++ {
			v := float64(g.Pix[y*g.Stride+x])
			rowSum += v
			rowSq += v * v
			i := (y+1)*stride + x + 1
			sum[i] = sum[i-stride] + rowSum
			sq[i] = sq[i-stride] + rowSq
		}
	}
	return sum, sq
}

// Erode replaces each pixel with the minimum of its (2*radius+1)²
// neighbourhood, thickening dark strokes on a light background.
func Erode(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return compact(src)
	}
	return fromRGBA(effect.Erode(src, float64(radius)))
}

// Blend mixes two gray images of equal size: alpha*fg + (1-alpha)*bg.
func Blend(bg, fg *image.Gray, alpha float64) *image.Gray {
	return fromRGBA(blend.Opacity(bg, fg, alpha))
}

// fromRGBA takes the red channel of an RGBA image with equal channels.
func fromRGBA(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			dst.Pix[di+x] = src.Pix[si+x*4]
		}
	}
	return dst
}
