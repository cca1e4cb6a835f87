package quality

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/pagescan/internal/imaging"
)

var (
	laplacianKernel = [][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
	secondDiff   = []float64{-1, 2, -1}
	gaussSmooth3 = []float64{0.25, 0.5, 0.25}
	centralDiff  = []float64{-1, 0, 1}
	identity1    = []float64{1}
)

// grayPlane returns the grayscale plane of img, or nil for an empty image.
func grayPlane(img image.Image) *imaging.Plane {
	g, err := imaging.ToGray(img)
	if err != nil {
		return nil
	}
	return imaging.PlaneOf(g)
}

// VarianceOfLaplacian returns the population variance of the 3x3
// Laplacian response. Sharp images score high; an empty image scores 0.
func VarianceOfLaplacian(img image.Image) float64 {
	p := grayPlane(img)
	if p == nil {
		return 0
	}
	_, variance := stat.PopMeanVariance(p.Convolve(laplacianKernel).Pix, nil)
	return variance
}

// ModifiedLaplacian returns mean(|Lx| + |Ly|), where Lx is the second
// difference [-1 2 -1] along x smoothed by [1 2 1]/4 along y, and Ly the
// same transposed.
func ModifiedLaplacian(img image.Image) float64 {
	p := grayPlane(img)
	if p == nil {
		return 0
	}
	lx := p.SepConvolve(secondDiff, gaussSmooth3).Abs()
	ly := p.SepConvolve(gaussSmooth3, secondDiff).Abs()
	for i, v := range ly.Pix {
		lx.Pix[i] += v
	}
	return stat.Mean(lx.Pix, nil)
}

// Tenengrad returns the mean of Gx² + Gy² over the gradient responses.
// ksize 1 uses the plain central difference [-1 0 1]; every other value
// uses the 3x3 Sobel operator.
func Tenengrad(img image.Image, ksize int) float64 {
	p := grayPlane(img)
	if p == nil {
		return 0
	}
	var gx, gy *imaging.Plane
	if ksize == 1 {
		gx = p.SepConvolve(centralDiff, identity1)
		gy = p.SepConvolve(identity1, centralDiff)
	} else {
		gx, gy = imaging.Sobel(p)
	}
	sq := make([]float64, len(gx.Pix))
	for i := range sq {
		sq[i] = gx.Pix[i]*gx.Pix[i] + gy.Pix[i]*gy.Pix[i]
	}
	return stat.Mean(sq, nil)
}

// NormalizedGrayLevelVariance returns variance/mean of the gray levels,
// or 0 for a black or empty image.
func NormalizedGrayLevelVariance(img image.Image) float64 {
	p := grayPlane(img)
	if p == nil {
		return 0
	}
	mean, variance := stat.PopMeanVariance(p.Pix, nil)
	if mean == 0 {
		return 0
	}
	return variance / mean
}

// luminance returns Rec. 709 luma of every pixel, in 0..255 or 0..1.
func luminance(img image.Image, normalize bool) []float64 {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, _ := colorful.MakeColor(img.At(x, y))
			l := 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
			if !normalize {
				l *= 255
			}
			out = append(out, l)
		}
	}
	return out
}

// Brightness returns the mean perceived brightness (Rec. 709 weights) in
// 0..255, or 0..1 when normalize is set. Gray images have equal channels,
// so their brightness is the mean gray level. A nil or empty image scores 0.
func Brightness(img image.Image, normalize bool) float64 {
	if img == nil || img.Bounds().Empty() {
		return 0
	}
	return stat.Mean(luminance(img, normalize), nil)
}

// Contrast returns the sum of squared deviations of each pixel's
// perceived brightness from brightness. Pass the result of Brightness with
// the same normalize flag.
func Contrast(img image.Image, brightness float64, normalize bool) float64 {
	var sum float64
	for _, l := range luminance(img, normalize) {
		d := brightness - l
		sum += d * d
	}
	return sum
}
