package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
)

// Histogram returns the 256-bin intensity histogram of a gray image.
func Histogram(src *image.Gray) []int {
	return histogram.NewRGBAHistogram(src).R.Bins
}

// Median returns the median intensity of a gray image: the first bin whose
// cumulative count exceeds half the pixel count.
func Median(src *image.Gray) uint8 {
	cum := histogram.NewRGBAHistogram(src).R.Cumulative()
	n := cum.Bins[len(cum.Bins)-1]
	half := float64(n) / 2
	for i, c := range cum.Bins {
		if float64(c) > half {
			return uint8(i)
		}
	}
	return 255
}

// Equalize spreads the intensity histogram of a gray image across the full
// 0..255 range.
//
// The lookup table is the usual cumulative mapping, shifted so that the
// darkest occupied bin maps to 0:
//
//	lut[v] = round((cdf[v] - cdf[min]) * 255 / (N - cdf[min]))
//
// A single-valued image is returned unchanged.
func Equalize(src *image.Gray) *image.Gray {
	in := compact(src)
	cum := histogram.NewRGBAHistogram(in).R.Cumulative()
	bins := cum.Bins
	n := bins[len(bins)-1]

	cdfMin := 0
	for _, c := range bins {
		if c > 0 {
			cdfMin = c
			break
		}
	}
	if n == cdfMin {
		return in
	}

	var lut [256]uint8
	scale := 255 / float64(n-cdfMin)
	for v := range lut {
		lut[v] = saturate(float64(bins[v]-cdfMin) * scale)
	}
	for i, v := range in.Pix {
		in.Pix[i] = lut[v]
	}
	return in
}

// ChannelHistograms returns the 256-bin histograms of the red, green and
// blue channels of an opaque image.
func ChannelHistograms(img image.Image) [3][]int {
	h := histogram.NewRGBAHistogram(img)
	return [3][]int{h.R.Bins, h.G.Bins, h.B.Bins}
}
