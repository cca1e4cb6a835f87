// Package balance implements the "simplest color balance" histogram
// stretch: per channel, a small percentage of the darkest and brightest
// values is clipped and the rest is rescaled linearly to the output range.
package balance

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pagescan/internal/imaging"
)

// Variant selects the output range of Balance.
type Variant int

const (
	// Full stretches each channel to 0..255. Default percent 0.01.
	Full Variant = iota
	// Half stretches each channel to 0..127.5, leaving headroom for a
	// later blend. Default percent 5.
	Half
)

func (v Variant) String() string {
	if v == Half {
		return "half"
	}
	return "full"
}

// ErrUnknownVariant is returned by VariantByName.
var ErrUnknownVariant = errors.New("unknown balance variant")

// VariantByName maps "full" or "half" to a Variant. The empty name is Full.
func VariantByName(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "full":
		return Full, nil
	case "half":
		return Half, nil
	default:
		return Full, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// DefaultPercent is the clip percentage used when Balance is given one
// outside (0, 100).
func (v Variant) DefaultPercent() float64 {
	if v == Half {
		return 5
	}
	return 0.01
}

func (v Variant) ceiling() float64 {
	if v == Half {
		return 127.5
	}
	return 255
}

// Balance clips percent/2 percent of the values at each end of every
// channel and stretches the remainder over the variant's range.
//
// Gray input yields *image.Gray; anything else *image.NRGBA with alpha
// kept. Percentiles are taken over the sorted channel values: the low
// bound is v[floor(n*p/200)], the high bound v[ceil(n*(1-p/200))] capped
// at the last index. A channel whose bounds coincide becomes 0.
func Balance(src image.Image, percent float64, v Variant) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Empty() {
		return imaging.Clone(src)
	}
	if !(percent > 0 && percent < 100) {
		percent = v.DefaultPercent()
	}
	half := percent / 200
	n := b.Dx() * b.Dy()

	if g, ok := src.(*image.Gray); ok {
		out, _ := imaging.ToGray(g)
		lut := stretch(imaging.Histogram(out), n, half, v.ceiling())
		for i, p := range out.Pix {
			out.Pix[i] = uint8(math.Round(lut[p]))
		}
		return out
	}

	out := imaging.ToNRGBA(src)
	hists := imaging.ChannelHistograms(out)
	var luts [3][256]float64
	for c := range luts {
		luts[c] = stretch(hists[c], n, half, v.ceiling())
	}
	for i := 0; i < len(out.Pix); i += 4 {
		p := out.Pix[i : i+3 : i+3]
		col := colorful.Color{
			R: luts[0][p[0]] / 255,
			G: luts[1][p[1]] / 255,
			B: luts[2][p[2]] / 255,
		}
		p[0], p[1], p[2] = col.Clamped().RGB255()
	}
	return out
}

// stretch builds the clip-and-rescale lookup table of one channel from
// its histogram.
func stretch(bins []int, n int, half, ceiling float64) [256]float64 {
	lowIdx := int(math.Floor(float64(n) * half))
	highIdx := int(math.Ceil(float64(n) * (1 - half)))
	if highIdx > n-1 {
		highIdx = n - 1
	}
	low, high := valueAt(bins, lowIdx), valueAt(bins, highIdx)

	var lut [256]float64
	if high <= low {
		return lut
	}
	scale := ceiling / float64(high-low)
	for v := range lut {
		x := v
		if x < low {
			x = low
		} else if x > high {
			x = high
		}
		lut[v] = float64(x-low) * scale
	}
	return lut
}

// valueAt returns the k-th smallest value (0-based) of the multiset the
// histogram counts.
func valueAt(bins []int, k int) int {
	cum := 0
	for v, c := range bins {
		cum += c
		if cum > k {
			return v
		}
	}
	return len(bins) - 1
}
