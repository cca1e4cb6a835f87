package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Bilateral applies an edge-preserving bilateral filter.
//
// Parameters:
//   - src: grayscale input.
//   - d: diameter of the pixel neighbourhood. Values <= 0 derive the
//     diameter from sigmaSpace.
//   - sigmaColor: intensity difference (0-255) at which neighbours stop
//     contributing. Larger values smooth across stronger edges.
//   - sigmaSpace: spatial falloff in pixels.
//
// # Algorithm
//
// Each output pixel is the weighted mean of the pixels within a circular
// window of radius d/2, weighted by
//
//	exp(-dist²/(2*sigmaSpace²)) * exp(-Δintensity²/(2*sigmaColor²))
//
// Both Gaussians are precomputed: the spatial one per window offset, the
// range one per intensity difference (0-255). Borders are reflect-101.
func Bilateral(src *image.Gray, d int, sigmaColor, sigmaSpace float64) *image.Gray {
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}
	radius := d / 2
	if d <= 0 {
		radius = int(math.Round(sigmaSpace * 1.5))
	}
	if radius < 1 {
		return compact(src)
	}

	type tap struct {
		dx, dy int
		w      float64
	}
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	taps := make([]tap, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r2 := float64(dx*dx + dy*dy)
			if math.Sqrt(r2) > float64(radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(r2 * spaceCoeff)})
		}
	}

	var rangeWeight [256]float64
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range rangeWeight {
		rangeWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	in := compact(src)
	w, h := in.Rect.Dx(), in.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := int(in.Pix[y*w+x])
			var sum, norm float64
			for _, t := range taps {
				v := int(in.Pix[reflect101(y+t.dy, h)*w+reflect101(x+t.dx, w)])
				diff := v - center
				if diff < 0 {
					diff = -diff
				}
				wt := t.w * rangeWeight[diff]
				sum += wt * float64(v)
				norm += wt
			}
			dst.Pix[y*w+x] = saturate(sum / norm)
		}
	}
	return dst
}

// GaussianSigma returns the standard deviation used for a ksize x ksize
// Gaussian kernel when no sigma is given.
func GaussianSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}

// GaussianBlur smooths a gray image with a Gaussian whose sigma is derived
// from the kernel size (5 gives sigma 1.1).
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	if ksize < 3 {
		return compact(src)
	}
	return fromNRGBA(imaging.Blur(src, GaussianSigma(ksize)))
}

// Resize resamples a gray image to exactly width x height with a bilinear
// filter. Upscaling is allowed.
func Resize(src *image.Gray, width, height int) *image.Gray {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return fromNRGBA(imaging.Resize(src, width, height, imaging.Linear))
}

// FitRatio returns the scale factor that fits a w x h image inside the
// envelope, min(envW/w, envH/h). It can exceed 1 for small images.
func FitRatio(w, h, envW, envH int) float64 {
	return math.Min(float64(envW)/float64(w), float64(envH)/float64(h))
}

// Pad surrounds src with a constant border of the given width and value.
func Pad(src *image.Gray, border int, value uint8) *image.Gray {
	if border <= 0 {
		return compact(src)
	}
	b := src.Bounds()
	bg := imaging.New(b.Dx()+2*border, b.Dy()+2*border, color.Gray{Y: value})
	return fromNRGBA(imaging.Paste(bg, src, image.Pt(border, border)))
}
