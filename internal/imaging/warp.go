package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// WarpPerspective resamples src into a width x height image.
//
// dstToSrc maps each output pixel centre back into source coordinates; the
// value there is bilinearly interpolated from the four surrounding source
// pixels. Source pixels outside the image count as opaque black.
//
// Gray input yields *image.Gray, anything else *image.NRGBA.
func WarpPerspective(src image.Image, dstToSrc geometry.Matrix3, width, height int) (image.Image, error) {
	if src.Bounds().Empty() || width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	in := imaging.Clone(src)
	sw, sh := in.Rect.Dx(), in.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	texel := func(x, y int) [4]float64 {
		if x < 0 || y < 0 || x >= sw || y >= sh {
			return [4]float64{0, 0, 0, 255}
		}
		i := y*in.Stride + x*4
		p := in.Pix[i : i+4 : i+4]
		return [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			di := y*dst.Stride + x*4
			s, ok := dstToSrc.Apply(geometry.Pt(float64(x), float64(y)))
			if !ok || s.X <= -1 || s.Y <= -1 || s.X >= float64(sw) || s.Y >= float64(sh) {
				dst.Pix[di+3] = 255
				continue
			}

			x0, y0 := int(math.Floor(s.X)), int(math.Floor(s.Y))
			fx, fy := s.X-float64(x0), s.Y-float64(y0)

			c00 := texel(x0, y0)
			c10 := texel(x0+1, y0)
			c01 := texel(x0, y0+1)
			c11 := texel(x0+1, y0+1)

			for ch := 0; ch < 4; ch++ {
				top := c00[ch]*(1-fx) + c10[ch]*fx
				bottom := c01[ch]*(1-fx) + c11[ch]*fx
				dst.Pix[di+ch] = saturate(top*(1-fy) + bottom*fy)
			}
		}
	}

	if Channels(src) == 1 {
		return fromNRGBA(dst), nil
	}
	return dst, nil
}
