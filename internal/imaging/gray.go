package imaging

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when an operation receives an image with no
// pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Channels reports the number of colour channels the page scanner treats
// the image as having: 1 for grayscale images, 3 otherwise. Alpha is
// ignored.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	return 3
}

// ToGray converts an image to 8-bit grayscale.
//
// Colour input is converted with ITU-R BT.601 luminance weights
// (0.299*R + 0.587*G + 0.114*B). Grayscale input is copied. The result is
// anchored at (0,0) and never aliases the input.
func ToGray(img image.Image) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if g, ok := img.(*image.Gray); ok {
		return compact(g), nil
	}
	return fromNRGBA(imaging.Grayscale(img)), nil
}

// fromNRGBA takes the red channel of an NRGBA image whose channels are
// equal, as produced by the library's filters on gray input.
func fromNRGBA(src *image.NRGBA) *image.Gray {
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

// compact returns a copy of g anchored at (0,0) with Stride == width.
func compact(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], g.Pix[si:si+w])
	}
	return dst
}

// Clone returns a deep copy of img anchored at (0,0), or nil for nil.
func Clone(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	if g, ok := img.(*image.Gray); ok {
		return compact(g)
	}
	return imaging.Clone(img)
}

// ToNRGBA returns a non-premultiplied copy of img anchored at (0,0).
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
