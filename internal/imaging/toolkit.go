package imaging

import (
	"image"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// Toolkit bundles the primitives of this package behind methods so that a
// page detector can be handed an alternative implementation in tests.
// The zero value is ready to use and traces outer contours only.
type Toolkit struct {
	Contours ContourMode
}

func (Toolkit) Gray(img image.Image) (*image.Gray, error) { return ToGray(img) }

func (Toolkit) Bilateral(src *image.Gray, d int, sigmaColor, sigmaSpace float64) *image.Gray {
	return Bilateral(src, d, sigmaColor, sigmaSpace)
}

func (Toolkit) Resize(src *image.Gray, width, height int) *image.Gray {
	return Resize(src, width, height)
}

func (Toolkit) Pad(src *image.Gray, border int, value uint8) *image.Gray {
	return Pad(src, border, value)
}

func (Toolkit) GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	return GaussianBlur(src, ksize)
}

func (Toolkit) Median(src *image.Gray) uint8 { return Median(src) }

func (Toolkit) Canny(src *image.Gray, low, high float64) (*image.Gray, error) {
	return Canny(src, low, high)
}

func (t Toolkit) FindContours(edges *image.Gray) ([]geometry.Contour, error) {
	return FindContoursMode(edges, t.Contours)
}
