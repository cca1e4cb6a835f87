package detection

import (
	"image"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// Observer receives the intermediate products of a detection run. All
// coordinates are in the padded analysis image, not the input image.
// Implementations must not modify what they are given.
type Observer interface {
	OnEdges(edges *image.Gray)
	OnCandidates(candidates []geometry.Contour)
	OnAccepted(page geometry.Contour)
}

// nopObserver discards everything.
type nopObserver struct{}

func (nopObserver) OnEdges(*image.Gray)             {}
func (nopObserver) OnCandidates([]geometry.Contour) {}
func (nopObserver) OnAccepted(geometry.Contour)     {}
