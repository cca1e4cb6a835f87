// Package perspective flattens a photographed page into an upright
// rectangle.
package perspective

import (
	"fmt"
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/geometry"
	"github.com/ironsheep/pagescan/internal/imaging"
)

// Transform warps the quadrilateral described by pts onto a rectangle.
//
// The points may be in any order; they are sorted into top-left,
// top-right, bottom-right, bottom-left first. The output is
// round(w) x round(h), where w is the longer of the top and bottom edges
// and h the longer of the left and right edges.
//
// Transform does not fail. With other than four points, or when the warp
// cannot be computed, it logs the reason and returns an unmodified copy
// of src. A nil log discards messages.
func Transform(src image.Image, pts []geometry.Point, log logrus.FieldLogger) image.Image {
	if log == nil {
		log = config.Discard()
	}
	q, err := geometry.OrderCorners(pts)
	if err != nil {
		log.WithError(err).Warn("perspective transform skipped, returning a copy")
		return imaging.Clone(src)
	}
	return TransformQuad(src, q, log)
}

// TransformQuad is Transform for corners already ordered top-left,
// top-right, bottom-right, bottom-left.
func TransformQuad(src image.Image, q geometry.Quad, log logrus.FieldLogger) (out image.Image) {
	if log == nil {
		log = config.Discard()
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("perspective transform failed, returning a copy")
			out = imaging.Clone(src)
		}
	}()

	warped, err := warp(src, q)
	if err != nil {
		log.WithError(err).Error("perspective transform failed, returning a copy")
		return imaging.Clone(src)
	}
	return warped
}

func warp(src image.Image, q geometry.Quad) (image.Image, error) {
	w, h := geometry.TargetRectSize(q)
	outW, outH := int(math.Round(w)), int(math.Round(h))
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("target size %dx%d: %w", outW, outH, geometry.ErrDegenerate)
	}

	target := geometry.Quad{{X: 0, Y: 0}, {X: w - 1, Y: 0}, {X: w - 1, Y: h - 1}, {X: 0, Y: h - 1}}
	toSource, err := geometry.Homography(target, q)
	if err != nil {
		return nil, fmt.Errorf("solving homography: %w", err)
	}

	out, err := imaging.WarpPerspective(src, toSource, outW, outH)
	if err != nil {
		return nil, fmt.Errorf("resampling: %w", err)
	}
	return out, nil
}
