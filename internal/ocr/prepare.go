package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/imaging"
)

// Threshold methods.
const (
	MethodGaussian = "gaussian"
	MethodSauvola  = "sauvola"
)

// BlendAlpha is the weight of the binary image when blending.
const BlendAlpha = 0.6

// Options controls Prepare. Use DefaultOptions as the starting point.
type Options struct {
	EqualizeHistogram bool
	Blend             bool

	// Method is MethodGaussian or MethodSauvola.
	Method string
	// BlockSize is the odd neighbourhood size of the threshold, and the
	// window of the Sauvola method.
	BlockSize int
	// C is subtracted from the Gaussian local mean.
	C float64
	// SauvolaK is the sensitivity of the Sauvola method.
	SauvolaK float64
	// ErodeRadius thickens strokes when > 0.
	ErodeRadius int

	Logger logrus.FieldLogger
}

// DefaultOptions returns the standard preparation settings.
func DefaultOptions() Options {
	return Options{
		Method:    MethodGaussian,
		BlockSize: 13,
		C:         4,
		SauvolaK:  0.3,
	}
}

// PrepareDefault runs Prepare with the default settings.
func PrepareDefault(src image.Image, equalizeHistogram, blend bool) image.Image {
	opts := DefaultOptions()
	opts.EqualizeHistogram = equalizeHistogram
	opts.Blend = blend
	return Prepare(src, opts)
}

// Prepare binarizes src for OCR. The result is a single-channel
// *image.Gray anchored at (0,0), except on failure, when it is a copy of
// src.
func Prepare(src image.Image, opts Options) (out image.Image) {
	log := opts.Logger
	if log == nil {
		log = config.Discard()
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("preparing image for OCR failed, returning a copy")
			out = imaging.Clone(src)
		}
	}()

	prepared, err := prepare(src, opts, log)
	if err != nil {
		log.WithError(err).Error("preparing image for OCR failed, returning a copy")
		return imaging.Clone(src)
	}
	return prepared
}

func prepare(src image.Image, opts Options, log logrus.FieldLogger) (*image.Gray, error) {
	log.Debug("grayscale")
	gray, err := imaging.ToGray(src)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion: %w", err)
	}

	work := gray
	if opts.EqualizeHistogram {
		log.Debug("equalize histogram")
		work = imaging.Equalize(work)
	}

	log.Debug("bilateral filter")
	work = imaging.Bilateral(work, 7, 75, 75)

	switch strings.ToLower(opts.Method) {
	case "", MethodGaussian:
		log.WithFields(logrus.Fields{"block_size": opts.BlockSize, "c": opts.C}).Debug("adaptive gaussian threshold")
		work = imaging.AdaptiveGaussian(work, opts.BlockSize, opts.C)
	case MethodSauvola:
		log.WithFields(logrus.Fields{"window": opts.BlockSize, "k": opts.SauvolaK}).Debug("sauvola threshold")
		work = imaging.Sauvola(work, opts.SauvolaK, opts.BlockSize)
	default:
		return nil, fmt.Errorf("unknown threshold method %q", opts.Method)
	}

	if opts.ErodeRadius > 0 {
		log.WithField("radius", opts.ErodeRadius).Debug("erode")
		work = imaging.Erode(work, opts.ErodeRadius)
	}

	if opts.Blend {
		log.Debug("blend binary with grayscale")
		work = imaging.Blend(gray, work, BlendAlpha)
	}
	return work, nil
}
