package detection

import (
	"fmt"
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/geometry"
	"github.com/ironsheep/pagescan/internal/imaging"
)

// Defaults for a Detector.
const (
	DefaultMinPageFraction = 0.5
	DefaultEnvelopeWidth   = 640
	DefaultEnvelopeHeight  = 480
	DefaultPad             = 15
	DefaultTopK            = 5
)

const (
	bilateralDiameter  = 7
	bilateralSigma     = 75.0
	blurKernel         = 5
	approxEpsilonRatio = 0.02
)

// Primitives are the image operations DetectPage is built from.
// imaging.Toolkit is the production implementation.
type Primitives interface {
	Gray(img image.Image) (*image.Gray, error)
	Bilateral(src *image.Gray, d int, sigmaColor, sigmaSpace float64) *image.Gray
	Resize(src *image.Gray, width, height int) *image.Gray
	Pad(src *image.Gray, border int, value uint8) *image.Gray
	GaussianBlur(src *image.Gray, ksize int) *image.Gray
	Median(src *image.Gray) uint8
	Canny(src *image.Gray, low, high float64) (*image.Gray, error)
	FindContours(edges *image.Gray) ([]geometry.Contour, error)
}

// Detector finds a page outline in a photograph. Create one with New;
// the zero value is not usable.
type Detector struct {
	Strategy        RankingStrategy
	MinPageFraction float64
	Envelope        image.Point
	Pad             int
	TopK            int
	Tools           Primitives
	Logger          logrus.FieldLogger
	Observer        Observer
}

// Option configures a Detector.
type Option func(*Detector)

// WithStrategy selects the contour ranking strategy.
func WithStrategy(s RankingStrategy) Option {
	return func(d *Detector) {
		if s != nil {
			d.Strategy = s
		}
	}
}

// WithMinPageFraction sets the smallest accepted page area as a fraction
// of the image area. Values outside (0,1] are ignored.
func WithMinPageFraction(f float64) Option {
	return func(d *Detector) {
		if f > 0 && f <= 1 {
			d.MinPageFraction = f
		}
	}
}

// WithEnvelope sets the size the image is scaled into for analysis.
func WithEnvelope(width, height int) Option {
	return func(d *Detector) {
		if width > 0 && height > 0 {
			d.Envelope = image.Pt(width, height)
		}
	}
}

// WithPad sets the black border added around the analysis image.
func WithPad(px int) Option {
	return func(d *Detector) {
		if px >= 0 {
			d.Pad = px
		}
	}
}

// WithTopK sets how many ranked candidates the acceptance walk examines.
func WithTopK(k int) Option {
	return func(d *Detector) {
		if k > 0 {
			d.TopK = k
		}
	}
}

// WithPrimitives replaces the image operations.
func WithPrimitives(p Primitives) Option {
	return func(d *Detector) {
		if p != nil {
			d.Tools = p
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Detector) {
		if l != nil {
			d.Logger = l
		}
	}
}

// WithObserver attaches an observer for debug artifacts.
func WithObserver(o Observer) Option {
	return func(d *Detector) {
		if o != nil {
			d.Observer = o
		}
	}
}

// New returns a Detector with the default configuration modified by opts.
func New(opts ...Option) *Detector {
	d := &Detector{
		Strategy:        HullRanking{},
		MinPageFraction: DefaultMinPageFraction,
		Envelope:        image.Pt(DefaultEnvelopeWidth, DefaultEnvelopeHeight),
		Pad:             DefaultPad,
		TopK:            DefaultTopK,
		Tools:           imaging.Toolkit{},
		Logger:          config.Discard(),
		Observer:        nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectPage finds the page in img with the default detector and the
// given minimum page fraction.
func DetectPage(img image.Image, minPageFraction float64) Result {
	return New(WithMinPageFraction(minPageFraction)).DetectPage(img)
}

// DetectPage locates the largest convex quadrilateral in img that covers
// at least MinPageFraction of the image.
//
// The returned corners are in input coordinates. An accepted quad always
// satisfies MinPageFraction*W*H <= area <= W*H; a candidate that falls
// below the bound after scaling back and clamping is reported as Fallback.
//
// DetectPage never panics. Internal failures are logged at error level and
// reported as Outcome Error with the full-frame corners.
func (d *Detector) DetectPage(img image.Image) (res Result) {
	name := d.Strategy.Name()
	log := d.Logger.WithField("strategy", name)

	var width, height int
	if img != nil {
		width, height = img.Bounds().Dx(), img.Bounds().Dy()
	}
	fallback := geometry.FullFrame(width, height)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("page detection panicked: %v", r)
			log.WithError(err).Error("finding page failed")
			res = Result{Corners: fallback, Outcome: Error, Err: err, Strategy: name}
		}
	}()

	if width <= 0 || height <= 0 {
		err := fmt.Errorf("page detection: %w", imaging.ErrEmptyImage)
		log.WithError(err).Error("finding page failed")
		return Result{Corners: fallback, Outcome: Error, Err: err, Strategy: name}
	}

	page, ratio, err := d.findPage(img, log)
	if err != nil {
		log.WithError(err).Error("finding page failed")
		return Result{Corners: fallback, Outcome: Error, Err: err, Strategy: name}
	}
	if page == nil {
		log.Debug("no page outline found, using full frame")
		return Result{Corners: fallback, Outcome: Fallback, Strategy: name}
	}

	corners := d.toImageCoords(page, ratio, width, height)
	minArea := d.MinPageFraction * float64(width) * float64(height)
	if area := corners.Area(); area < minArea {
		log.WithFields(logrus.Fields{
			"area":     area,
			"min_area": minArea,
		}).Info("page shrank below the minimum size after clamping")
		return Result{Corners: fallback, Outcome: Fallback, Strategy: name}
	}

	log.WithField("corners", corners.Points()).Debug("page found")
	return Result{Corners: corners, Outcome: Found, Strategy: name}
}

// findPage runs the analysis on a reduced copy of img. It returns the
// accepted outline in padded analysis coordinates, or nil if none
// qualified, together with the scale ratio used.
func (d *Detector) findPage(img image.Image, log logrus.FieldLogger) (geometry.Contour, float64, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	log.Debug("grayscale and bilateral filter")
	gray, err := d.Tools.Gray(img)
	if err != nil {
		return nil, 0, fmt.Errorf("grayscale conversion: %w", err)
	}
	work := d.Tools.Bilateral(gray, bilateralDiameter, bilateralSigma, bilateralSigma)

	ratio := imaging.FitRatio(width, height, d.Envelope.X, d.Envelope.Y)
	workW := maxInt(1, int(math.Round(float64(width)*ratio)))
	workH := maxInt(1, int(math.Round(float64(height)*ratio)))
	log.WithFields(logrus.Fields{
		"ratio":  ratio,
		"width":  workW,
		"height": workH,
	}).Debug("resize into analysis envelope")
	work = d.Tools.Resize(work, workW, workH)

	work = d.Tools.Pad(work, d.Pad, 0)
	work = d.Tools.GaussianBlur(work, blurKernel)

	median := float64(d.Tools.Median(work))
	low := math.Max(0, 0.67*median)
	high := math.Max(255, 1.33*median)
	log.WithFields(logrus.Fields{
		"median": median,
		"low":    low,
		"high":   high,
	}).Debug("canny edge detection")
	edges, err := d.Tools.Canny(work, low, high)
	if err != nil {
		return nil, 0, fmt.Errorf("edge detection: %w", err)
	}
	d.Observer.OnEdges(edges)

	contours, err := d.Tools.FindContours(edges)
	if err != nil {
		return nil, 0, fmt.Errorf("contour tracing: %w", err)
	}
	candidates := d.Strategy.Prepare(contours, d.TopK)
	log.WithFields(logrus.Fields{
		"contours":   len(contours),
		"candidates": len(candidates),
	}).Debug("ranked contours")
	d.Observer.OnCandidates(candidates)

	// The padded frame traces as a contour just inside the border; the
	// margin of 4 keeps it above analysisArea.
	pb := edges.Bounds()
	analysisArea := float64(pb.Dy()-2*d.Pad-4) * float64(pb.Dx()-2*d.Pad-4)
	if analysisArea <= 0 {
		log.WithField("analysis_area", analysisArea).Info("image too small to search for a page")
		return nil, ratio, nil
	}

	page := d.walk(candidates, analysisArea, log)
	if page != nil {
		d.Observer.OnAccepted(page)
	}
	return page, ratio, nil
}

// walk returns the first candidate that simplifies to a convex
// quadrilateral. Candidates are ordered largest first, so the walk stops
// at the first one below the size bound.
func (d *Detector) walk(candidates []geometry.Contour, analysisArea float64, log logrus.FieldLogger) geometry.Contour {
	minArea := d.MinPageFraction * analysisArea
	for _, c := range candidates {
		epsilon := approxEpsilonRatio * geometry.ArcLength(c, true)
		approx := geometry.ApproxPolyDP(c, epsilon, true)
		area := geometry.PolygonArea(approx)
		convex := geometry.IsConvex(approx)

		fields := logrus.Fields{
			"points":        len(c),
			"vertices":      len(approx),
			"convex":        convex,
			"area":          area,
			"analysis_area": analysisArea,
		}
		if area < minArea {
			log.WithFields(fields).Info("page size is too small compared to the image size")
			return nil
		}
		if area > analysisArea {
			log.WithFields(fields).Info("contour covers the padded border, skipping")
			continue
		}
		if len(approx) == 4 && convex {
			return approx
		}
		log.WithFields(fields).Info("contour is not a convex quadrilateral")
	}
	return nil
}

// toImageCoords maps an outline from padded analysis coordinates back
// into the input image, rounding to whole pixels and clamping into
// [0,W]x[0,H].
func (d *Detector) toImageCoords(page geometry.Contour, ratio float64, width, height int) geometry.Quad {
	var q geometry.Quad
	copy(q[:], page)
	pad := float64(d.Pad)
	return q.Map(func(p geometry.Point) geometry.Point {
		x := math.Round((p.X - pad) / ratio)
		y := math.Round((p.Y - pad) / ratio)
		return geometry.Pt(
			math.Min(math.Max(x, 0), float64(width)),
			math.Min(math.Max(y, 0), float64(height)),
		)
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
