package pipeline

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/pagescan/internal/geometry"
	"github.com/ironsheep/pagescan/internal/imaging"
)

// DebugWriter saves the detector's intermediate products as PNG files in
// a directory: <name>-edges.png, <name>-candidates.png and
// <name>-accepted.png. Coordinates are those of the padded analysis image.
//
// A DebugWriter serves a single image and is not safe for concurrent use.
type DebugWriter struct {
	dir   string
	name  string
	edges *image.Gray
	log   logrus.FieldLogger
}

// NewDebugWriter returns a writer for the image at input.
func NewDebugWriter(dir, input string, log logrus.FieldLogger) *DebugWriter {
	base := filepath.Base(input)
	return &DebugWriter{
		dir:  dir,
		name: strings.TrimSuffix(base, filepath.Ext(base)),
		log:  log,
	}
}

func (w *DebugWriter) OnEdges(edges *image.Gray) {
	w.edges = edges
	w.save("edges", edges)
}

func (w *DebugWriter) OnCandidates(candidates []geometry.Contour) {
	if w.edges == nil {
		return
	}
	w.save("candidates", imaging.DrawContours(w.edges, candidates, imaging.CandidateColor))
}

func (w *DebugWriter) OnAccepted(page geometry.Contour) {
	if w.edges == nil {
		return
	}
	var q geometry.Quad
	copy(q[:], page)
	w.save("accepted", imaging.DrawQuad(w.edges, q, imaging.AcceptedColor))
}

// save writes one artifact. Failures are logged, never returned: debug
// output must not change the result of a run.
func (w *DebugWriter) save(kind string, img image.Image) {
	path := filepath.Join(w.dir, w.name+"-"+kind+".png")
	if err := imaging.Save(img, path); err != nil {
		w.log.WithError(err).WithField("path", path).Warn("failed to write debug image")
		return
	}
	w.log.WithField("path", path).Debug("wrote debug image")
}
