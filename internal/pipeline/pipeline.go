// Package pipeline runs the page scanner end to end: decode, optional
// colour balance, page detection, perspective correction and OCR
// preparation, with a blur assessment of the original photograph.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/pagescan/internal/balance"
	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/detection"
	"github.com/ironsheep/pagescan/internal/imaging"
	"github.com/ironsheep/pagescan/internal/ocr"
	"github.com/ironsheep/pagescan/internal/perspective"
	"github.com/ironsheep/pagescan/internal/quality"
)

// Pipeline holds the resolved configuration of a run. It keeps no
// per-image state and is safe for concurrent use.
type Pipeline struct {
	cfg        *config.Config
	strategy   detection.RankingStrategy
	thresholds quality.Thresholds
	log        logrus.FieldLogger
}

// New validates cfg and resolves its named settings. A nil log discards
// messages.
func New(cfg *config.Config, log logrus.FieldLogger) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	strategy, err := detection.StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = config.Discard()
	}
	return &Pipeline{
		cfg:        cfg,
		strategy:   strategy,
		thresholds: quality.DefaultThresholds(),
		log:        log,
	}, nil
}

// Output is everything one run produces for an image.
type Output struct {
	Detection detection.Result
	Quality   quality.Report
	// Page is the perspective-corrected page, or a copy of the input when
	// no page was found.
	Page image.Image
	// Prepared is the binarized page for OCR.
	Prepared image.Image
}

// Detector returns a page detector configured from the pipeline settings.
// obs may be nil.
func (p *Pipeline) Detector(obs detection.Observer) *detection.Detector {
	return detection.New(
		detection.WithStrategy(p.strategy),
		detection.WithMinPageFraction(p.cfg.MinPageFraction),
		detection.WithEnvelope(p.cfg.EnvelopeWidth, p.cfg.EnvelopeHeight),
		detection.WithPad(p.cfg.Pad),
		detection.WithLogger(p.log),
		detection.WithObserver(obs),
	)
}

// OCROptions returns the preparation settings of the pipeline.
func (p *Pipeline) OCROptions() ocr.Options {
	return ocr.Options{
		EqualizeHistogram: p.cfg.Equalize,
		Blend:             p.cfg.Blend,
		Method:            p.cfg.ThresholdMethod,
		BlockSize:         p.cfg.BlockSize,
		C:                 p.cfg.C,
		SauvolaK:          p.cfg.SauvolaK,
		ErodeRadius:       p.cfg.ErodeRadius,
		Logger:            p.log,
	}
}

// Run processes a decoded image. obs receives the detector's
// intermediate products and may be nil.
func (p *Pipeline) Run(img image.Image, obs detection.Observer) Output {
	var out Output
	out.Quality = p.thresholds.Assess(img)

	work := img
	if p.cfg.Balance {
		work = balance.Balance(img, p.cfg.BalancePercent, balance.Full)
	}

	out.Detection = p.Detector(obs).DetectPage(work)
	if out.Detection.Outcome == detection.Found {
		out.Page = perspective.Transform(work, out.Detection.Points(), p.log)
	} else {
		out.Page = imaging.Clone(work)
	}
	out.Prepared = ocr.Prepare(out.Page, p.OCROptions())
	return out
}

// Result reports the outcome of processing one file.
type Result struct {
	Input      string            `json:"input"`
	Output     string            `json:"output,omitempty"`
	Outcome    string            `json:"outcome,omitempty"`
	Corners    []float64         `json:"corners,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Quality    *quality.Report   `json:"quality,omitempty"`
	Detection  *detection.Result `json:"-"`
	Err        error             `json:"-"`
	ErrMessage string            `json:"error,omitempty"`
}

// OutputPath returns where the prepared image for input is written:
// <name>.png next to the input, or inside the configured output
// directory. An input that is itself <name>.png in the same place gets
// <name>-ocr.png so it is never overwritten.
func (p *Pipeline) OutputPath(input string) string {
	dir := filepath.Dir(input)
	if p.cfg.OutputDir != "" {
		dir = p.cfg.OutputDir
	}
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, name+".png")
	if filepath.Clean(out) == filepath.Clean(input) {
		out = filepath.Join(dir, name+"-ocr.png")
	}
	return out
}

// outputPaths assigns an output path to every input of a batch. When two
// inputs map to the same file (same base name from different directories
// into one output dir, or a.jpg next to a.jpeg) the later ones get a
// numeric suffix, <name>-2.png, <name>-3.png, that no other input uses.
func (p *Pipeline) outputPaths(inputs []string) []string {
	outputs := make([]string, len(inputs))
	natural := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		outputs[i] = filepath.Clean(p.OutputPath(in))
		natural[outputs[i]] = true
	}

	assigned := make(map[string]bool, len(inputs))
	for i, out := range outputs {
		if !assigned[out] {
			assigned[out] = true
			continue
		}
		stem := strings.TrimSuffix(out, filepath.Ext(out))
		for k := 2; ; k++ {
			candidate := fmt.Sprintf("%s-%d.png", stem, k)
			if !natural[candidate] && !assigned[candidate] && candidate != filepath.Clean(inputs[i]) {
				outputs[i] = candidate
				break
			}
		}
		assigned[outputs[i]] = true
		p.log.WithFields(logrus.Fields{
			"file":   inputs[i],
			"output": outputs[i],
		}).Warn("output name already used in this batch, adding a suffix")
	}
	return outputs
}

// ProcessFile loads input, runs the pipeline and writes the prepared
// image. Failures to read or write are reported in Result.Err; analysis
// problems never are, since every stage degrades instead of failing.
func (p *Pipeline) ProcessFile(input string) Result {
	return p.processFile(input, p.OutputPath(input))
}

func (p *Pipeline) processFile(input, output string) Result {
	res := Result{Input: input}
	log := p.log.WithField("file", input)

	img, err := imaging.Load(input)
	if err != nil {
		return res.fail(err)
	}

	var obs detection.Observer
	if p.cfg.DebugDir != "" {
		obs = NewDebugWriter(p.cfg.DebugDir, input, log)
	}

	out := p.Run(img, obs)
	if out.Quality.Blurry {
		log.WithFields(logrus.Fields{
			"variance_of_laplacian": out.Quality.VarianceOfLaplacian,
			"modified_laplacian":    out.Quality.ModifiedLaplacian,
		}).Warn("BLUR")
	}

	res.Output = output
	if err := imaging.Save(out.Prepared, res.Output); err != nil {
		res.Output = ""
		return res.fail(err)
	}

	res.Outcome = out.Detection.Outcome.String()
	for _, pt := range out.Detection.Corners {
		res.Corners = append(res.Corners, pt.X, pt.Y)
	}
	res.Width, res.Height = out.Prepared.Bounds().Dx(), out.Prepared.Bounds().Dy()
	res.Quality = &out.Quality
	res.Detection = &out.Detection

	log.WithFields(logrus.Fields{
		"outcome": res.Outcome,
		"output":  res.Output,
	}).Info("processed")
	return res
}

func (r Result) fail(err error) Result {
	r.Err = err
	r.ErrMessage = err.Error()
	return r
}

// Batch processes inputs on a pool of workers and returns the results in
// input order. No two inputs are written to the same output file.
// Cancelling ctx stops workers from picking up further files; files not
// started report ctx.Err().
func (p *Pipeline) Batch(ctx context.Context, inputs []string) []Result {
	results := make([]Result, len(inputs))
	outputs := p.outputPaths(inputs)
	workers := p.cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processFile(inputs[i], outputs[i])
			}
		}()
	}

	next := 0
feed:
	for ; next < len(inputs); next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(inputs); i++ {
		results[i] = Result{Input: inputs[i]}.fail(ctx.Err())
	}
	return results
}

// ExpandInputs turns a mix of files and directories into a list of image
// files, in argument order. Directories are scanned one level deep for
// supported extensions, in name order.
func ExpandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %s is not a file: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && isImageFile(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	return files, nil
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
