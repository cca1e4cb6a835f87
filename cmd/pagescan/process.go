package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/pipeline"
)

func newProcessCmd(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "process [file|dir...]",
		Short: "Detect, flatten and binarize document photographs",
		Long: `Process photographs of document pages.

For every input the page outline is detected, the page is warped to an
upright rectangle and binarized for OCR. The result is written as
<name>.png next to the input or into --output-dir. Directories are scanned
one level deep for images. Photographs that look out of focus are reported
with a BLUR warning.

Examples:
  pagescan process photo.jpg
  pagescan process scans/ --output-dir out --workers 4
  pagescan process page.jpg --strategy minrect --debug-dir debug --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, cfg, format, args)
		},
	}

	f := cmd.Flags()
	addPipelineFlags(f, cfg)
	f.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of images processed in parallel")
	f.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "directory for prepared images (default: next to the input)")
	f.StringVar(&cfg.DebugDir, "debug-dir", cfg.DebugDir, "directory for edge map and contour overlays")
	f.StringVarP(&format, "format", "f", "text", "report format (text, json)")

	return cmd
}

func runProcess(cmd *cobra.Command, cfg *config.Config, format string, args []string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
	}

	log := newLogger(cmd, cfg)
	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	inputs, err := pipeline.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("no image files found")
	}
	log.WithField("files", len(inputs)).Debug("processing")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	results := p.Batch(ctx, inputs)

	if err := writeResults(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func writeResults(w io.Writer, format string, results []pipeline.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(tw, "%s\terror\t%v\n", r.Input, r.Err)
		case r.Quality != nil && r.Quality.Blurry:
			fmt.Fprintf(tw, "%s\t%s\t%s\tblurry\n", r.Input, r.Outcome, r.Output)
		default:
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Input, r.Outcome, r.Output)
		}
	}
	return tw.Flush()
}
