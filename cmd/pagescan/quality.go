package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/imaging"
	"github.com/ironsheep/pagescan/internal/pipeline"
	"github.com/ironsheep/pagescan/internal/quality"
)

type qualityResult struct {
	Input  string          `json:"input"`
	Report *quality.Report `json:"quality,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func newQualityCmd(cfg *config.Config) *cobra.Command {
	var (
		format string
		ksize  int
	)

	cmd := &cobra.Command{
		Use:   "quality [file|dir...]",
		Short: "Score focus and exposure of photographs",
		Long: `Compute blur and exposure metrics without processing the page:
variance of Laplacian, modified Laplacian, Tenengrad, normalized gray-level
variance, brightness and contrast. A photograph is blurry when both
Laplacian scores fall below their thresholds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
			}
			inputs, err := pipeline.ExpandInputs(args)
			if err != nil {
				return err
			}

			log := newLogger(cmd, cfg)
			results := make([]qualityResult, 0, len(inputs))
			failed := 0
			for _, in := range inputs {
				img, err := imaging.Load(in)
				if err != nil {
					log.WithError(err).WithField("file", in).Error("failed to load image")
					results = append(results, qualityResult{Input: in, Error: err.Error()})
					failed++
					continue
				}
				report := quality.Assess(img)
				if ksize != 3 {
					report.Tenengrad = quality.Tenengrad(img, ksize)
				}
				if report.Blurry {
					log.WithField("file", in).Warn("BLUR")
				}
				results = append(results, qualityResult{Input: in, Report: &report})
			}

			if err := writeQuality(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format (text, json)")
	cmd.Flags().IntVar(&ksize, "tenengrad-ksize", 3, "Tenengrad gradient kernel: 1 for central differences, otherwise Sobel")
	return cmd
}

func writeQuality(w io.Writer, format string, results []qualityResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLAPV\tLAPM\tTENG\tGLVN\tBRIGHTNESS\tCONTRAST\tBLURRY")
	for _, r := range results {
		if r.Report == nil {
			fmt.Fprintf(tw, "%s\terror: %s\n", r.Input, r.Error)
			continue
		}
		q := r.Report
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.3f\t%.3f\t%.2f\t%t\n",
			r.Input, q.VarianceOfLaplacian, q.ModifiedLaplacian, q.Tenengrad,
			q.NormalizedGrayLevelVariance, q.Brightness, q.Contrast, q.Blurry)
	}
	return tw.Flush()
}
