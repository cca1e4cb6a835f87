package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/pagescan/internal/config"
)

// newRootCmd builds the command tree. Flag defaults come from cfg, which
// already carries the PAGESCAN_* environment, so flags override the
// environment and both override the built-in defaults.
func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "pagescan",
		Short: "Find, flatten and binarize document pages in photographs",
		Long: `pagescan finds the outline of a paper page in a photograph, warps it
to an upright rectangle and prepares a black-and-white image for OCR.

Environment variables (PAGESCAN_STRATEGY, PAGESCAN_MIN_PAGE_FRACTION,
PAGESCAN_LOG_LEVEL, ...) set defaults; command-line flags override them.`,
		Version:      Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate("pagescan {{.Version}}\n")

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel,
		"log level (debug, info, warn, error)")

	root.AddCommand(
		newProcessCmd(cfg),
		newQualityCmd(cfg),
		newServeCmd(cfg),
		newVersionCmd(),
	)
	return root
}

// addPipelineFlags registers the detection and preparation settings
// shared by the commands that run the pipeline.
func addPipelineFlags(f *pflag.FlagSet, cfg *config.Config) {
	f.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "contour ranking strategy (hull, area, minrect)")
	f.Float64Var(&cfg.MinPageFraction, "min-page-fraction", cfg.MinPageFraction,
		"smallest page area accepted, as a fraction of the image area")
	f.IntVar(&cfg.EnvelopeWidth, "envelope-width", cfg.EnvelopeWidth, "width of the analysis envelope")
	f.IntVar(&cfg.EnvelopeHeight, "envelope-height", cfg.EnvelopeHeight, "height of the analysis envelope")
	f.IntVar(&cfg.Pad, "pad", cfg.Pad, "black border added around the analysis image")

	f.BoolVar(&cfg.Equalize, "equalize", cfg.Equalize, "equalize the histogram before thresholding")
	f.BoolVar(&cfg.Blend, "blend", cfg.Blend, "blend the binary page 60/40 with the grayscale page")
	f.StringVar(&cfg.ThresholdMethod, "threshold", cfg.ThresholdMethod, "local threshold method (gaussian, sauvola)")
	f.IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "odd neighbourhood size of the local threshold")
	f.Float64Var(&cfg.C, "threshold-c", cfg.C, "constant subtracted from the gaussian local mean")
	f.Float64Var(&cfg.SauvolaK, "sauvola-k", cfg.SauvolaK, "sensitivity of the sauvola threshold")
	f.IntVar(&cfg.ErodeRadius, "erode", cfg.ErodeRadius, "thicken strokes by this many pixels (0 disables)")

	f.BoolVar(&cfg.Balance, "balance", cfg.Balance, "apply simplest color balance before detection")
	f.Float64Var(&cfg.BalancePercent, "balance-percent", cfg.BalancePercent, "percentage clipped by color balance")
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logrus.Logger {
	return config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
}
