// Package config holds the explicit configuration object for the page
// scanner and the logger constructors shared by every component.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Config carries every tunable of a pipeline run. It is built once by
// Load (or by hand in tests) and passed down explicitly.
type Config struct {
	// Strategy names the contour ranking strategy: area, minrect or hull.
	Strategy string
	// MinPageFraction is the smallest page area accepted, as a fraction
	// of the image area.
	MinPageFraction float64
	EnvelopeWidth   int
	EnvelopeHeight  int
	Pad             int

	Equalize        bool
	Blend           bool
	ThresholdMethod string
	BlockSize       int
	C               float64
	SauvolaK        float64
	ErodeRadius     int

	// Balance stretches the colour histogram before detection.
	Balance        bool
	BalancePercent float64

	Workers   int
	OutputDir string
	DebugDir  string
	LogLevel  string
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Strategy:        "hull",
		MinPageFraction: 0.5,
		EnvelopeWidth:   640,
		EnvelopeHeight:  480,
		Pad:             15,
		Equalize:        false,
		Blend:           false,
		ThresholdMethod: "gaussian",
		BlockSize:       13,
		C:               4,
		SauvolaK:        0.3,
		ErodeRadius:     0,
		BalancePercent:  0.01,
		Workers:         runtime.NumCPU(),
		LogLevel:        "info",
	}
}

// Load returns the default configuration overridden by PAGESCAN_*
// environment variables. Malformed numeric values are reported rather
// than silently ignored.
func Load() (*Config, error) {
	d := Default()
	c := &Config{
		Strategy:        getEnv("PAGESCAN_STRATEGY", d.Strategy),
		ThresholdMethod: getEnv("PAGESCAN_THRESHOLD", d.ThresholdMethod),
		OutputDir:       getEnv("PAGESCAN_OUTPUT_DIR", d.OutputDir),
		DebugDir:        getEnv("PAGESCAN_DEBUG_DIR", d.DebugDir),
		LogLevel:        getEnv("PAGESCAN_LOG_LEVEL", d.LogLevel),
	}

	var err error
	if c.MinPageFraction, err = getFloat("PAGESCAN_MIN_PAGE_FRACTION", d.MinPageFraction); err != nil {
		return nil, err
	}
	if c.EnvelopeWidth, err = getInt("PAGESCAN_ENVELOPE_WIDTH", d.EnvelopeWidth); err != nil {
		return nil, err
	}
	if c.EnvelopeHeight, err = getInt("PAGESCAN_ENVELOPE_HEIGHT", d.EnvelopeHeight); err != nil {
		return nil, err
	}
	if c.Pad, err = getInt("PAGESCAN_PAD", d.Pad); err != nil {
		return nil, err
	}
	if c.Equalize, err = getBool("PAGESCAN_EQUALIZE", d.Equalize); err != nil {
		return nil, err
	}
	if c.Blend, err = getBool("PAGESCAN_BLEND", d.Blend); err != nil {
		return nil, err
	}
	if c.BlockSize, err = getInt("PAGESCAN_BLOCK_SIZE", d.BlockSize); err != nil {
		return nil, err
	}
	if c.C, err = getFloat("PAGESCAN_C", d.C); err != nil {
		return nil, err
	}
	if c.SauvolaK, err = getFloat("PAGESCAN_SAUVOLA_K", d.SauvolaK); err != nil {
		return nil, err
	}
	if c.ErodeRadius, err = getInt("PAGESCAN_ERODE", d.ErodeRadius); err != nil {
		return nil, err
	}
	if c.Balance, err = getBool("PAGESCAN_BALANCE", d.Balance); err != nil {
		return nil, err
	}
	if c.BalancePercent, err = getFloat("PAGESCAN_BALANCE_PERCENT", d.BalancePercent); err != nil {
		return nil, err
	}
	if c.Workers, err = getInt("PAGESCAN_WORKERS", d.Workers); err != nil {
		return nil, err
	}

	return c, c.Validate()
}

// Validate checks ranges that would otherwise surface as confusing
// failures deep inside a run.
func (c *Config) Validate() error {
	switch {
	case c.MinPageFraction <= 0 || c.MinPageFraction > 1:
		return fmt.Errorf("min page fraction must be in (0,1], got %g", c.MinPageFraction)
	case c.EnvelopeWidth <= 0 || c.EnvelopeHeight <= 0:
		return fmt.Errorf("analysis envelope must be positive, got %dx%d", c.EnvelopeWidth, c.EnvelopeHeight)
	case c.Pad < 0:
		return fmt.Errorf("pad must not be negative, got %d", c.Pad)
	case c.BlockSize < 3 || c.BlockSize%2 == 0:
		return fmt.Errorf("block size must be odd and >= 3, got %d", c.BlockSize)
	case c.ErodeRadius < 0:
		return fmt.Errorf("erode radius must not be negative, got %d", c.ErodeRadius)
	case c.Workers < 1:
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.ThresholdMethod) {
	case "gaussian", "sauvola":
	default:
		return fmt.Errorf("unknown threshold method %q", c.ThresholdMethod)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
