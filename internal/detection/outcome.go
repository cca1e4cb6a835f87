package detection

import (
	"fmt"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// Outcome classifies how a page detection ended.
type Outcome int

const (
	Found Outcome = iota
	Fallback
	Error
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Fallback:
		return "fallback"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the answer of DetectPage.
type Result struct {
	// Corners are in input image coordinates. For Found they are in the
	// order produced by the contour walk; pass them through
	// geometry.OrderCorners before warping. For Fallback and Error they
	// are (0,0), (W,0), (0,H), (W,H).
	Corners geometry.Quad `json:"corners"`

	Outcome Outcome `json:"outcome"`

	// Err is set only for Outcome Error.
	Err error `json:"-"`

	// Strategy names the ranking strategy that produced the result.
	Strategy string `json:"strategy"`
}

// Points returns the corners as a slice.
func (r Result) Points() []geometry.Point { return r.Corners.Points() }
