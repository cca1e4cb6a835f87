// Package imaging provides the pixel-level vision primitives used by the
// page scanner.
//
// The package wraps github.com/disintegration/imaging for resampling,
// blurring, padding and file I/O, and github.com/anthonynsimon/bild for
// histograms, morphology and blending. Operations that neither library
// offers (bilateral filtering, Canny with explicit thresholds, contour
// tracing, perspective resampling) are implemented here on top of them.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Every image returned by
// this package has its bounds anchored at (0,0), whatever the input bounds.
//
// # Ownership
//
// Inputs are never modified. Each operation allocates and returns a new
// image; nothing in this package retains a reference to a caller image
// after returning.
//
// # Single-Channel Data
//
// Grayscale work is done on *image.Gray. Operations that need signed or
// fractional intermediate values (gradients, Laplacians, adaptive means)
// use Plane, a float64 buffer with reflect-101 border handling.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and may be called concurrently on different images.
package imaging
