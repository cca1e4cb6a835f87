// Package detection locates the outline of a document page in a
// photograph.
//
// The detector works on a reduced copy of the image: it converts to
// grayscale, smooths with a bilateral filter, scales into a fixed
// analysis envelope (640x480 by default) and adds a black border so that a
// page touching the frame still yields a closed outline. Canny edges are
// traced into contours, a RankingStrategy orders the candidates, and the
// first one that simplifies to a convex quadrilateral of sufficient size
// becomes the page.
//
// # Outcomes
//
// DetectPage never fails outward. The Result reports one of:
//
//   - Found: a convex quadrilateral was accepted; Corners are in the
//     coordinates of the input image.
//   - Fallback: no candidate qualified; Corners are the four image corners.
//   - Error: analysis failed or panicked; Corners are the four image
//     corners and Err holds the reason.
//
// Callers that need to tell "no page" from "whole image is the page" must
// look at the Outcome, not the corners.
//
// # Strategies
//
//   - AreaRanking: candidates ordered by enclosed area.
//   - MinRectRanking: ordered by minimum-area rectangle; non-convex
//     candidates are replaced by that rectangle.
//   - HullRanking: non-convex candidates are replaced by their convex
//     hull, then ordered by area. This is the default.
//
// # Thread Safety
//
// A Detector holds only configuration. DetectPage may be called from many
// goroutines at once provided the configured Observer is safe for that.
package detection
