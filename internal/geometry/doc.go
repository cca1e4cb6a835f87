// Package geometry provides the pure 2-D math used by page detection and
// perspective correction.
//
// Nothing in this package touches pixels. Functions operate on Points in
// image-pixel coordinates, where (0,0) is the top-left corner, X increases
// rightward and Y increases downward. Coordinates are float64 so that
// sub-pixel corner estimates survive rescaling between the analysis
// resolution and the original photograph.
//
// # Corner Convention
//
// A Quad produced by OrderCorners is always ordered top-left, top-right,
// bottom-right, bottom-left. Quads returned by page detection are NOT
// ordered; ordering is derived on demand by the perspective corrector.
//
// # Polygon Operations
//
//   - PolygonArea: absolute shoelace area of a closed polygon
//   - IsConvex: true when every turn has the same orientation
//   - ArcLength: perimeter (closed) or path length (open)
//   - ApproxPolyDP: Douglas-Peucker simplification
//   - ConvexHull: Andrew's monotone chain
//   - MinAreaRect: minimum-area rotated bounding rectangle (rotating calipers)
//   - Homography: planar projective transform from 4 correspondences
package geometry
