// Package quality scores how usable a photograph is before it is sent on
// to OCR.
//
// The sharpness measures follow the focus-measure literature:
//
//   - LAPV (Pech 2000): variance of the Laplacian.
//   - LAPM (Nayar 1989): mean absolute modified Laplacian.
//   - TENG (Krotkov 1986): mean squared Sobel gradient magnitude.
//   - GLVN (Santos 1997): gray-level variance normalised by the mean.
//
// All of them work on the grayscale image with reflect-101 borders. A
// photograph is flagged blurry only when both LAPV and LAPM fall below
// their thresholds, which keeps text on plain backgrounds from being
// rejected.
package quality
