// Package ocr prepares a flattened page image for a text recognition
// engine. It does not recognise text itself.
//
// # Pipeline
//
//  1. Grayscale conversion.
//  2. Optional histogram equalization, for pages photographed in poor or
//     uneven light.
//  3. Bilateral smoothing (diameter 7, sigma 75), which removes paper
//     texture while keeping stroke edges sharp.
//  4. Local binarization: an adaptive Gaussian threshold (block 13, C 4) by
//     default, or Sauvola's method.
//  5. Optional erosion, which thickens thin or broken strokes.
//  6. Optional blend of 60% binary with 40% of the grayscale image, which
//     softens speckle noise while keeping the contrast of the text.
//
// Prepare never fails. If any step errors or panics it logs the reason
// and returns an unmodified copy of the input.
package ocr
