package quality

import "image"

// Thresholds below which a photograph counts as blurry.
const (
	MinVarianceOfLaplacian = 70
	MinModifiedLaplacian   = 4
)

// Thresholds holds the blur decision bounds.
type Thresholds struct {
	MinVarianceOfLaplacian float64
	MinModifiedLaplacian   float64
}

// DefaultThresholds returns the standard blur bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinVarianceOfLaplacian: MinVarianceOfLaplacian,
		MinModifiedLaplacian:   MinModifiedLaplacian,
	}
}

// Blurry applies the thresholds to precomputed scores. Both must be low.
func (t Thresholds) Blurry(lapv, lapm float64) bool {
	return lapv < t.MinVarianceOfLaplacian && lapm < t.MinModifiedLaplacian
}

// IsBlurry scores img and applies the thresholds.
func (t Thresholds) IsBlurry(img image.Image) bool {
	return t.Blurry(VarianceOfLaplacian(img), ModifiedLaplacian(img))
}

// IsBlurry reports whether img is blurry under the default thresholds.
func IsBlurry(img image.Image) bool {
	return DefaultThresholds().IsBlurry(img)
}

// Report collects every metric of one image.
type Report struct {
	VarianceOfLaplacian         float64 `json:"variance_of_laplacian"`
	ModifiedLaplacian           float64 `json:"modified_laplacian"`
	Tenengrad                   float64 `json:"tenengrad"`
	NormalizedGrayLevelVariance float64 `json:"normalized_gray_level_variance"`
	Brightness                  float64 `json:"brightness"`
	Contrast                    float64 `json:"contrast"`
	Blurry                      bool    `json:"blurry"`
}

// Assess computes a full Report with the receiver's thresholds.
// Brightness and contrast are normalised to 0..1.
func (t Thresholds) Assess(img image.Image) Report {
	r := Report{
		VarianceOfLaplacian:         VarianceOfLaplacian(img),
		ModifiedLaplacian:           ModifiedLaplacian(img),
		Tenengrad:                   Tenengrad(img, 3),
		NormalizedGrayLevelVariance: NormalizedGrayLevelVariance(img),
		Brightness:                  Brightness(img, true),
	}
	r.Contrast = Contrast(img, r.Brightness, true)
	r.Blurry = t.Blurry(r.VarianceOfLaplacian, r.ModifiedLaplacian)
	return r
}

// Assess computes a full Report with the default thresholds.
func Assess(img image.Image) Report {
	return DefaultThresholds().Assess(img)
}
