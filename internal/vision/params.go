// internal/vision/params.go
package vision

import "github.com/tamzrod/pose-fusion/internal/config"

// Params are the filter thresholds and std-dev scaling factors.
type Params struct {
	MaxAmbiguity                float64
	MaxZError                   float64
	LinearStdDevBaseline        float64
	AngularStdDevBaseline       float64
	LinearStdDevMegatag2Factor  float64
	AngularStdDevMegatag2Factor float64
	CameraStdDevFactors         []float64
}

// ParamsFromConfig converts the vision config section.
// Assumes config has already passed validation.
func ParamsFromConfig(c config.VisionConfig) Params {
	factors := make([]float64, len(c.CameraStdDevFactors))
	copy(factors, c.CameraStdDevFactors)

	return Params{
		MaxAmbiguity:                c.MaxAmbiguity,
		MaxZError:                   c.MaxZError,
		LinearStdDevBaseline:        c.LinearStdDevBaseline,
		AngularStdDevBaseline:       c.AngularStdDevBaseline,
		LinearStdDevMegatag2Factor:  c.LinearStdDevMegatag2Factor,
		AngularStdDevMegatag2Factor: c.AngularStdDevMegatag2Factor,
		CameraStdDevFactors:         factors,
	}
}
