// internal/vision/estimator.go
package vision

import (
	"errors"
	"math"
)

// ErrNoTags means the estimator was handed an observation the filter
// would have rejected. It signals a wiring bug, not bad data.
var ErrNoTags = errors.New("vision: std-dev estimate requires tag count > 0")

// Estimator turns solve quality into std-devs.
// Stateless; safe to share.
type Estimator struct {
	p Params
}

func NewEstimator(p Params) Estimator {
	return Estimator{p: p}
}

// StdDevs computes the uncertainty of an accepted observation seen by cameraIndex.
//
//	factor  = averageTagDistance² / tagCount
//	linear  = linearBaseline  * factor [* megatag2 linear]  [* camera factor]
//	angular = angularBaseline * factor [* megatag2 angular] [* camera factor]
func (e Estimator) StdDevs(obs PoseObservation, cameraIndex int) (StdDevs, error) {
	if obs.TagCount <= 0 {
		return StdDevs{}, ErrNoTags
	}

	factor := obs.AverageTagDistance * obs.AverageTagDistance / float64(obs.TagCount)
	linear := e.p.LinearStdDevBaseline * factor
	angular := e.p.AngularStdDevBaseline * factor

	if obs.Type == MegaTag2 {
		linear = scale(linear, e.p.LinearStdDevMegatag2Factor)
		angular = scale(angular, e.p.AngularStdDevMegatag2Factor)
	}

	if cameraIndex >= 0 && cameraIndex < len(e.p.CameraStdDevFactors) {
		f := e.p.CameraStdDevFactors[cameraIndex]
		linear = scale(linear, f)
		angular = scale(angular, f)
	}

	return StdDevs{Linear: linear, Angular: angular}, nil
}

// scale multiplies v by f. An infinite factor always yields +Inf,
// including for v == 0 where plain multiplication gives NaN.
func scale(v, f float64) float64 {
	if math.IsInf(f, 1) {
		return math.Inf(1)
	}
	return v * f
}
