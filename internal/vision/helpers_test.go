// internal/vision/helpers_test.go
package vision

import (
	"github.com/tamzrod/pose-fusion/internal/geom"
)

// ---- fakes ----

type fakeLayout struct {
	length, width float64
	tags          map[int]geom.Pose3d
}

func (f fakeLayout) TagPose(id int) (geom.Pose3d, bool) {
	p, ok := f.tags[id]
	return p, ok
}
func (f fakeLayout) FieldLength() float64 { return f.length }
func (f fakeLayout) FieldWidth() float64  { return f.width }

func field16x8() fakeLayout {
	return fakeLayout{
		length: 16,
		width:  8,
		tags: map[int]geom.Pose3d{
			1: geom.NewPose3d(15.0, 0.5, 1.4, geom.RotationFromYaw(3.14)),
			2: geom.NewPose3d(0.0, 4.0, 1.4, geom.Identity),
		},
	}
}

// fakeSource replays scripted inputs, repeating the last one.
type fakeSource struct {
	inputs []CameraInput
	calls  int
	panics bool
}

func (f *fakeSource) Refresh() CameraInput {
	f.calls++
	if f.panics {
		panic("camera gone")
	}
	if len(f.inputs) == 0 {
		return CameraInput{}
	}
	i := f.calls - 1
	if i >= len(f.inputs) {
		i = len(f.inputs) - 1
	}
	return f.inputs[i]
}

type fusionCall struct {
	pose      geom.Pose2d
	timestamp float64
	stdDevs   [3]float64
}

type fakeConsumer struct {
	calls []fusionCall
}

func (f *fakeConsumer) Accept(pose geom.Pose2d, timestamp float64, stdDevs [3]float64) {
	f.calls = append(f.calls, fusionCall{pose: pose, timestamp: timestamp, stdDevs: stdDevs})
}

type fakeDiagnostics struct {
	reports []CycleReport
	panics  bool
}

func (f *fakeDiagnostics) Record(r CycleReport) {
	f.reports = append(f.reports, r)
	if f.panics {
		panic("telemetry backend down")
	}
}

// ---- builders ----

func testParams() Params {
	return Params{
		MaxAmbiguity:                0.2,
		MaxZError:                   0.75,
		LinearStdDevBaseline:        0.1,
		AngularStdDevBaseline:       0.3,
		LinearStdDevMegatag2Factor:  0.5,
		AngularStdDevMegatag2Factor: 4.0,
	}
}

// obs builds an in-bounds single-tag observation at (x, y, z).
func obs(x, y, z float64) PoseObservation {
	return PoseObservation{
		Pose:               geom.NewPose3d(x, y, z, geom.Identity),
		Timestamp:          1.5,
		TagCount:           1,
		AverageTagDistance: 2.0,
		Ambiguity:          0.05,
		Type:               SingleTag,
	}
}
