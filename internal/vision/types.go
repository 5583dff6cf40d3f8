// internal/vision/types.go
package vision

import "github.com/tamzrod/pose-fusion/internal/geom"

// ObservationType is the method a camera used to solve a robot pose.
type ObservationType int

const (
	// SingleTag covers every classic solve (one or more tags, PnP).
	SingleTag ObservationType = iota
	// MegaTag2 solves use the robot gyro for rotation; weighted separately.
	MegaTag2
)

func (t ObservationType) String() string {
	switch t {
	case SingleTag:
		return "single_tag"
	case MegaTag2:
		return "megatag2"
	default:
		return "unknown"
	}
}

// PoseObservation is one candidate robot pose reported by a camera.
// Immutable value.
type PoseObservation struct {
	Pose               geom.Pose3d
	Timestamp          float64 // capture time, seconds
	TagCount           int
	AverageTagDistance float64 // meters
	Ambiguity          float64
	Type               ObservationType
}

// TargetObservation is the angle to the best target in view, radians.
type TargetObservation struct {
	TX float64 // horizontal
	TY float64 // vertical
}

// CameraInput is the snapshot of one camera for one cycle.
type CameraInput struct {
	Connected        bool
	TagIDs           []int
	PoseObservations []PoseObservation // arrival order
	LatestTarget     TargetObservation
}

// StdDevs is the estimated uncertainty of an accepted observation.
type StdDevs struct {
	Linear  float64 // meters, applied to x and y
	Angular float64 // radians
}

// Vector returns the diagonal handed to the consumer: [linear, linear, angular].
func (s StdDevs) Vector() [3]float64 {
	return [3]float64{s.Linear, s.Linear, s.Angular}
}

// FusionEvent is what an accepted observation becomes. Passed by value.
type FusionEvent struct {
	Pose      geom.Pose2d
	Timestamp float64
	StdDevs   [3]float64
}

// ---- collaborators ----

// Source produces one CameraInput per cycle. Refresh must not block indefinitely;
// an unresponsive camera reports Connected=false.
type Source interface {
	Refresh() CameraInput
}

// FieldLayout is the read-only tag layout of the field.
type FieldLayout interface {
	TagPose(id int) (geom.Pose3d, bool)
	FieldLength() float64
	FieldWidth() float64
}

// Consumer folds accepted observations into the robot pose estimate.
type Consumer interface {
	Accept(pose geom.Pose2d, timestamp float64, stdDevs [3]float64)
}

// ConsumerFunc adapts a plain function to Consumer.
type ConsumerFunc func(pose geom.Pose2d, timestamp float64, stdDevs [3]float64)

func (f ConsumerFunc) Accept(pose geom.Pose2d, timestamp float64, stdDevs [3]float64) {
	f(pose, timestamp, stdDevs)
}

// DiagnosticsSink receives one report per cycle. Write-only.
type DiagnosticsSink interface {
	Record(r CycleReport)
}
