// internal/vision/report.go
package vision

import "github.com/tamzrod/pose-fusion/internal/geom"

// PoseLists are the diagnostic pose lists of one camera, or of all cameras.
// RobotPoses holds accepted and rejected poses in arrival order.
type PoseLists struct {
	TagPoses           []geom.Pose3d
	RobotPoses         []geom.Pose3d
	RobotPosesAccepted []geom.Pose3d
	RobotPosesRejected []geom.Pose3d
}

func (l *PoseLists) merge(o PoseLists) {
	l.TagPoses = append(l.TagPoses, o.TagPoses...)
	l.RobotPoses = append(l.RobotPoses, o.RobotPoses...)
	l.RobotPosesAccepted = append(l.RobotPosesAccepted, o.RobotPosesAccepted...)
	l.RobotPosesRejected = append(l.RobotPosesRejected, o.RobotPosesRejected...)
}

// ObservationResult is the verdict on one observation.
// StdDevs is only set when the observation was fused.
type ObservationResult struct {
	Observation PoseObservation
	Reasons     RejectReason
	Fused       bool
	StdDevs     StdDevs
}

// CameraReport is one camera's share of a cycle.
type CameraReport struct {
	Index     int
	Name      string
	Connected bool
	PoseLists
	Results []ObservationResult
}

// Accepted returns how many observations passed the filter.
func (c CameraReport) Accepted() int { return len(c.RobotPosesAccepted) }

// Rejected returns how many observations failed the filter.
func (c CameraReport) Rejected() int { return len(c.RobotPosesRejected) }

// CycleReport is the complete diagnostic bundle of one cycle.
type CycleReport struct {
	Cycle   uint64
	Cameras []CameraReport
	Summary PoseLists
}
