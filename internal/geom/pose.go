// internal/geom/pose.go
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose2d is a planar robot pose in field coordinates (meters, radians).
type Pose2d struct {
	X       float64
	Y       float64
	Heading float64
}

// Pose3d is a rigid pose in field coordinates.
// Rotation is a unit quaternion.
type Pose3d struct {
	Translation r3.Vec
	Rotation    quat.Number
}

// Identity is the zero rotation.
var Identity = quat.Number{Real: 1}

// NewPose3d builds a pose from a position and a rotation.
// A zero quaternion is replaced by Identity.
func NewPose3d(x, y, z float64, rot quat.Number) Pose3d {
	return Pose3d{
		Translation: r3.Vec{X: x, Y: y, Z: z},
		Rotation:    normalize(rot),
	}
}

// RotationFromQuaternion returns a normalized rotation from w, x, y, z components.
func RotationFromQuaternion(w, x, y, z float64) quat.Number {
	return normalize(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// RotationFromYaw returns a rotation of yaw radians about +Z.
func RotationFromYaw(yaw float64) quat.Number {
	return quat.Number(r3.NewRotation(yaw, r3.Vec{Z: 1}))
}

func (p Pose3d) X() float64 { return p.Translation.X }
func (p Pose3d) Y() float64 { return p.Translation.Y }
func (p Pose3d) Z() float64 { return p.Translation.Z }

// Yaw returns the rotation about +Z in (-pi, pi].
func (p Pose3d) Yaw() float64 {
	q := p.Rotation
	siny := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosy := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	return math.Atan2(siny, cosy)
}

// ToPose2d projects the pose onto the floor plane, dropping Z, roll and pitch.
func (p Pose3d) ToPose2d() Pose2d {
	return Pose2d{
		X:       p.Translation.X,
		Y:       p.Translation.Y,
		Heading: p.Yaw(),
	}
}

// Distance returns the straight-line distance between two poses' origins.
func (p Pose3d) Distance(o Pose3d) float64 {
	return r3.Norm(r3.Sub(p.Translation, o.Translation))
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return Identity
	}
	return quat.Scale(1/n, q)
}
