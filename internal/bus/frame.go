// internal/bus/frame.go
package bus

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tamzrod/pose-fusion/internal/geom"
	"github.com/tamzrod/pose-fusion/internal/vision"
)

// Frame is one camera coprocessor message (msgpack).
type Frame struct {
	Connected    bool               `msgpack:"connected"`
	TagIDs       []int              `msgpack:"tag_ids"`
	Observations []FrameObservation `msgpack:"observations"`
	Target       FrameTarget        `msgpack:"target"`
	SentAt       float64            `msgpack:"sent_at"` // seconds, coprocessor clock
}

// FrameObservation is a robot pose solve in field coordinates.
type FrameObservation struct {
	Timestamp float64 `msgpack:"timestamp"`

	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`

	// rotation quaternion
	QW float64 `msgpack:"qw"`
	QX float64 `msgpack:"qx"`
	QY float64 `msgpack:"qy"`
	QZ float64 `msgpack:"qz"`

	TagCount           int     `msgpack:"tag_count"`
	AverageTagDistance float64 `msgpack:"avg_tag_distance"`
	Ambiguity          float64 `msgpack:"ambiguity"`
	Type               string  `msgpack:"type"` // single_tag | megatag2
}

type FrameTarget struct {
	TX float64 `msgpack:"tx"`
	TY float64 `msgpack:"ty"`
}

func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("bus: decode frame: %w", err)
	}
	return f, nil
}

func EncodeFrame(f Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

// Observation converts the wire form. Unknown types count as single-tag solves;
// a negative tag count is read as zero so the filter rejects it.
func (o FrameObservation) Observation() vision.PoseObservation {
	typ := vision.SingleTag
	if o.Type == vision.MegaTag2.String() {
		typ = vision.MegaTag2
	}
	tags := o.TagCount
	if tags < 0 {
		tags = 0
	}
	return vision.PoseObservation{
		Pose:               geom.NewPose3d(o.X, o.Y, o.Z, geom.RotationFromQuaternion(o.QW, o.QX, o.QY, o.QZ)),
		Timestamp:          o.Timestamp,
		TagCount:           tags,
		AverageTagDistance: o.AverageTagDistance,
		Ambiguity:          o.Ambiguity,
		Type:               typ,
	}
}

// FusionMessage is the published form of an accepted observation.
type FusionMessage struct {
	X         float64    `msgpack:"x"`
	Y         float64    `msgpack:"y"`
	Heading   float64    `msgpack:"heading"` // radians
	Timestamp float64    `msgpack:"timestamp"`
	StdDevs   [3]float64 `msgpack:"std_devs"`
}

func encodeFusion(pose geom.Pose2d, timestamp float64, stdDevs [3]float64) ([]byte, error) {
	return msgpack.Marshal(FusionMessage{
		X:         pose.X,
		Y:         pose.Y,
		Heading:   pose.Heading,
		Timestamp: timestamp,
		StdDevs:   stdDevs,
	})
}

func DecodeFusion(b []byte) (FusionMessage, error) {
	var m FusionMessage
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return FusionMessage{}, fmt.Errorf("bus: decode fusion: %w", err)
	}
	return m, nil
}
