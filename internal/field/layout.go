// internal/field/layout.go
package field

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/pose-fusion/internal/geom"
)

// Layout is the immutable fiducial tag layout of one field.
// It satisfies vision.FieldLayout.
type Layout struct {
	tags   map[int]geom.Pose3d
	length float64
	width  float64
}

// ---- file format (WPILib AprilTag layout JSON) ----

type layoutFile struct {
	Tags  []tagEntry `yaml:"tags"`
	Field struct {
		Length float64 `yaml:"length"`
		Width  float64 `yaml:"width"`
	} `yaml:"field"`
}

type tagEntry struct {
	ID   int `yaml:"ID"`
	Pose struct {
		Translation struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		} `yaml:"translation"`
		Rotation struct {
			Quaternion struct {
				W float64 `yaml:"W"`
				X float64 `yaml:"X"`
				Y float64 `yaml:"Y"`
				Z float64 `yaml:"Z"`
			} `yaml:"quaternion"`
		} `yaml:"rotation"`
	} `yaml:"pose"`
}

// Tag is one entry used to build a Layout in code.
type Tag struct {
	ID   int
	Pose geom.Pose3d
}

// New builds a layout from explicit tags and field bounds.
func New(length, width float64, tags []Tag) (*Layout, error) {
	if length <= 0 || width <= 0 {
		return nil, fmt.Errorf("field: dimensions must be > 0 (length=%v width=%v)", length, width)
	}

	l := &Layout{
		tags:   make(map[int]geom.Pose3d, len(tags)),
		length: length,
		width:  width,
	}
	for _, t := range tags {
		if _, dup := l.tags[t.ID]; dup {
			return nil, fmt.Errorf("field: duplicate tag id %d", t.ID)
		}
		l.tags[t.ID] = t.Pose
	}
	return l, nil
}

// Load reads a layout file from disk.
func Load(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("field: read layout: %w", err)
	}
	return Parse(b)
}

// Parse decodes a WPILib AprilTag layout document.
// JSON is accepted as-is since it is a subset of YAML.
func Parse(b []byte) (*Layout, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("field: empty layout document")
	}

	var f layoutFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("field: decode layout: %w", err)
	}

	tags := make([]Tag, 0, len(f.Tags))
	for _, e := range f.Tags {
		q := e.Pose.Rotation.Quaternion
		tr := e.Pose.Translation
		tags = append(tags, Tag{
			ID:   e.ID,
			Pose: geom.NewPose3d(tr.X, tr.Y, tr.Z, geom.RotationFromQuaternion(q.W, q.X, q.Y, q.Z)),
		})
	}

	return New(f.Field.Length, f.Field.Width, tags)
}

// TagPose returns the pose of a tag, or false if the id is not on this field.
func (l *Layout) TagPose(id int) (geom.Pose3d, bool) {
	p, ok := l.tags[id]
	return p, ok
}

func (l *Layout) FieldLength() float64 { return l.length }
func (l *Layout) FieldWidth() float64  { return l.width }

// TagCount returns the number of known tags.
func (l *Layout) TagCount() int { return len(l.tags) }
