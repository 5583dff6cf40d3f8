// internal/field/layout_test.go
package field

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `{
  "tags": [
    {"ID": 1, "pose": {"translation": {"x": 15.08, "y": 0.25, "z": 1.36},
      "rotation": {"quaternion": {"W": 0.4539, "X": 0.0, "Y": 0.0, "Z": 0.8910}}}},
    {"ID": 7, "pose": {"translation": {"x": 0.0, "y": 4.0, "z": 1.45},
      "rotation": {"quaternion": {"W": 1.0, "X": 0.0, "Y": 0.0, "Z": 0.0}}}}
  ],
  "field": {"length": 16.54, "width": 8.21}
}`

func TestParse_WPILibJSON(t *testing.T) {
	l, err := Parse([]byte(sampleLayout))
	require.NoError(t, err)

	assert.InDelta(t, 16.54, l.FieldLength(), 1e-12)
	assert.InDelta(t, 8.21, l.FieldWidth(), 1e-12)
	assert.Equal(t, 2, l.TagCount())

	p, ok := l.TagPose(7)
	require.True(t, ok)
	assert.InDelta(t, 4.0, p.Y(), 1e-12)
	assert.InDelta(t, 1.45, p.Z(), 1e-12)

	p1, ok := l.TagPose(1)
	require.True(t, ok)
	// ~126 degrees about Z
	assert.InDelta(t, 2.199, math.Abs(p1.Yaw()), 1e-2)
}

func TestTagPose_UnknownID(t *testing.T) {
	l, err := Parse([]byte(sampleLayout))
	require.NoError(t, err)

	_, ok := l.TagPose(99)
	assert.False(t, ok)
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	doc := `{"tags":[{"ID":3},{"ID":3}],"field":{"length":16,"width":8}}`

	_, err := Parse([]byte(doc))
	assert.ErrorContains(t, err, "duplicate tag id 3")
}

func TestParse_RejectsMissingDimensions(t *testing.T) {
	_, err := Parse([]byte(`{"tags":[]}`))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleLayout), 0o600))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, l.TagCount())
}

func TestLoad_SampleLayout(t *testing.T) {
	l, err := Load(filepath.Join("..", "..", "configs", "field-sample.json"))
	require.NoError(t, err)

	assert.Equal(t, 3, l.TagCount())
	assert.InDelta(t, 16.541, l.FieldLength(), 1e-9)

	p, ok := l.TagPose(7)
	require.True(t, ok)
	assert.InDelta(t, 16.579, p.X(), 1e-9)
	assert.InDelta(t, math.Pi, math.Abs(p.Yaw()), 1e-6)
}
