// internal/vision/filter_test.go
package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestFilter() Filter {
	return NewFilter(testParams(), field16x8())
}

func TestFilter_ScenarioA_Accepted(t *testing.T) {
	o := obs(5, 4, 0)
	o.Ambiguity = 0.05

	assert.True(t, newTestFilter().Accept(o))
}

func TestFilter_ScenarioB_AmbiguousSingleTagRejected(t *testing.T) {
	o := obs(5, 4, 0)
	o.Ambiguity = 0.25

	f := newTestFilter()
	assert.False(t, f.Accept(o))
	assert.Equal(t, RejectAmbiguous, f.Reasons(o))
}

func TestFilter_ScenarioC_MultiTagIgnoresAmbiguity(t *testing.T) {
	o := obs(5, 4, 0)
	o.TagCount = 2
	o.Ambiguity = 0.9

	assert.True(t, newTestFilter().Accept(o))
}

func TestFilter_AmbiguityBoundaryAccepted(t *testing.T) {
	o := obs(5, 4, 0)
	o.Ambiguity = 0.2 // exactly max

	assert.True(t, newTestFilter().Accept(o))
}

func TestFilter_ZeroTagsAlwaysRejected(t *testing.T) {
	f := newTestFilter()

	for _, amb := range []float64{0, 0.1, 5} {
		for _, x := range []float64{0, 5, 16} {
			o := obs(x, 4, 0)
			o.TagCount = 0
			o.Ambiguity = amb
			assert.False(t, f.Accept(o), "x=%v ambiguity=%v", x, amb)
			assert.NotZero(t, f.Reasons(o)&RejectNoTags)
		}
	}
}

func TestFilter_MultiTagAmbiguityNeverMatters(t *testing.T) {
	f := newTestFilter()

	for _, n := range []int{2, 3, 8} {
		for _, amb := range []float64{0, 0.2, 0.21, 1, 100} {
			o := obs(5, 4, 0)
			o.TagCount = n
			o.Ambiguity = amb
			assert.True(t, f.Accept(o), "tags=%d ambiguity=%v", n, amb)
		}
	}
}

func TestFilter_Height(t *testing.T) {
	f := newTestFilter()

	assert.True(t, f.Accept(obs(5, 4, 0.75)))
	assert.True(t, f.Accept(obs(5, 4, -0.75)))
	assert.False(t, f.Accept(obs(5, 4, 0.76)))
	assert.False(t, f.Accept(obs(5, 4, -0.76)))
}

func TestFilter_FieldBounds(t *testing.T) {
	f := newTestFilter()

	inside := [][2]float64{{0, 0}, {16, 8}, {0, 8}, {16, 0}, {8, 4}}
	for _, p := range inside {
		assert.True(t, f.Accept(obs(p[0], p[1], 0)), "expected accept at %v", p)
	}

	outside := [][2]float64{{-0.01, 4}, {16.01, 4}, {8, -0.01}, {8, 8.01}}
	for _, p := range outside {
		o := obs(p[0], p[1], 0)
		assert.False(t, f.Accept(o), "expected reject at %v", p)
		assert.Equal(t, RejectOutOfField, f.Reasons(o))
	}
}

func TestFilter_ReasonsAreIndependent(t *testing.T) {
	o := obs(-1, 4, 2)
	o.Ambiguity = 0.9

	r := newTestFilter().Reasons(o)

	assert.Equal(t, RejectAmbiguous|RejectHeight|RejectOutOfField, r)
	assert.Equal(t, "ambiguous|height|out_of_field", r.String())
}

func TestFilter_Idempotent(t *testing.T) {
	f := newTestFilter()
	o := obs(5, 4, 0)
	o.Ambiguity = 0.25

	first := f.Reasons(o)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.Reasons(o))
	}
}

func TestRejectReason_StringAccepted(t *testing.T) {
	assert.Equal(t, "accepted", RejectReason(0).String())
}
