// internal/vision/filter.go
package vision

import (
	"math"
	"strings"
)

// RejectReason is a set of rules an observation failed.
// Zero means accepted.
type RejectReason uint8

const (
	RejectNoTags     RejectReason = 1 << iota // no supporting tags
	RejectAmbiguous                           // single tag above max ambiguity
	RejectHeight                              // |z| above max z error
	RejectOutOfField                          // x or y outside the field
)

func (r RejectReason) String() string {
	if r == 0 {
		return "accepted"
	}

	var parts []string
	if r&RejectNoTags != 0 {
		parts = append(parts, "no_tags")
	}
	if r&RejectAmbiguous != 0 {
		parts = append(parts, "ambiguous")
	}
	if r&RejectHeight != 0 {
		parts = append(parts, "height")
	}
	if r&RejectOutOfField != 0 {
		parts = append(parts, "out_of_field")
	}
	return strings.Join(parts, "|")
}

// Filter decides whether a pose observation is trusted.
// Stateless; safe to share.
type Filter struct {
	maxAmbiguity float64
	maxZError    float64
	layout       FieldLayout
}

func NewFilter(p Params, layout FieldLayout) Filter {
	return Filter{
		maxAmbiguity: p.MaxAmbiguity,
		maxZError:    p.MaxZError,
		layout:       layout,
	}
}

// Accept reports whether obs passes every rule.
func (f Filter) Accept(obs PoseObservation) bool {
	return f.Reasons(obs) == 0
}

// Reasons evaluates every rule independently and returns the ones that fired.
// Ambiguity only applies to single-tag solves; multi-tag solves are exempt.
func (f Filter) Reasons(obs PoseObservation) RejectReason {
	var r RejectReason

	if obs.TagCount == 0 {
		r |= RejectNoTags
	}
	if obs.TagCount == 1 && obs.Ambiguity > f.maxAmbiguity {
		r |= RejectAmbiguous
	}
	if math.Abs(obs.Pose.Z()) > f.maxZError {
		r |= RejectHeight
	}

	x, y := obs.Pose.X(), obs.Pose.Y()
	if x < 0 || x > f.layout.FieldLength() || y < 0 || y > f.layout.FieldWidth() {
		r |= RejectOutOfField
	}

	return r
}
