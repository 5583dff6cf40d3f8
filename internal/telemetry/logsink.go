// internal/telemetry/logsink.go
package telemetry

import (
	"context"
	"log/slog"

	"github.com/tamzrod/pose-fusion/internal/vision"
)

// LogSink writes one debug line per camera per cycle and reports
// camera connection changes at warn/info.
type LogSink struct {
	log       *slog.Logger
	connected map[int]bool
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{
		log:       log.With("component", "vision"),
		connected: make(map[int]bool),
	}
}

func (s *LogSink) Record(r vision.CycleReport) {
	for _, c := range r.Cameras {
		prev, seen := s.connected[c.Index]
		s.connected[c.Index] = c.Connected

		switch {
		case !c.Connected && (!seen || prev):
			s.log.Warn("camera disconnected", "camera", c.Index, "name", c.Name, "cycle", r.Cycle)
		case c.Connected && seen && !prev:
			s.log.Info("camera reconnected", "camera", c.Index, "name", c.Name, "cycle", r.Cycle)
		}

		if s.log.Enabled(context.Background(), slog.LevelDebug) {
			s.log.Debug("camera cycle",
				"cycle", r.Cycle,
				"camera", c.Index,
				"connected", c.Connected,
				"tags", len(c.TagPoses),
				"accepted", c.Accepted(),
				"rejected", c.Rejected(),
				"rejections", rejectionSummary(c.Results),
			)
		}
	}

	s.log.Debug("vision cycle",
		"cycle", r.Cycle,
		"tags", len(r.Summary.TagPoses),
		"robot_poses", len(r.Summary.RobotPoses),
		"accepted", len(r.Summary.RobotPosesAccepted),
		"rejected", len(r.Summary.RobotPosesRejected),
	)
}

// rejectionSummary joins the reasons of every rejected observation.
func rejectionSummary(results []vision.ObservationResult) string {
	var all vision.RejectReason
	for _, res := range results {
		all |= res.Reasons
	}
	if all == 0 {
		return ""
	}
	return all.String()
}
