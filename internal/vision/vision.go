// internal/vision/vision.go
package vision

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tamzrod/pose-fusion/internal/loop"
)

// ErrUnknownCamera is returned for a camera index outside the configured set.
var ErrUnknownCamera = errors.New("vision: unknown camera index")

// Camera binds a name to its observation source.
type Camera struct {
	Name   string
	Source Source
}

// Config is the minimal runtime config the pipeline needs.
type Config struct {
	Params Params
	Layout FieldLayout

	Diagnostics DiagnosticsSink // optional
	Logger      *slog.Logger    // optional
}

// camera is the per-camera state record: source, latest input and alert together.
type camera struct {
	index  int
	name   string
	source Source
	input  CameraInput
	alert  Alert
}

// Vision is the per-cycle pose filter and fusion orchestrator.
// Not safe for concurrent use; the control loop owns it.
type Vision struct {
	consumer  Consumer
	diag      DiagnosticsSink
	layout    FieldLayout
	filter    Filter
	estimator Estimator
	cameras   []*camera
	log       *slog.Logger
	cycle     uint64
}

// New builds the pipeline. Camera order defines camera indices.
func New(cfg Config, consumer Consumer, cameras ...Camera) (*Vision, error) {
	if consumer == nil {
		return nil, errors.New("vision: consumer required")
	}
	if cfg.Layout == nil {
		return nil, errors.New("vision: field layout required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	v := &Vision{
		consumer:  consumer,
		diag:      cfg.Diagnostics,
		layout:    cfg.Layout,
		filter:    NewFilter(cfg.Params, cfg.Layout),
		estimator: NewEstimator(cfg.Params),
		log:       log.With("component", "vision"),
	}

	for i, c := range cameras {
		if c.Source == nil {
			return nil, fmt.Errorf("vision: camera %d has no source", i)
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("camera%d", i)
		}
		v.cameras = append(v.cameras, &camera{
			index:  i,
			name:   name,
			source: c.Source,
			alert:  disconnectedAlert(i),
		})
	}

	return v, nil
}

// Periodic runs one cycle. It satisfies loop.Subsystem.
func (v *Vision) Periodic(loop.Tick) {
	v.Update()
}

// Update runs one full cycle: refresh every camera, filter, fuse, then
// hand the report to diagnostics. The report is also returned.
func (v *Vision) Update() CycleReport {
	v.cycle++

	// All inputs are read before any fusion call for this cycle.
	for _, c := range v.cameras {
		c.input = v.refresh(c)
		c.alert.Active = !c.input.Connected
	}

	report := CycleReport{
		Cycle:   v.cycle,
		Cameras: make([]CameraReport, 0, len(v.cameras)),
	}

	for _, c := range v.cameras {
		cr := v.process(c)
		report.Summary.merge(cr.PoseLists)
		report.Cameras = append(report.Cameras, cr)
	}

	v.emit(report)
	return report
}

// refresh reads a camera, containing any panic as a disconnected cycle.
func (v *Vision) refresh(c *camera) (in CameraInput) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("camera refresh panicked", "camera", c.index, "name", c.name, "panic", r)
			in = CameraInput{}
		}
	}()

	in = c.source.Refresh()
	if !in.Connected {
		// a disconnected camera contributes nothing this cycle
		in = CameraInput{LatestTarget: in.LatestTarget}
	}
	return in
}

// process filters and fuses one camera's observations.
func (v *Vision) process(c *camera) (cr CameraReport) {
	cr = CameraReport{
		Index:     c.index,
		Name:      c.name,
		Connected: c.input.Connected,
	}

	defer func() {
		if r := recover(); r != nil {
			v.log.Error("camera processing panicked", "camera", c.index, "name", c.name, "panic", r)
		}
	}()

	// unknown ids are skipped silently
	for _, id := range c.input.TagIDs {
		if p, ok := v.layout.TagPose(id); ok {
			cr.TagPoses = append(cr.TagPoses, p)
		}
	}

	for _, obs := range c.input.PoseObservations {
		res := ObservationResult{
			Observation: obs,
			Reasons:     v.filter.Reasons(obs),
		}

		cr.RobotPoses = append(cr.RobotPoses, obs.Pose)
		if res.Reasons != 0 {
			cr.RobotPosesRejected = append(cr.RobotPosesRejected, obs.Pose)
			cr.Results = append(cr.Results, res)
			continue
		}
		cr.RobotPosesAccepted = append(cr.RobotPosesAccepted, obs.Pose)

		sd, err := v.estimator.StdDevs(obs, c.index)
		if err != nil {
			v.log.Error("std-dev estimate failed", "camera", c.index, "err", err)
			cr.Results = append(cr.Results, res)
			continue
		}

		v.consumer.Accept(obs.Pose.ToPose2d(), obs.Timestamp, sd.Vector())

		res.Fused = true
		res.StdDevs = sd
		cr.Results = append(cr.Results, res)
	}

	return cr
}

// emit hands the report to diagnostics. Diagnostic failures never reach fusion.
func (v *Vision) emit(report CycleReport) {
	if v.diag == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("diagnostics sink panicked", "cycle", report.Cycle, "panic", r)
		}
	}()
	v.diag.Record(report)
}

// TargetBearing returns the horizontal angle (radians) to the best target
// seen by a camera in the latest cycle.
func (v *Vision) TargetBearing(cameraIndex int) (float64, error) {
	if cameraIndex < 0 || cameraIndex >= len(v.cameras) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCamera, cameraIndex)
	}
	return v.cameras[cameraIndex].input.LatestTarget.TX, nil
}

// Alerts returns the current alert state of every camera, by index.
func (v *Vision) Alerts() []Alert {
	out := make([]Alert, len(v.cameras))
	for i, c := range v.cameras {
		out[i] = c.alert
	}
	return out
}

// CameraCount returns the number of configured cameras.
func (v *Vision) CameraCount() int { return len(v.cameras) }
