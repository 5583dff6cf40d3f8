// internal/writer/writer.go
package writer

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tamzrod/pose-fusion/internal/status"
	"github.com/tamzrod/pose-fusion/internal/vision"
)

// QueueDepth bounds cycles waiting for the status endpoint; overflow is dropped.
// Each queued cycle carries full snapshots, so a later one supersedes any dropped.
const QueueDepth = 8

// StatusSink publishes per-camera status blocks from each cycle report.
// It satisfies vision.DiagnosticsSink. Record only builds snapshots and
// enqueues them; a single goroutine owns the endpoint writes.
type StatusSink struct {
	writers map[int]*cameraTrack
	log     *slog.Logger

	queue   chan []pendingWrite
	dropped atomic.Uint64
	wg      sync.WaitGroup
	once    sync.Once
}

// cameraTrack is the sink-owned state of one camera.
type cameraTrack struct {
	index int
	w     StatusWriter

	cyclesDisconnected int  // Record goroutine only
	failing            bool // writer goroutine only
}

type pendingWrite struct {
	track *cameraTrack
	snap  status.Snapshot
}

// New builds a status sink from a plan and a client for plan.Endpoint,
// and starts its writer goroutine. Close stops it.
func New(plan Plan, cli endpointClient, log *slog.Logger) (*StatusSink, error) {
	if cli == nil {
		return nil, errors.New("writer: status client required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &StatusSink{
		writers: make(map[int]*cameraTrack, len(plan.Cameras)),
		log:     log.With("component", "status"),
		queue:   make(chan []pendingWrite, QueueDepth),
	}
	for _, c := range plan.Cameras {
		s.writers[c.Index] = &cameraTrack{
			index: c.Index,
			w:     newCameraStatusWriter(plan.UnitID, c, cli),
		}
	}

	s.wg.Add(1)
	go s.drain()
	return s, nil
}

// Record turns the report into snapshots and enqueues them without blocking.
func (s *StatusSink) Record(r vision.CycleReport) {
	batch := make([]pendingWrite, 0, len(r.Cameras))
	for _, c := range r.Cameras {
		tr, ok := s.writers[c.Index]
		if !ok {
			continue
		}
		batch = append(batch, pendingWrite{track: tr, snap: tr.snapshot(c)})
	}
	if len(batch) == 0 {
		return
	}

	select {
	case s.queue <- batch:
	default:
		if s.dropped.Add(1) == 1 {
			s.log.Warn("status queue full, dropping cycles")
		}
	}
}

// Dropped returns how many cycles were not delivered.
func (s *StatusSink) Dropped() uint64 { return s.dropped.Load() }

// Close delivers queued cycles and stops the writer goroutine.
// Record must not be called after Close.
func (s *StatusSink) Close() {
	s.once.Do(func() { close(s.queue) })
	s.wg.Wait()
}

func (s *StatusSink) drain() {
	defer s.wg.Done()
	for batch := range s.queue {
		for _, p := range batch {
			s.write(p)
		}
	}
}

func (s *StatusSink) write(p pendingWrite) {
	tr := p.track
	if err := tr.w.WriteStatus(p.snap); err != nil {
		// log on the transition only; the loop runs at 50 Hz
		if !tr.failing {
			s.log.Warn("status write failed", "camera", tr.index, "err", err)
		}
		tr.failing = true
		return
	}
	if tr.failing {
		s.log.Info("status write recovered", "camera", tr.index)
	}
	tr.failing = false
}

func (tr *cameraTrack) snapshot(c vision.CameraReport) status.Snapshot {
	snap := status.Snapshot{
		VisibleTags: status.Saturate(len(c.TagPoses)),
		Accepted:    status.Saturate(c.Accepted()),
		Rejected:    status.Saturate(c.Rejected()),
	}

	if c.Connected {
		snap.Health = status.HealthConnected
		tr.cyclesDisconnected = 0
	} else {
		snap.Health = status.HealthDisconnected
		if tr.cyclesDisconnected < status.CounterMax {
			tr.cyclesDisconnected++
		}
	}
	snap.CyclesDisconnected = status.Saturate(tr.cyclesDisconnected)

	return snap
}
