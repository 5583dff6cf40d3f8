// internal/telemetry/fanout.go
package telemetry

import (
	"log/slog"

	"github.com/tamzrod/pose-fusion/internal/vision"
)

// Fanout hands each report to every sink in order.
// A panicking sink is logged and skipped; the rest still run.
type Fanout struct {
	sinks []vision.DiagnosticsSink
	log   *slog.Logger
}

func NewFanout(log *slog.Logger, sinks ...vision.DiagnosticsSink) *Fanout {
	if log == nil {
		log = slog.Default()
	}
	f := &Fanout{log: log.With("component", "telemetry")}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Record(r vision.CycleReport) {
	for i, s := range f.sinks {
		f.record(i, s, r)
	}
}

func (f *Fanout) record(i int, s vision.DiagnosticsSink, r vision.CycleReport) {
	defer func() {
		if p := recover(); p != nil {
			f.log.Error("diagnostics sink panicked", "sink", i, "cycle", r.Cycle, "panic", p)
		}
	}()
	s.Record(r)
}
