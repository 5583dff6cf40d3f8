// internal/loop/runner.go
package loop

import (
	"context"
	"time"
)

// Run starts the ticker loop and dispatches one cycle per tick.
// Single goroutine. No overlap. No retries.
// A cycle that overruns the interval makes the ticker drop ticks; it never queues them.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := r.RunOnce()
			if d := r.now().Sub(t.At); d > r.cfg.Interval {
				r.log.Debug("cycle overran interval", "seq", t.Seq, "took", d, "interval", r.cfg.Interval)
			}
		}
	}
}
