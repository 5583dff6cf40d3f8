// internal/loop/loop.go
package loop

import (
	"errors"
	"log/slog"
	"time"
)

// Tick is handed to every subsystem once per cycle.
type Tick struct {
	Seq     uint64
	At      time.Time
	Enabled bool // robot enabled by the operator; actuators must stop when false
}

// Subsystem is anything driven by the control loop.
type Subsystem interface {
	Periodic(t Tick)
}

// SubsystemFunc adapts a plain function to Subsystem.
type SubsystemFunc func(t Tick)

func (f SubsystemFunc) Periodic(t Tick) { f(t) }

// Config is the minimal runtime config the runner needs.
type Config struct {
	Interval time.Duration

	// Enabled reports the operator enable state. Nil means always disabled.
	Enabled func() bool

	Logger *slog.Logger // optional
}

// Runner is a dumb, clock-driven dispatcher.
type Runner struct {
	cfg        Config
	subsystems []Subsystem
	seq        uint64
	now        func() time.Time
	log        *slog.Logger
}

// New creates a runner with immutable config.
// Subsystems run in the given order every tick.
func New(cfg Config, subsystems ...Subsystem) (*Runner, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("loop: interval must be > 0")
	}
	if len(subsystems) == 0 {
		return nil, errors.New("loop: at least one subsystem required")
	}
	for _, s := range subsystems {
		if s == nil {
			return nil, errors.New("loop: nil subsystem")
		}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		subsystems: subsystems,
		now:        time.Now,
		log:        log.With("component", "loop"),
	}, nil
}

// RunOnce performs exactly one cycle over every subsystem, synchronously.
func (r *Runner) RunOnce() Tick {
	r.seq++
	t := Tick{
		Seq:     r.seq,
		At:      r.now(),
		Enabled: r.cfg.Enabled != nil && r.cfg.Enabled(),
	}

	for _, s := range r.subsystems {
		s.Periodic(t)
	}
	return t
}
