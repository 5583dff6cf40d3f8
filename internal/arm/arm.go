// internal/arm/arm.go
package arm

import (
	"errors"
	"log/slog"
	"math"

	"github.com/tamzrod/pose-fusion/internal/loop"
)

// DefaultTolerance is the angle window, in degrees, for AtTarget.
const DefaultTolerance = 1.0

// OpenLoopScale maps a [-1, 1] operator stick to output.
const OpenLoopScale = 0.1

// Arm relays operator commands to the arm IO.
// Not safe for concurrent use; the control loop owns it.
type Arm struct {
	io     IO
	inputs Inputs
	log    *slog.Logger

	disconnected bool // alert state
	target       float64
	hasTarget    bool
	reached      bool // at-target already reported for this target

	commands CommandSource // optional
}

func New(io IO, log *slog.Logger) (*Arm, error) {
	if io == nil {
		return nil, errors.New("arm: io required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Arm{io: io, log: log.With("component", "arm")}, nil
}

// SetCommandSource attaches the operator command feed applied by Periodic.
func (a *Arm) SetCommandSource(src CommandSource) { a.commands = src }

// Periodic refreshes inputs, then applies queued operator commands while
// enabled or stops actuation while disabled. It satisfies loop.Subsystem.
func (a *Arm) Periodic(t loop.Tick) {
	err := a.io.UpdateInputs(&a.inputs)
	if err != nil {
		a.inputs.Connected = false
	}
	if !a.inputs.Connected != a.disconnected {
		a.disconnected = !a.inputs.Connected
		if a.disconnected {
			a.log.Error("arm motor disconnected", "err", err)
		} else {
			a.log.Info("arm motor reconnected")
		}
	}

	var cmds []Command
	if a.commands != nil {
		cmds = a.commands.Drain()
	}

	if !t.Enabled {
		// commands issued while disabled are discarded, never replayed on enable
		a.Stop()
		return
	}
	for _, c := range cmds {
		a.Apply(c)
	}

	if a.hasTarget && !a.reached && a.AtTarget(DefaultTolerance) {
		a.reached = true
		a.log.Info("arm at target", "degrees", a.target, "angle", a.inputs.AngleDegrees)
	}
}

// Apply executes one operator command.
func (a *Arm) Apply(c Command) {
	switch c.Kind {
	case CommandStop:
		a.Stop()
	case CommandVoltage:
		a.SetOpenLoopOutput(c.Value)
	case CommandStick:
		a.ScaledOpenLoop(c.Value)
	case CommandAngle:
		a.SetTargetAngle(c.Value)
	default:
		a.log.Warn("unknown arm command", "kind", int(c.Kind))
	}
}

// SetOpenLoopOutput drives the arm at a raw voltage.
func (a *Arm) SetOpenLoopOutput(volts float64) {
	a.hasTarget = false
	if err := a.io.SetOpenLoopVoltage(volts); err != nil {
		a.log.Warn("arm open-loop command failed", "volts", volts, "err", err)
	}
}

// ScaledOpenLoop drives the arm from an operator stick in [-1, 1].
func (a *Arm) ScaledOpenLoop(stick float64) {
	a.SetOpenLoopOutput(stick * OpenLoopScale)
}

// SetTargetAngle commands closed-loop position control.
func (a *Arm) SetTargetAngle(degrees float64) {
	a.target = degrees
	a.hasTarget = true
	a.reached = false
	if err := a.io.SetAngle(degrees); err != nil {
		a.log.Warn("arm angle command failed", "degrees", degrees, "err", err)
	}
}

// CurrentAngle returns the last measured angle in degrees.
func (a *Arm) CurrentAngle() float64 { return a.inputs.AngleDegrees }

// AtTarget reports whether a closed-loop target is set and reached within tolerance degrees.
func (a *Arm) AtTarget(tolerance float64) bool {
	return a.hasTarget && math.Abs(a.inputs.AngleDegrees-a.target) < tolerance
}

// Stop removes all actuation.
func (a *Arm) Stop() {
	a.hasTarget = false
	// a disconnected motor is already reported by the alert
	if err := a.io.Stop(); err != nil && !a.disconnected {
		a.log.Warn("arm stop failed", "err", err)
	}
}

// Inputs returns a copy of the latest inputs.
func (a *Arm) Inputs() Inputs { return a.inputs }

// Disconnected reports the motor alert state.
func (a *Arm) Disconnected() bool { return a.disconnected }
