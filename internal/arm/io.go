// internal/arm/io.go
package arm

// Inputs is the latest hardware state of the arm.
type Inputs struct {
	Connected     bool
	AngleDegrees  float64
	AppliedVolts  float64
	CurrentAmps   float64
	Velocity      float64 // degrees per second
	TargetDegrees float64
}

// IO abstracts the arm motor controller.
// The arm depends on commands only; control runs on the controller.
type IO interface {
	UpdateInputs(in *Inputs) error
	SetOpenLoopVoltage(volts float64) error
	SetAngle(degrees float64) error
	Stop() error
}
