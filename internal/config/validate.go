// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"math"
)

// slotsPerCamera mirrors status.SlotsPerCamera; config must not import status.
const slotsPerCamera = 20

// Arm register block sizes; mirror arm.ModbusIO.
const (
	armSetpointRegs = 2
	armInputRegs    = 8
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	if cfg.Loop.IntervalMs < 0 {
		return fmt.Errorf("loop: interval_ms must be >= 0, got %d", cfg.Loop.IntervalMs)
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", cfg.Log.Format)
	}

	if cfg.Field.LayoutPath == "" {
		return errors.New("field: layout_path is required")
	}

	if err := validateVision(cfg.Vision, len(cfg.Cameras)); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// CAMERAS
	// ------------------------------------------------------------

	if len(cfg.Cameras) == 0 {
		return errors.New("cameras: at least one camera is required")
	}
	if cfg.MQTT.Broker == "" {
		return errors.New("mqtt: broker is required")
	}
	if cfg.MQTT.TimeoutMs < 0 {
		return fmt.Errorf("mqtt: timeout_ms must be >= 0, got %d", cfg.MQTT.TimeoutMs)
	}

	names := make(map[string]int)
	topics := make(map[string]int)
	for i, c := range cfg.Cameras {
		if c.Topic == "" {
			return fmt.Errorf("camera %d: topic is required", i)
		}
		if prev, exists := topics[c.Topic]; exists {
			return fmt.Errorf("camera %d: topic %q already used by camera %d", i, c.Topic, prev)
		}
		topics[c.Topic] = i

		if c.StaleAfterMs < 0 {
			return fmt.Errorf("camera %d: stale_after_ms must be >= 0, got %d", i, c.StaleAfterMs)
		}

		if c.Name == "" {
			continue
		}
		// name sanity (ASCII only); it is packed into the status block
		for j := 0; j < len(c.Name); j++ {
			if c.Name[j] > 0x7F {
				return fmt.Errorf("camera %d: name must contain ASCII characters only", i)
			}
		}
		if prev, exists := names[c.Name]; exists {
			return fmt.Errorf("camera %d: name %q already used by camera %d", i, c.Name, prev)
		}
		names[c.Name] = i
	}

	if cfg.Fusion.Topic == "" {
		return errors.New("fusion: topic is required")
	}
	if _, clash := topics[cfg.Fusion.Topic]; clash {
		return fmt.Errorf("fusion: topic %q collides with a camera topic", cfg.Fusion.Topic)
	}

	// ------------------------------------------------------------
	// ARM (OPT-IN)
	// ------------------------------------------------------------

	if a := cfg.Arm; a != nil {
		if a.Endpoint == "" {
			return errors.New("arm: endpoint is required")
		}
		if a.TimeoutMs < 0 {
			return fmt.Errorf("arm: timeout_ms must be >= 0, got %d", a.TimeoutMs)
		}
		// actuation must be gated by an enable signal
		if cfg.Control.EnabledTopic == "" {
			return errors.New("arm: control.enabled_topic is required when arm is configured")
		}
		// setpoint (2 regs) and inputs (8 regs) must fit the 16-bit register space
		if int(a.SetpointRegister)+armSetpointRegs-1 > math.MaxUint16 {
			return fmt.Errorf("arm: setpoint_register %d must be <= %d", a.SetpointRegister, math.MaxUint16-armSetpointRegs+1)
		}
		if int(a.InputsRegister)+armInputRegs-1 > math.MaxUint16 {
			return fmt.Errorf("arm: inputs_register %d must be <= %d", a.InputsRegister, math.MaxUint16-armInputRegs+1)
		}
		// mode (1 reg) and setpoint (2 regs) live in the same holding table
		mode, sp := int(a.ModeRegister), int(a.SetpointRegister)
		if mode >= sp && mode <= sp+armSetpointRegs-1 {
			return fmt.Errorf(
				"arm: mode_register %d overlaps setpoint_register %d-%d",
				mode,
				sp,
				sp+armSetpointRegs-1,
			)
		}
		if t := a.CommandTopic; t != "" {
			if _, clash := topics[t]; clash || t == cfg.Fusion.Topic || t == cfg.Control.EnabledTopic {
				return fmt.Errorf("arm: command_topic %q collides with another topic", t)
			}
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if s := cfg.Status; s != nil {
		if s.Endpoint == "" {
			return errors.New("status: endpoint is required")
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("status: timeout_ms must be >= 0, got %d", s.TimeoutMs)
		}
		last := (int(s.BaseSlot) + len(cfg.Cameras)) * slotsPerCamera
		if last > math.MaxUint16+1 {
			return fmt.Errorf(
				"status: base_slot %d with %d cameras exceeds the register space",
				s.BaseSlot,
				len(cfg.Cameras),
			)
		}
	}

	if r := cfg.Recorder; r != nil && r.Path == "" {
		return errors.New("recorder: path is required")
	}

	return nil
}

func validateVision(v VisionConfig, cameras int) error {
	if !nonNegative(v.MaxAmbiguity) {
		return fmt.Errorf("vision: max_ambiguity must be >= 0, got %v", v.MaxAmbiguity)
	}
	if !nonNegative(v.MaxZError) {
		return fmt.Errorf("vision: max_z_error must be >= 0, got %v", v.MaxZError)
	}

	// baselines are finite; factors may be +Inf ("never trust")
	if !positive(v.LinearStdDevBaseline) || math.IsInf(v.LinearStdDevBaseline, 0) {
		return fmt.Errorf("vision: linear_std_dev_baseline must be finite and > 0, got %v", v.LinearStdDevBaseline)
	}
	if !positive(v.AngularStdDevBaseline) || math.IsInf(v.AngularStdDevBaseline, 0) {
		return fmt.Errorf("vision: angular_std_dev_baseline must be finite and > 0, got %v", v.AngularStdDevBaseline)
	}
	if !positive(v.LinearStdDevMegatag2Factor) {
		return fmt.Errorf("vision: linear_std_dev_megatag2_factor must be > 0, got %v", v.LinearStdDevMegatag2Factor)
	}
	if !positive(v.AngularStdDevMegatag2Factor) {
		return fmt.Errorf("vision: angular_std_dev_megatag2_factor must be > 0, got %v", v.AngularStdDevMegatag2Factor)
	}

	if len(v.CameraStdDevFactors) > cameras {
		return fmt.Errorf(
			"vision: %d camera_std_dev_factors configured for %d cameras",
			len(v.CameraStdDevFactors),
			cameras,
		)
	}
	for i, f := range v.CameraStdDevFactors {
		if !positive(f) {
			return fmt.Errorf("vision: camera_std_dev_factors[%d] must be > 0, got %v", i, f)
		}
	}

	return nil
}

func nonNegative(v float64) bool { return !math.IsNaN(v) && v >= 0 }
func positive(v float64) bool    { return !math.IsNaN(v) && v > 0 }
