// internal/config/config.go
package config

type Config struct {
	Loop     LoopConfig      `yaml:"loop"`
	Log      LogConfig       `yaml:"log"`
	Field    FieldConfig     `yaml:"field"`
	Vision   VisionConfig    `yaml:"vision"`
	MQTT     MQTTConfig      `yaml:"mqtt"`
	Cameras  []CameraConfig  `yaml:"cameras"`
	Fusion   FusionConfig    `yaml:"fusion"`
	Control  ControlConfig   `yaml:"control"`
	Arm      *ArmConfig      `yaml:"arm"`      // optional
	Status   *StatusConfig   `yaml:"status"`   // optional
	Recorder *RecorderConfig `yaml:"recorder"` // optional
}

// ---- LOOP ----

type LoopConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ---- FIELD ----

type FieldConfig struct {
	LayoutPath string `yaml:"layout_path"`
}

// ---- VISION ----

// VisionConfig holds the pose filter and std-dev scaling parameters.
// Read-only once loaded.
type VisionConfig struct {
	MaxAmbiguity                float64   `yaml:"max_ambiguity"`
	MaxZError                   float64   `yaml:"max_z_error"`
	LinearStdDevBaseline        float64   `yaml:"linear_std_dev_baseline"`
	AngularStdDevBaseline       float64   `yaml:"angular_std_dev_baseline"`
	LinearStdDevMegatag2Factor  float64   `yaml:"linear_std_dev_megatag2_factor"`
	AngularStdDevMegatag2Factor float64   `yaml:"angular_std_dev_megatag2_factor"` // .inf allowed
	CameraStdDevFactors         []float64 `yaml:"camera_std_dev_factors"`          // indexed by camera
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker    string `yaml:"broker"` // host:port
	ClientID  string `yaml:"client_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- CAMERAS ----

type CameraConfig struct {
	Name         string `yaml:"name"`
	Topic        string `yaml:"topic"`
	StaleAfterMs int    `yaml:"stale_after_ms"`
}

// ---- FUSION ----

type FusionConfig struct {
	Topic string `yaml:"topic"`
}

// ---- CONTROL ----

type ControlConfig struct {
	EnabledTopic string `yaml:"enabled_topic"`
}

// ---- ARM ----

type ArmConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Register map on the motor controller.
	ModeRegister     uint16 `yaml:"mode_register"`     // holding, 1 reg
	SetpointRegister uint16 `yaml:"setpoint_register"` // holding, 2 regs (float32)
	InputsRegister   uint16 `yaml:"inputs_register"`   // input, 8 regs (4x float32)

	// Operator commands (msgpack); optional, the arm only stops without it.
	CommandTopic string `yaml:"command_topic"`
}

// ---- STATUS ----

// StatusConfig enables the per-camera status block (opt-in).
type StatusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- RECORDER ----

type RecorderConfig struct {
	Path string `yaml:"path"`
}
