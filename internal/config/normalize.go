// internal/config/normalize.go
package config

import "fmt"

// Defaults applied by Normalize when a value is left at zero.
const (
	DefaultLoopIntervalMs  = 20
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMQTTClientID    = "visiond"
	DefaultMQTTTimeoutMs   = 2000
	DefaultStaleAfterMs    = 500
	DefaultModbusTimeoutMs = 1000
	CameraNameMaxChars     = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Loop.IntervalMs == 0 {
		cfg.Loop.IntervalMs = DefaultLoopIntervalMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultMQTTClientID
	}
	if cfg.MQTT.TimeoutMs == 0 {
		cfg.MQTT.TimeoutMs = DefaultMQTTTimeoutMs
	}

	for i := range cfg.Cameras {
		c := &cfg.Cameras[i]

		if c.Name == "" {
			c.Name = fmt.Sprintf("camera%d", i)
		}
		if c.StaleAfterMs == 0 {
			c.StaleAfterMs = DefaultStaleAfterMs
		}

		// Names are packed into 8 status registers:
		// - ASCII already validated
		// - Truncate to max 16 characters
		if len(c.Name) > CameraNameMaxChars {
			c.Name = c.Name[:CameraNameMaxChars]
		}
	}

	if cfg.Arm != nil && cfg.Arm.TimeoutMs == 0 {
		cfg.Arm.TimeoutMs = DefaultModbusTimeoutMs
	}
	if cfg.Status != nil && cfg.Status.TimeoutMs == 0 {
		cfg.Status.TimeoutMs = DefaultModbusTimeoutMs
	}
}
