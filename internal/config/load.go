// internal/config/load.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// envOverrides are deployment values that may replace what the file says.
type envOverrides struct {
	MQTTBroker   string `env:"VISIOND_MQTT_BROKER"`
	MQTTClientID string `env:"VISIOND_MQTT_CLIENT_ID"`
	LogLevel     string `env:"VISIOND_LOG_LEVEL"`
	RecorderPath string `env:"VISIOND_RECORDER_PATH"`
}

// Load reads a YAML config file and applies environment overrides.
// It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a YAML document and applies environment overrides.
// Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := applyEnv(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyEnv(c *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}

	if o.MQTTBroker != "" {
		c.MQTT.Broker = o.MQTTBroker
	}
	if o.MQTTClientID != "" {
		c.MQTT.ClientID = o.MQTTClientID
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.RecorderPath != "" {
		if c.Recorder == nil {
			c.Recorder = &RecorderConfig{}
		}
		c.Recorder.Path = o.RecorderPath
	}
	return nil
}
