// internal/bus/enable.go
package bus

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// EnableSwitch tracks the operator enable state published on a control topic.
// It reads disabled until the first message arrives.
type EnableSwitch struct {
	topic   string
	log     *slog.Logger
	enabled atomic.Bool
}

func NewEnableSwitch(topic string, log *slog.Logger) (*EnableSwitch, error) {
	if topic == "" {
		return nil, errors.New("bus: enable topic required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &EnableSwitch{topic: topic, log: log.With("component", "bus", "topic", topic)}, nil
}

// Register subscribes the switch and forces it to disabled whenever the
// broker link drops: a disable sent during an outage would otherwise be lost.
func (e *EnableSwitch) Register(subs *Subscriptions) error {
	subs.OnLost(func(error) { e.disable("broker link lost") })
	// QoS 1: a missed disable must be redelivered
	return subs.Add(e.topic, 1, func(_ mqtt.Client, m mqtt.Message) {
		e.set(m.Payload())
	})
}

func (e *EnableSwitch) disable(why string) {
	if e.enabled.Swap(false) {
		e.log.Warn("robot disabled", "reason", why)
	}
}

func (e *EnableSwitch) set(payload []byte) {
	v := parseEnabled(payload)
	if e.enabled.Swap(v) != v {
		e.log.Info("robot enable changed", "enabled", v)
	}
}

// Enabled satisfies loop.Config.Enabled.
func (e *EnableSwitch) Enabled() bool { return e.enabled.Load() }

func parseEnabled(b []byte) bool {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "1", "true":
		return true
	default:
		return false
	}
}
