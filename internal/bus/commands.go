// internal/bus/commands.go
package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tamzrod/pose-fusion/internal/arm"
)

// MaxPendingCommands bounds operator commands buffered between cycles.
const MaxPendingCommands = 16

// ArmCommandMessage is the wire form of an operator arm command (msgpack).
type ArmCommandMessage struct {
	Kind  string  `msgpack:"kind"` // stop | voltage | stick | angle
	Value float64 `msgpack:"value"`
}

func EncodeArmCommand(m ArmCommandMessage) ([]byte, error) {
	return msgpack.Marshal(m)
}

func decodeArmCommand(b []byte) (arm.Command, error) {
	var m ArmCommandMessage
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return arm.Command{}, fmt.Errorf("bus: decode arm command: %w", err)
	}
	kind, ok := arm.ParseCommandKind(m.Kind)
	if !ok {
		return arm.Command{}, fmt.Errorf("bus: unknown arm command %q", m.Kind)
	}
	return arm.Command{Kind: kind, Value: m.Value}, nil
}

// ArmCommands is an arm.CommandSource fed by a control topic.
type ArmCommands struct {
	topic string
	log   *slog.Logger

	mu      sync.Mutex
	pending []arm.Command
}

func NewArmCommands(topic string, log *slog.Logger) (*ArmCommands, error) {
	if topic == "" {
		return nil, errors.New("bus: arm command topic required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ArmCommands{topic: topic, log: log.With("component", "bus", "topic", topic)}, nil
}

// Register subscribes at QoS 1. Commands still queued when the link drops
// are discarded.
func (a *ArmCommands) Register(subs *Subscriptions) error {
	subs.OnLost(func(error) {
		a.mu.Lock()
		a.pending = nil
		a.mu.Unlock()
	})
	return subs.Add(a.topic, 1, func(_ mqtt.Client, m mqtt.Message) {
		a.ingest(m.Payload())
	})
}

func (a *ArmCommands) ingest(payload []byte) {
	c, err := decodeArmCommand(payload)
	if err != nil {
		a.log.Warn("dropping arm command", "err", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) >= MaxPendingCommands {
		a.pending = a.pending[1:]
	}
	a.pending = append(a.pending, c)
}

func (a *ArmCommands) Drain() []arm.Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = nil
	return out
}
