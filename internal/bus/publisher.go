// internal/bus/publisher.go
package bus

import (
	"errors"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/pose-fusion/internal/geom"
)

// publisher is the subset of mqtt.Client used for fusion output.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// FusionPublisher is a vision.Consumer that forwards accepted observations
// to the pose estimator over MQTT. Publishing is fire-and-forget at QoS 0.
type FusionPublisher struct {
	client publisher
	topic  string
	log    *slog.Logger
}

func NewFusionPublisher(c publisher, topic string, log *slog.Logger) (*FusionPublisher, error) {
	if c == nil {
		return nil, errors.New("bus: publisher client required")
	}
	if topic == "" {
		return nil, errors.New("bus: fusion topic required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &FusionPublisher{
		client: c,
		topic:  topic,
		log:    log.With("component", "bus", "topic", topic),
	}, nil
}

func (p *FusionPublisher) Accept(pose geom.Pose2d, timestamp float64, stdDevs [3]float64) {
	b, err := encodeFusion(pose, timestamp, stdDevs)
	if err != nil {
		p.log.Error("encode fusion event", "err", err)
		return
	}
	// the token is not awaited; a lost measurement is superseded next cycle
	p.client.Publish(p.topic, 0, false, b)
}
