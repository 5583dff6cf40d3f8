// internal/bus/client.go
package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	Broker   string // host:port
	ClientID string
	Timeout  time.Duration
}

// Dial connects the shared MQTT client.
// The broker must be reachable at startup; later outages are retried by paho.
// Every registered subscription is issued on the first connect and again on
// each reconnect, so subs should be populated before Dial.
func Dial(cfg Config, subs *Subscriptions, log *slog.Logger) (mqtt.Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("bus: broker required")
	}
	if subs == nil {
		return nil, errors.New("bus: subscriptions required")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "bus", "broker", cfg.Broker)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.Timeout)
	opts.SetMaxReconnectInterval(10 * time.Second)
	// the broker forgets subscriptions; OnConnect re-issues them
	opts.SetCleanSession(true)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Info("mqtt connected", "client_id", cfg.ClientID)
		subs.connected(c)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", "err", err)
		subs.lost(err)
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		log.Info("mqtt reconnecting")
	})

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("bus: connect %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("bus: connect %s: %w", cfg.Broker, err)
	}
	return c, nil
}
