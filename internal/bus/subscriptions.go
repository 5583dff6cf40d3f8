// internal/bus/subscriptions.go
package bus

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// subscriber is the subset of mqtt.Client needed to (re)subscribe.
type subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

type subscription struct {
	topic   string
	qos     byte
	handler mqtt.MessageHandler
}

// Subscriptions is the set of topics this process listens on.
// With a clean session the broker drops them on every disconnect, so they
// are issued again from the client's on-connect handler.
type Subscriptions struct {
	timeout time.Duration
	log     *slog.Logger
	online  atomic.Bool

	mu     sync.Mutex
	subs   []subscription
	onLost []func(error)
	client subscriber // set once connected
}

func NewSubscriptions(timeout time.Duration, log *slog.Logger) *Subscriptions {
	if log == nil {
		log = slog.Default()
	}
	return &Subscriptions{timeout: timeout, log: log.With("component", "bus")}
}

// Add registers a topic. If the link is already up it is subscribed now.
func (s *Subscriptions) Add(topic string, qos byte, h mqtt.MessageHandler) error {
	if topic == "" {
		return errors.New("bus: subscription topic required")
	}
	if h == nil {
		return errors.New("bus: subscription handler required")
	}

	sub := subscription{topic: topic, qos: qos, handler: h}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	c := s.client
	s.mu.Unlock()

	if c != nil && s.online.Load() {
		s.subscribe(c, sub)
	}
	return nil
}

// OnLost registers a hook run when the broker link drops.
func (s *Subscriptions) OnLost(f func(error)) {
	s.mu.Lock()
	s.onLost = append(s.onLost, f)
	s.mu.Unlock()
}

// Online reports whether the broker link is up.
func (s *Subscriptions) Online() bool { return s.online.Load() }

// Topics returns the registered topics in registration order.
func (s *Subscriptions) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.topic
	}
	return out
}

// connected runs on every (re)connect. paho calls it on its own goroutine.
func (s *Subscriptions) connected(c subscriber) {
	s.mu.Lock()
	s.client = c
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	s.online.Store(true)
	for _, sub := range subs {
		s.subscribe(c, sub)
	}
}

func (s *Subscriptions) lost(err error) {
	s.online.Store(false)

	s.mu.Lock()
	hooks := make([]func(error), len(s.onLost))
	copy(hooks, s.onLost)
	s.mu.Unlock()

	for _, f := range hooks {
		f(err)
	}
}

func (s *Subscriptions) subscribe(c subscriber, sub subscription) {
	token := c.Subscribe(sub.topic, sub.qos, sub.handler)
	if !token.WaitTimeout(s.timeout) {
		s.log.Error("mqtt subscribe timed out", "topic", sub.topic)
		return
	}
	if err := token.Error(); err != nil {
		s.log.Error("mqtt subscribe failed", "topic", sub.topic, "err", err)
		return
	}
	s.log.Debug("mqtt subscribed", "topic", sub.topic, "qos", sub.qos)
}
