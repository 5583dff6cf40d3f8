// internal/bus/subscriptions_test.go
package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

type subscribeCall struct {
	topic   string
	qos     byte
	handler mqtt.MessageHandler
}

type fakeSubscriber struct {
	mu    sync.Mutex
	calls []subscribeCall
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, subscribeCall{topic: topic, qos: qos, handler: cb})
	return doneToken{}
}

func (f *fakeSubscriber) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.topic
	}
	return out
}

func (f *fakeSubscriber) deliver(t *testing.T, topic string, payload []byte) {
	t.Helper()
	f.mu.Lock()
	var h mqtt.MessageHandler
	for _, c := range f.calls {
		if c.topic == topic {
			h = c.handler
		}
	}
	f.mu.Unlock()
	require.NotNil(t, h, "no subscription for %s", topic)
	h(nil, fakeMessage{topic: topic, payload: payload})
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (fakeMessage) Duplicate() bool   { return false }
func (fakeMessage) Qos() byte         { return 0 }
func (fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string   { return m.topic }
func (fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte { return m.payload }
func (fakeMessage) Ack()              {}

// ---- tests ----

func TestSubscriptions_ReissuedOnEveryConnect(t *testing.T) {
	subs := NewSubscriptions(time.Second, nil)
	noop := func(mqtt.Client, mqtt.Message) {}
	require.NoError(t, subs.Add("robot/vision/front", 0, noop))
	require.NoError(t, subs.Add("robot/enabled", 1, noop))

	cli := &fakeSubscriber{}
	subs.connected(cli)
	assert.True(t, subs.Online())

	subs.lost(errors.New("EOF"))
	assert.False(t, subs.Online())

	// clean session: the broker forgot both topics
	subs.connected(cli)

	assert.Equal(t, []string{
		"robot/vision/front", "robot/enabled",
		"robot/vision/front", "robot/enabled",
	}, cli.topics())
	assert.Equal(t, byte(1), cli.calls[3].qos)
}

func TestSubscriptions_AddWhileConnectedSubscribesNow(t *testing.T) {
	subs := NewSubscriptions(time.Second, nil)
	cli := &fakeSubscriber{}
	subs.connected(cli)

	require.NoError(t, subs.Add("late/topic", 0, func(mqtt.Client, mqtt.Message) {}))

	assert.Equal(t, []string{"late/topic"}, cli.topics())
	assert.Equal(t, []string{"late/topic"}, subs.Topics())
}

func TestSubscriptions_AddValidation(t *testing.T) {
	subs := NewSubscriptions(time.Second, nil)
	assert.Error(t, subs.Add("", 0, func(mqtt.Client, mqtt.Message) {}))
	assert.Error(t, subs.Add("t", 0, nil))
}

func TestSource_ResumesAfterReconnect(t *testing.T) {
	s, _ := newTestSource(t)
	subs := NewSubscriptions(time.Second, nil)
	require.NoError(t, s.Register(subs))

	first := &fakeSubscriber{}
	subs.connected(first)
	first.deliver(t, "vision/cam0", frame(t, Frame{Connected: true}))
	assert.True(t, s.Refresh().Connected)

	subs.lost(errors.New("EOF"))
	assert.False(t, s.Refresh().Connected, "broker down")

	second := &fakeSubscriber{}
	subs.connected(second)
	second.deliver(t, "vision/cam0", frame(t, Frame{
		Connected:    true,
		Observations: []FrameObservation{solve(2.0, "single_tag")},
	}))

	in := s.Refresh()
	assert.True(t, in.Connected)
	assert.Len(t, in.PoseObservations, 1)
}

func TestEnableSwitch_DisabledWhenLinkLost(t *testing.T) {
	e, err := NewEnableSwitch("robot/enabled", nil)
	require.NoError(t, err)
	subs := NewSubscriptions(time.Second, nil)
	require.NoError(t, e.Register(subs))

	cli := &fakeSubscriber{}
	subs.connected(cli)
	cli.deliver(t, "robot/enabled", []byte("1"))
	require.True(t, e.Enabled())

	subs.lost(errors.New("EOF"))
	assert.False(t, e.Enabled())

	// stays disabled across reconnect until the operator enables again
	subs.connected(cli)
	assert.False(t, e.Enabled())
	cli.deliver(t, "robot/enabled", []byte("true"))
	assert.True(t, e.Enabled())
}
