// internal/bus/publisher_test.go
package bus

import (
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/pose-fusion/internal/geom"
)

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (doneToken) Error() error { return nil }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePublisher struct {
	msgs []published
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.msgs = append(f.msgs, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return doneToken{}
}

func TestFusionPublisher_Accept(t *testing.T) {
	fp := &fakePublisher{}
	p, err := NewFusionPublisher(fp, "robot/vision/fused", nil)
	require.NoError(t, err)

	p.Accept(geom.Pose2d{X: 1.5, Y: 2.5, Heading: 0.25}, 12.75, [3]float64{0.1, 0.1, 0.2})

	require.Len(t, fp.msgs, 1)
	assert.Equal(t, "robot/vision/fused", fp.msgs[0].topic)
	assert.Equal(t, byte(0), fp.msgs[0].qos)

	m, err := DecodeFusion(fp.msgs[0].payload)
	require.NoError(t, err)
	assert.Equal(t, FusionMessage{
		X: 1.5, Y: 2.5, Heading: 0.25,
		Timestamp: 12.75,
		StdDevs:   [3]float64{0.1, 0.1, 0.2},
	}, m)
}

func TestNewFusionPublisher_Validation(t *testing.T) {
	_, err := NewFusionPublisher(nil, "t", nil)
	assert.Error(t, err)
	_, err = NewFusionPublisher(&fakePublisher{}, "", nil)
	assert.Error(t, err)
}
