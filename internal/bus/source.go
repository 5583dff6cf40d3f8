// internal/bus/source.go
package bus

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/pose-fusion/internal/vision"
)

// MaxPending bounds observations buffered between refreshes; the oldest are dropped.
const MaxPending = 64

// Source is a vision.Source fed by one camera topic.
// Handlers run on paho goroutines; Refresh runs on the control loop.
type Source struct {
	topic      string
	staleAfter time.Duration
	log        *slog.Logger

	now    func() time.Time
	online func() bool // broker link state

	mu       sync.Mutex
	reported bool // coprocessor's own connected flag
	lastAt   time.Time
	tagIDs   []int
	target   vision.TargetObservation
	pending  []vision.PoseObservation
	dropped  uint64
}

func NewSource(topic string, staleAfter time.Duration, log *slog.Logger) (*Source, error) {
	if topic == "" {
		return nil, errors.New("bus: source topic required")
	}
	if staleAfter <= 0 {
		return nil, errors.New("bus: stale_after must be > 0")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Source{
		topic:      topic,
		staleAfter: staleAfter,
		log:        log.With("component", "bus", "topic", topic),
		now:        time.Now,
		online:     func() bool { return true },
	}, nil
}

// Register adds the camera topic to the shared subscriptions and ties the
// source's link state to the broker connection.
func (s *Source) Register(subs *Subscriptions) error {
	s.mu.Lock()
	s.online = subs.Online
	s.mu.Unlock()
	return subs.Add(s.topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		s.ingest(m.Payload())
	})
}

func (s *Source) ingest(payload []byte) {
	f, err := DecodeFrame(payload)
	if err != nil {
		s.log.Warn("dropping malformed frame", "err", err, "bytes", len(payload))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAt = s.now()
	s.reported = f.Connected
	s.tagIDs = f.TagIDs
	s.target = vision.TargetObservation{TX: f.Target.TX, TY: f.Target.TY}

	if !f.Connected {
		s.pending = s.pending[:0]
		return
	}
	for _, o := range f.Observations {
		s.pending = append(s.pending, o.Observation())
	}
	if over := len(s.pending) - MaxPending; over > 0 {
		s.pending = append(s.pending[:0:0], s.pending[over:]...)
		s.dropped += uint64(over)
	}
}

// Refresh drains the observations received since the previous call.
func (s *Source) Refresh() vision.CameraInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := vision.CameraInput{LatestTarget: s.target}

	fresh := !s.lastAt.IsZero() && s.now().Sub(s.lastAt) <= s.staleAfter
	if !s.online() || !s.reported || !fresh {
		s.pending = nil
		return in
	}

	in.Connected = true
	in.TagIDs = append([]int(nil), s.tagIDs...)
	in.PoseObservations = s.pending
	s.pending = nil
	return in
}

// Dropped returns how many observations overflowed the buffer.
func (s *Source) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
