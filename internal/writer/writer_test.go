// internal/writer/writer_test.go
package writer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/pose-fusion/internal/config"
	"github.com/tamzrod/pose-fusion/internal/geom"
	"github.com/tamzrod/pose-fusion/internal/status"
	"github.com/tamzrod/pose-fusion/internal/vision"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	mu     sync.Mutex
	writes []writeCall
	fail   error
	block  chan struct{} // when set, writes wait for it to close
}

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	return nil
}

func (f *fakeEndpointClient) last() writeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return writeCall{}
	}
	return f.writes[len(f.writes)-1]
}

// ---- tests ----

func report(connected bool, accepted, rejected int) vision.CycleReport {
	cr := vision.CameraReport{Index: 0, Name: "front", Connected: connected}
	p := geom.NewPose3d(1, 1, 0, geom.Identity)
	for i := 0; i < accepted; i++ {
		cr.RobotPosesAccepted = append(cr.RobotPosesAccepted, p)
	}
	for i := 0; i < rejected; i++ {
		cr.RobotPosesRejected = append(cr.RobotPosesRejected, p)
	}
	return vision.CycleReport{Cameras: []vision.CameraReport{cr}}
}

func TestBuildPlan_SlotPerCamera(t *testing.T) {
	plan, err := BuildPlan(
		cfg.StatusConfig{Endpoint: "plc:502", UnitID: 4, BaseSlot: 10},
		[]cfg.CameraConfig{{Name: "front"}, {Name: "back"}},
	)
	require.NoError(t, err)

	assert.Equal(t, uint8(4), plan.UnitID)
	require.Len(t, plan.Cameras, 2)
	assert.Equal(t, CameraSlot{Index: 1, Name: "back", Slot: 11}, plan.Cameras[1])
}

func TestBuildPlan_RequiresEndpoint(t *testing.T) {
	_, err := BuildPlan(cfg.StatusConfig{}, nil)
	assert.Error(t, err)
}

func TestStatusSink_WritesCountsAtCameraAddress(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := Plan{UnitID: 7, Cameras: []CameraSlot{{Index: 0, Name: "front", Slot: 2}}}

	s, err := New(plan, cli, nil)
	require.NoError(t, err)

	s.Record(report(true, 2, 1))
	s.Close()

	w := cli.last()
	assert.Equal(t, uint8(7), w.unitID)
	assert.Equal(t, uint16(2*status.SlotsPerCamera), w.addr)
	require.Len(t, w.regs, status.SlotsPerCamera)
	assert.Equal(t, status.HealthConnected, w.regs[status.SlotHealthCode])
	assert.Equal(t, uint16(2), w.regs[status.SlotAccepted])
	assert.Equal(t, uint16(1), w.regs[status.SlotRejected])
}

func TestStatusSink_CountsDisconnectedCycles(t *testing.T) {
	cli := &fakeEndpointClient{}
	s, err := New(Plan{Cameras: []CameraSlot{{Index: 0, Name: "front"}}}, cli, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		s.Record(report(false, 0, 0))
	}

	tr := s.writers[0]
	assert.Equal(t, 3, tr.cyclesDisconnected)

	s.Record(report(true, 0, 0))
	assert.Equal(t, 0, tr.cyclesDisconnected)

	s.Close()
	// incremental slots: counter reached 3, then health and counter on recovery
	n := len(cli.writes)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, []uint16{3}, cli.writes[n-3].regs)
	assert.Equal(t, []uint16{status.HealthConnected}, cli.writes[n-2].regs)
	assert.Equal(t, []uint16{0}, cli.writes[n-1].regs)
}

func TestStatusSink_IgnoresUnplannedCameras(t *testing.T) {
	cli := &fakeEndpointClient{}
	s, err := New(Plan{}, cli, nil)
	require.NoError(t, err)

	s.Record(report(true, 1, 0))
	s.Close()

	assert.Empty(t, cli.writes)
}

func TestStatusSink_RecordDoesNotWaitForEndpoint(t *testing.T) {
	cli := &fakeEndpointClient{block: make(chan struct{})}
	s, err := New(Plan{Cameras: []CameraSlot{{Index: 0, Name: "front"}}}, cli, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < QueueDepth+5; i++ {
			s.Record(report(i%2 == 0, 1, 0))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a stalled status endpoint")
	}
	assert.GreaterOrEqual(t, s.Dropped(), uint64(4))

	close(cli.block)
	s.Close()
	assert.NotEmpty(t, cli.writes)
}

func TestStatusSink_RequiresClient(t *testing.T) {
	_, err := New(Plan{}, nil, nil)
	assert.Error(t, err)
}
