// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/pose-fusion/internal/status"
)

// StatusWriter is the delivery-only contract for camera status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// cameraStatusWriter writes one camera's status block.
type cameraStatusWriter struct {
	unitID uint8
	slot   CameraSlot
	cli    endpointClient

	needFull bool
	last     status.Snapshot
	name     string
}

func newCameraStatusWriter(unitID uint8, slot CameraSlot, cli endpointClient) *cameraStatusWriter {
	return &cameraStatusWriter{
		unitID:   unitID,
		slot:     slot,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
		name:     slot.Name,
	}
}

// WriteStatus delivers a camera status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *cameraStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.cli == nil {
		return errors.New("status writer: missing client")
	}

	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.unitID, baseAddr, status.Encode(s, sw.name)); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: camera %d full block write failed: %w", sw.slot.Index, err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: only slots that changed
	// ------------------------------------------------------------
	fields := []struct {
		slot uint16
		name string
		cur  *uint16
		want uint16
	}{
		{status.SlotHealthCode, "health", &sw.last.Health, s.Health},
		{status.SlotVisibleTags, "visible_tags", &sw.last.VisibleTags, s.VisibleTags},
		{status.SlotAccepted, "accepted", &sw.last.Accepted, s.Accepted},
		{status.SlotRejected, "rejected", &sw.last.Rejected, s.Rejected},
		{status.SlotCyclesDisconnected, "cycles_disconnected", &sw.last.CyclesDisconnected, s.CyclesDisconnected},
	}

	var errs []string

	for _, f := range fields {
		if *f.cur == f.want {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.unitID, baseAddr+f.slot, []uint16{f.want}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", f.slot, f.name, err))
			continue
		}
		*f.cur = f.want
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *cameraStatusWriter) baseAddr() uint16 {
	// Each camera owns a fixed SlotsPerCamera block.
	return sw.slot.Slot * status.SlotsPerCamera
}
