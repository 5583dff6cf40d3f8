// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver for one camera.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health             uint16
	VisibleTags        uint16
	Accepted           uint16
	Rejected           uint16
	CyclesDisconnected uint16
}

// Saturate clamps a count into a register.
func Saturate(n int) uint16 {
	if n < 0 {
		return 0
	}
	if n > CounterMax {
		return CounterMax
	}
	return uint16(n)
}
