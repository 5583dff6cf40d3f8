// internal/writer/types.go
package writer

// CameraSlot is one camera's status block inside status memory.
type CameraSlot struct {
	Index int    // camera index in the vision pipeline
	Name  string // packed into the block
	Slot  uint16 // block number; address = Slot * status.SlotsPerCamera
}

// Plan is the fully-built status write plan.
type Plan struct {
	Endpoint string
	UnitID   uint8
	Cameras  []CameraSlot
}

// endpointClient is the exact contract the writers use.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
