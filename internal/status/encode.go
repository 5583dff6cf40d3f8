// internal/status/encode.go
package status

// Encode converts a Snapshot and name into a full camera status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, name string) []uint16 {
	regs := make([]uint16, SlotsPerCamera)

	regs[SlotHealthCode] = s.Health
	regs[SlotVisibleTags] = s.VisibleTags
	regs[SlotAccepted] = s.Accepted
	regs[SlotRejected] = s.Rejected
	regs[SlotCyclesDisconnected] = s.CyclesDisconnected

	// Slots 5..10 are RESERVED → left as zero

	copy(regs[SlotNameStart:SlotNameEnd+1], EncodeName(name))
	return regs
}

// EncodeName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotNameSlots)

	b := []byte(name)
	if len(b) > NameMaxChars {
		b = b[:NameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < NameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
