// internal/status/encode_test.go
package status

import "testing"

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{
		Health:             HealthDisconnected,
		VisibleTags:        3,
		Accepted:           2,
		Rejected:           1,
		CyclesDisconnected: 9,
	}, "front")

	if len(regs) != SlotsPerCamera {
		t.Fatalf("expected %d regs, got %d", SlotsPerCamera, len(regs))
	}
	want := map[int]uint16{
		SlotHealthCode:         HealthDisconnected,
		SlotVisibleTags:        3,
		SlotAccepted:           2,
		SlotRejected:           1,
		SlotCyclesDisconnected: 9,
	}
	for slot, v := range want {
		if regs[slot] != v {
			t.Fatalf("slot %d: got=%d want=%d", slot, regs[slot], v)
		}
	}
	for slot := SlotReservedStart; slot <= SlotReservedEnd; slot++ {
		if regs[slot] != 0 {
			t.Fatalf("reserved slot %d not zero: %d", slot, regs[slot])
		}
	}
	// "fr" "on" "t\0"
	if regs[SlotNameStart] != 0x6672 || regs[SlotNameStart+1] != 0x6F6E || regs[SlotNameStart+2] != 0x7400 {
		t.Fatalf("unexpected name regs: %#v", regs[SlotNameStart:SlotNameEnd+1])
	}
}

func TestEncodeName_TruncatesAndSanitizes(t *testing.T) {
	regs := EncodeName("ab\x01defghijklmnopqrstuvwxyz")

	if len(regs) != SlotNameSlots {
		t.Fatalf("expected %d regs, got %d", SlotNameSlots, len(regs))
	}
	if regs[1] != uint16('?')<<8|uint16('d') {
		t.Fatalf("control char not sanitized: %#04x", regs[1])
	}
	// 16th char is 'p'
	if regs[7] != uint16('o')<<8|uint16('p') {
		t.Fatalf("expected truncation at 16 chars, got %#04x", regs[7])
	}
}

func TestSaturate(t *testing.T) {
	cases := map[int]uint16{-1: 0, 0: 0, 42: 42, 65535: 65535, 70000: 65535}
	for in, want := range cases {
		if got := Saturate(in); got != want {
			t.Fatalf("Saturate(%d)=%d want %d", in, got, want)
		}
	}
}
