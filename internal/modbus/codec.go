// internal/modbus/codec.go
package modbus

import "math"

// PackRegisters lays registers out in Modbus memory order (BIG-ENDIAN).
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

// UnpackRegisters is the inverse of PackRegisters. A trailing odd byte is dropped.
func UnpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

// Float32ToRegisters splits an IEEE-754 float32 into two registers, high word first.
func Float32ToRegisters(v float32) [2]uint16 {
	bits := math.Float32bits(v)
	return [2]uint16{uint16(bits >> 16), uint16(bits)}
}

// RegistersToFloat32 joins two registers, high word first.
func RegistersToFloat32(hi, lo uint16) float32 {
	return math.Float32frombits(uint32(hi)<<16 | uint32(lo))
}
