// internal/crc/crc.go
package crc

import (
	snk "github.com/snksoft/crc"
)

// CRC-16/CCITT parameters.
// These values define table integrity and MUST NOT be configurable.
const (
	Poly uint16 = 0x1021
	Init uint16 = 0xFFFF
)

var ccittTable = snk.NewTable(snk.CCITT)

// Update folds one byte into the accumulator, one bit at a time.
// Shift-left, XOR the polynomial when a one falls out of bit 15.
func Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = (crc << 1) ^ Poly
		} else {
			crc <<= 1
		}
	}
	return crc
}

// Compute returns the CRC of a word sequence.
// Each word contributes its high byte, then its low byte, in slice order.
func Compute(words []uint16) uint16 {
	crc := Init
	for _, w := range words {
		crc = Update(crc, byte(w>>8))
		crc = Update(crc, byte(w))
	}
	return crc
}

// Checksum is the table-driven form of the same CRC over a byte frame.
// For big-endian serialized words it equals Compute.
func Checksum(data []byte) uint16 {
	return uint16(ccittTable.CalculateCRC(data))
}
