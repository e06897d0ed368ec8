package lut

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamzrod/probe-driver/internal/crc"
)

// Serialized layout, one 16-bit word per slot:
//
//	0        declared size
//	1..101   entries 0..100
//	102      CRC
//	103      validity flag (0 or 1)
const (
	WordSize    = 0
	WordEntries = 1
	WordCRC     = WordEntries + Size
	WordValid   = WordCRC + 1

	// Words is the length of the serialized table.
	Words = WordValid + 1
)

var (
	// ErrShortFrame is returned when a frame holds fewer words than a table.
	ErrShortFrame = errors.New("lut: short table frame")

	// ErrLongFrame is returned when a frame holds more words than a table.
	ErrLongFrame = errors.New("lut: oversized table frame")
)

// Registers serializes the table into Words registers.
func (t *PercentTable) Registers() []uint16 {
	regs := make([]uint16, Words)
	regs[WordSize] = uint16(t.Size)
	copy(regs[WordEntries:WordCRC], t.Entries[:])
	regs[WordCRC] = t.CRC
	if t.Valid {
		regs[WordValid] = 1
	}
	return regs
}

// FromRegisters decodes a table received across a boundary.
// The stored flag is kept only if the CRC recomputed here matches; callers
// still gate use on IsValid.
func FromRegisters(regs []uint16) (PercentTable, error) {
	var t PercentTable
	switch {
	case len(regs) < Words:
		return t, fmt.Errorf("%w: got %d words, want %d", ErrShortFrame, len(regs), Words)
	case len(regs) > Words:
		return t, fmt.Errorf("%w: got %d words, want %d", ErrLongFrame, len(regs), Words)
	}

	if regs[WordSize] > 0xFF {
		t.Size = 0
	} else {
		t.Size = uint8(regs[WordSize])
	}
	copy(t.Entries[:], regs[WordEntries:WordCRC])
	t.CRC = regs[WordCRC]
	t.Valid = regs[WordValid] == 1 && entriesChecksum(&t) == t.CRC

	return t, nil
}

// MarshalBinary encodes the serialized words big-endian.
func (t PercentTable) MarshalBinary() ([]byte, error) {
	regs := t.Registers()
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(out[2*i:], r)
	}
	return out, nil
}

// UnmarshalBinary decodes MarshalBinary output under the same rules as FromRegisters.
func (t *PercentTable) UnmarshalBinary(data []byte) error {
	if len(data)%2 != 0 {
		return fmt.Errorf("lut: odd frame length %d", len(data))
	}
	regs := make([]uint16, len(data)/2)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	decoded, err := FromRegisters(regs)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// entriesChecksum runs the table-driven CRC over the big-endian entry bytes.
// It yields the same value as crc.Compute over the entries.
func entriesChecksum(t *PercentTable) uint16 {
	var buf [2 * Size]byte
	for i, e := range t.Entries {
		binary.BigEndian.PutUint16(buf[2*i:], e)
	}
	return crc.Checksum(buf[:])
}
