// Package lut implements the integrity-checked percent table: 101 entries
// indexed 0..100, guarded by a CRC-16/CCITT and a validity flag.
//
// Reads never fail. An invalid table reads as zero everywhere, and an
// out-of-range index saturates to the nearest end.
package lut

import (
	"github.com/tamzrod/probe-driver/internal/crc"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

// ---- GEOMETRY ----

// Size is the fixed number of entries.
const Size = voltage.MaxIndex + 1

// MaxIndex is the last valid index.
const MaxIndex = voltage.MaxIndex

// PercentTable is a value type. Copying it copies the entries.
type PercentTable struct {
	Entries [Size]uint16
	CRC     uint16
	Valid   bool
	Size    uint8
}

// IsValidIndex reports whether index addresses an entry.
func IsValidIndex(index int) bool {
	return index >= 0 && index <= MaxIndex
}

// LookupSafe returns the entry at index.
// An invalid table yields zero. Indices above 100 read entry 100, below 0 read entry 0.
func (t *PercentTable) LookupSafe(index int) uint16 {
	if !t.Valid {
		return 0
	}
	return t.Entries[voltage.ClampIndex(index)]
}

// Set writes one entry and invalidates the table.
// Out-of-range indices are ignored.
func (t *PercentTable) Set(index int, v uint16) {
	if !IsValidIndex(index) {
		return
	}
	t.Entries[index] = v
	t.Valid = false
}

// Seal recomputes the CRC and declares the size.
// The validity flag is set only if entry 0 holds the zero value.
func (t *PercentTable) Seal() {
	t.Size = Size
	t.CRC = crc.Compute(t.Entries[:])
	t.Valid = t.Entries[0] == 0
}

// Validate checks the content: entry 0 is zero and the stored CRC matches.
// It ignores the validity flag.
func Validate(t *PercentTable) bool {
	return t.Entries[0] == 0 && crc.Compute(t.Entries[:]) == t.CRC
}

// IsValid is Validate plus the validity flag and the declared size.
func IsValid(t *PercentTable) bool {
	return t.Valid && t.Size == Size && Validate(t)
}
