package lut

import (
	"sync"

	"github.com/tamzrod/probe-driver/internal/voltage"
)

// bipolarOffset shifts a signed sample into unsigned space before halving.
const bipolarOffset = 1 << (voltage.Width - 1)

// Linear builds entry[i] = floor(i*max/100).
func Linear(max uint16) PercentTable {
	var t PercentTable
	for i := 0; i < Size; i++ {
		t.Entries[i] = uint16(uint32(i) * uint32(max) / MaxIndex)
	}
	t.Seal()
	return t
}

// FromVoltageRange builds entry[i] = ToDigital(minV + i*(maxV-minV)/100).
// Negative samples saturate to zero. Entry 0 is the off state and is always zero.
func FromVoltageRange(minV, maxV float64) PercentTable {
	r := voltage.Range{Min: minV, Max: maxV}

	var t PercentTable
	for i := 1; i < Size; i++ {
		s := voltage.ToDigital(voltage.IndexToVoltage(i, r))
		if s < 0 {
			s = 0
		}
		t.Entries[i] = uint16(s)
	}
	t.Seal()
	return t
}

// FromBipolarRange builds a table over the full platform range -5..+5 V.
// Samples are offset by half scale and halved, so negative voltages occupy
// 0..16383 and non-negative voltages 16384..32767. The split is not
// symmetric around entry 50 and consumers rely on these exact codes.
func FromBipolarRange() PercentTable {
	var t PercentTable
	for i := 0; i < Size; i++ {
		s := voltage.ToDigital(voltage.IndexToVoltage(i, voltage.Platform))
		t.Entries[i] = uint16((int32(s) + bipolarOffset) >> 1)
	}
	t.Seal()
	return t
}

// ---- PREDEFINED TABLES ----

// Names of the predefined tables.
const (
	TableLinear     = "linear"
	TableBipolar    = "bipolar"
	TableUnipolar5V = "unipolar5v"
)

var (
	predefinedOnce sync.Once
	predefined     map[string]PercentTable
)

// Predefined returns a copy of a named predefined table.
// Tables are built on first use and never mutated afterwards.
func Predefined(name string) (PercentTable, bool) {
	predefinedOnce.Do(func() {
		predefined = map[string]PercentTable{
			TableLinear:     Linear(uint16(voltage.MaxSample)),
			TableBipolar:    FromBipolarRange(),
			TableUnipolar5V: FromVoltageRange(0, voltage.VMax),
		}
	})
	t, ok := predefined[name]
	return t, ok
}
