// internal/control/control.go
package control

import (
	"fmt"

	"github.com/tamzrod/probe-driver/internal/voltage"
)

// Control block layout (holding registers, read every tick).
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// Words is the length of the control block.
const Words = 3

// ---- WORD INDICES ----

// WordCommand holds the command bits.
const WordCommand = 0

// WordPercentIndex holds the raw percent index (0..127 representable).
const WordPercentIndex = 1

// WordTrigger holds the trigger input as a two's-complement sample.
const WordTrigger = 2

// ---- COMMAND BITS ----

const (
	BitStart     = 0
	BitHardReset = 1
	BitReload    = 2
	BitStop      = 3
)

// rawIndexMask keeps the 7 bits the index word carries.
const rawIndexMask = 0x7F

// Frame is one decoded control block.
type Frame struct {
	Command uint16
	Index   uint8
	Trigger voltage.Sample
}

// Decode converts a control block into a Frame.
// No IO. No side effects.
func Decode(regs []uint16) (Frame, error) {
	if len(regs) < Words {
		return Frame{}, fmt.Errorf("control: short block: got %d words, want %d", len(regs), Words)
	}
	return Frame{
		Command: regs[WordCommand],
		Index:   uint8(regs[WordPercentIndex] & rawIndexMask),
		Trigger: voltage.Sample(int16(regs[WordTrigger])),
	}, nil
}

// TriggerVolts returns the trigger input in volts.
func (f Frame) TriggerVolts() float64 {
	return voltage.ToVoltage(f.Trigger)
}

// Edges returns the command bits that rose between prev and cur.
// A bit held high across frames fires once.
func Edges(prev, cur Frame) uint16 {
	return cur.Command &^ prev.Command
}

// Has reports whether bit is set in bits.
func Has(bits uint16, bit uint) bool {
	return bits&(1<<bit) != 0
}
