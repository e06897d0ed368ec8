// internal/status/constants.go
package status

// Status word and status block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- STATUS WORD ----

// BitFaultLatch is the fault latch. It is the most significant bit so an
// observer can detect fault dominance without decoding the rest.
const BitFaultLatch = 15

// State code field, bits 14..12.
const (
	StateShift = 12
	StateMask  = 0x7
)

// Fault reason field, bits 3..0. Carries the failing validation clause.
const (
	ReasonShift = 0
	ReasonMask  = 0xF
)

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per probe.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotStatusWord holds the encoded status word.
const SlotStatusWord = 0

// SlotFaultReason holds the clause that latched the fault.
const SlotFaultReason = 1

// SlotSecondsInFault holds the duration (in seconds) the probe has been latched.
const SlotSecondsInFault = 2

// ---- RESERVED RANGE ----

// Slots 3-10 are reserved for future use.
const SlotReservedStart = 3
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// SecondsInFaultMax is where the fault timer saturates.
const SecondsInFaultMax = 0xFFFF
