// internal/poller/types.go
package poller

import "time"

// Function codes the poller reads.
const (
	FCHoldingRegisters uint8 = 3
	FCInputRegisters   uint8 = 4
)

// ReadBlock describes one Modbus read geometry.
// Geometry only: no semantics.
type ReadBlock struct {
	FC       uint8
	Address  uint16
	Quantity uint16
}

// BlockResult is the raw result of a single read.
type BlockResult struct {
	FC        uint8
	Address   uint16
	Quantity  uint16
	Registers []uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	Blocks []BlockResult
	Err    error // non-nil means the poll cycle failed
}
