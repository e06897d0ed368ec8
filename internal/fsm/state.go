// Package fsm implements the probe state machine with its sticky fault
// latch. A failed validation on reset release or config load latches the
// fault from any state, and only HardReset clears it.
//
// A Machine is owned by one goroutine. It holds no locks.
package fsm

// State is the machine state. Its value is the state code in the status word.
type State uint8

const (
	Reset State = iota
	Ready
	Idle
	Armed
	Firing
	Cooling
	HardFault
)

var stateNames = [...]string{
	Reset:     "reset",
	Ready:     "ready",
	Idle:      "idle",
	Armed:     "armed",
	Firing:    "firing",
	Cooling:   "cooling",
	HardFault: "hard-fault",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
