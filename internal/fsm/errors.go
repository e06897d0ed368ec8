package fsm

import "errors"

var (
	// ErrFaulted is returned for every event except HardReset while latched.
	ErrFaulted = errors.New("fsm: fault latched, hard reset required")

	// ErrInvalidConfig is returned when a reset release or config load failed validation.
	ErrInvalidConfig = errors.New("fsm: configuration rejected")

	// ErrNotReady is returned when an event is not enabled in the current state.
	ErrNotReady = errors.New("fsm: event not enabled in current state")
)
