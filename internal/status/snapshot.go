package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Word           uint16
	FaultReason    uint16
	SecondsInFault uint16
}
