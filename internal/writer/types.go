// internal/writer/types.go
package writer

import "github.com/tamzrod/probe-driver/internal/voltage"

// areaHoldingRegisters is the only register area the writer targets.
const areaHoldingRegisters byte = 3

// TargetEndpoint is one downstream DAC-facing register pair.
type TargetEndpoint struct {
	Endpoint string
	UnitID   uint8
	Address  uint16
}

// StatusPlan locates a probe's status block in status memory.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one probe.
type Plan struct {
	UnitID  string
	Targets []TargetEndpoint

	// nil means status is disabled
	Status *StatusPlan
}

// Samples is one tick of output.
type Samples struct {
	Trigger   voltage.Sample
	Intensity voltage.Sample
}

// Registers is the on-wire order: trigger, intensity.
func (s Samples) Registers() []uint16 {
	return []uint16{uint16(s.Trigger), uint16(s.Intensity)}
}

// Writer writes output samples into targets.
type Writer interface {
	Write(s Samples) error
}
