// Package probe holds the probe configuration records and the validator
// that decides whether a record may drive the output stage.
package probe

import (
	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

// ProbeConfig is loaded wholesale and replaced wholesale.
// The intensity table is owned by value.
type ProbeConfig struct {
	TriggerVoltage float64

	// Cycle counts.
	DurationMin uint32
	DurationMax uint32

	IntensityMin float64
	IntensityMax float64

	// Cycle counts.
	CooldownMin uint32
	CooldownMax uint32

	Table lut.PercentTable

	// How Table entries decode to intensity samples.
	TableEncoding lut.Encoding
}

// IntensityRange returns the intensity bounds as a voltage range.
func (c *ProbeConfig) IntensityRange() voltage.Range {
	return voltage.Range{Min: c.IntensityMin, Max: c.IntensityMax}
}

// TriggerConfig describes the trigger input qualification of a probe.
// Intensity bounds are raw 16-bit input codes.
type TriggerConfig struct {
	Threshold    float64
	DurationMin  uint32
	DurationMax  uint32
	IntensityMin uint16
	IntensityMax uint16
}
