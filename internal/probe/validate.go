package probe

import (
	"math"

	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

// Clause identifies the first validation clause a record failed.
type Clause uint8

const (
	ClauseOK Clause = iota
	ClauseTriggerVoltage
	ClauseIntensityRange
	ClauseIntensityOrder
	ClauseDurationZero
	ClauseDurationOrder
	ClauseCooldownZero
	ClauseCooldownOrder
	ClauseTable
)

var clauseNames = [...]string{
	ClauseOK:             "ok",
	ClauseTriggerVoltage: "trigger voltage out of bounds",
	ClauseIntensityRange: "intensity voltage out of bounds",
	ClauseIntensityOrder: "intensity min above max",
	ClauseDurationZero:   "duration must be > 0",
	ClauseDurationOrder:  "duration min above max",
	ClauseCooldownZero:   "cooldown must be > 0",
	ClauseCooldownOrder:  "cooldown min above max",
	ClauseTable:          "intensity table invalid",
}

func (c Clause) String() string {
	if int(c) < len(clauseNames) {
		return clauseNames[c]
	}
	return "unknown clause"
}

// inBounds reports whether v is a finite voltage on the platform range.
func inBounds(v float64) bool {
	return !math.IsNaN(v) && voltage.Platform.Contains(v)
}

// Check returns the first failing clause, or ClauseOK.
func Check(c *ProbeConfig) Clause {
	if !inBounds(c.TriggerVoltage) {
		return ClauseTriggerVoltage
	}
	if !inBounds(c.IntensityMin) || !inBounds(c.IntensityMax) {
		return ClauseIntensityRange
	}
	if c.IntensityMin > c.IntensityMax {
		return ClauseIntensityOrder
	}
	if c.DurationMin == 0 || c.DurationMax == 0 {
		return ClauseDurationZero
	}
	if c.DurationMin > c.DurationMax {
		return ClauseDurationOrder
	}
	if c.CooldownMin == 0 || c.CooldownMax == 0 {
		return ClauseCooldownZero
	}
	if c.CooldownMin > c.CooldownMax {
		return ClauseCooldownOrder
	}
	if !lut.IsValid(&c.Table) {
		return ClauseTable
	}
	return ClauseOK
}

// IsValid is the pass/fail verdict of Check.
func IsValid(c *ProbeConfig) bool {
	return Check(c) == ClauseOK
}

// CheckTrigger validates a TriggerConfig with the same clause vocabulary.
func CheckTrigger(c *TriggerConfig) Clause {
	if !inBounds(c.Threshold) {
		return ClauseTriggerVoltage
	}
	if c.IntensityMin > c.IntensityMax {
		return ClauseIntensityOrder
	}
	if c.DurationMin == 0 || c.DurationMax == 0 {
		return ClauseDurationZero
	}
	if c.DurationMin > c.DurationMax {
		return ClauseDurationOrder
	}
	return ClauseOK
}
