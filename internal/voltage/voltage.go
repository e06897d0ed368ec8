// Package voltage maps real voltages onto fixed-width two's-complement
// samples and percent indices onto arbitrary voltage ranges.
//
// Every conversion saturates. Nothing here returns an error.
package voltage

import "math"

// Reference platform.
const (
	// Width is the sample width in bits.
	Width = 16

	// VMin is the lowest representable voltage.
	VMin = -5.0

	// VMax is the highest representable voltage.
	VMax = 5.0

	// Scale is counts per volt.
	Scale = float64(1<<(Width-1)) / VMax

	// Resolution is volts per count.
	Resolution = VMax / float64(1<<(Width-1))
)

// MaxIndex is the top of the percent index range.
const MaxIndex = 100

// Sample is a DigitalSample: one two's-complement DAC/ADC code.
type Sample int16

const (
	MinSample Sample = math.MinInt16
	MaxSample Sample = math.MaxInt16
)

// Range is a closed voltage interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Platform is the full reference range.
var Platform = Range{Min: VMin, Max: VMax}

// Valid reports whether r is usable for index mapping.
func (r Range) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return false
	}
	return r.Min < r.Max
}

// Contains reports whether v lies within r, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ToDigital converts a voltage to a sample, saturating at both ends.
// NaN converts to zero.
func ToDigital(v float64) Sample {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= VMin:
		return MinSample
	case v >= VMax:
		return MaxSample
	}

	n := math.Round(v * Scale)
	// +VMax rounds to 2^(Width-1), one past the top code.
	if n > float64(MaxSample) {
		return MaxSample
	}
	if n < float64(MinSample) {
		return MinSample
	}
	return Sample(n)
}

// ToVoltage converts a sample back to volts.
func ToVoltage(s Sample) float64 {
	return float64(s) * Resolution
}

// IndexToVoltage maps a percent index onto r.
// Indices outside 0..100 are clamped first.
func IndexToVoltage(index int, r Range) float64 {
	index = ClampIndex(index)
	return r.Min + float64(index)*(r.Max-r.Min)/MaxIndex
}

// VoltageToIndex maps a voltage in r onto 0..100.
// Voltages at or beyond the ends saturate to 0 or 100.
func VoltageToIndex(v float64, r Range) int {
	if !r.Valid() || math.IsNaN(v) || v <= r.Min {
		return 0
	}
	if v >= r.Max {
		return MaxIndex
	}
	return ClampIndex(int(math.Round((v - r.Min) * MaxIndex / (r.Max - r.Min))))
}

// ClampIndex saturates index into 0..100.
func ClampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > MaxIndex {
		return MaxIndex
	}
	return index
}

// Clamp saturates v into r.
func Clamp(v float64, r Range) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
