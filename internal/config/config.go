// internal/config/config.go
package config

import "github.com/tamzrod/probe-driver/internal/voltage"

type Config struct {
	Driver DriverConfig `yaml:"driver"`
}

type DriverConfig struct {
	Probes       []UnitConfig       `yaml:"probes"`
	StatusMemory StatusMemoryConfig `yaml:"status_memory"`
}

// ---- UNIT ----

type UnitConfig struct {
	ID      string         `yaml:"id"`
	Source  SourceConfig   `yaml:"source"`
	Probe   ProbeFile      `yaml:"probe"`
	Targets []TargetConfig `yaml:"targets"`
	Poll    PollConfig     `yaml:"poll"`
}

// ---- SOURCE ----

// SourceConfig is the upstream device holding the control block.
type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	ControlAddress uint16 `yaml:"control_address"`

	// Table upload block (optional, opt-in)
	TableAddress *uint16 `yaml:"table_address"`

	// Status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

// ---- PROBE ----

// ProbeFile is the declarative form of probe.ProbeConfig.
type ProbeFile struct {
	TriggerVoltage float64   `yaml:"trigger_voltage"`
	DurationMin    uint32    `yaml:"duration_min"`
	DurationMax    uint32    `yaml:"duration_max"`
	IntensityMin   float64   `yaml:"intensity_min"`
	IntensityMax   float64   `yaml:"intensity_max"`
	CooldownMin    uint32    `yaml:"cooldown_min"`
	CooldownMax    uint32    `yaml:"cooldown_max"`
	Table          TableFile `yaml:"table"`
}

// Table kinds.
const (
	TableKindLinear     = "linear"
	TableKindVoltage    = "voltage"
	TableKindBipolar    = "bipolar"
	TableKindPredefined = "predefined"
	TableKindEntries    = "entries"
)

// TableFile selects a builder, or carries a pre-built table with its CRC.
type TableFile struct {
	Kind    string        `yaml:"kind"`
	Max     uint16        `yaml:"max"`
	Range   voltage.Range `yaml:"range"`
	Name    string        `yaml:"name"`
	Entries []uint16      `yaml:"entries"`
	CRC     uint16        `yaml:"crc"`

	// Encoding of explicit entries: unipolar (default) or bipolar.
	Encoding string `yaml:"encoding"`
}

// ---- TARGET ----

// Protocols.
const (
	ProtocolModbus = "modbus"
	ProtocolIngest = "ingest"
)

// TargetConfig receives the [trigger, intensity] sample pair every tick.
type TargetConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	Address  uint16 `yaml:"address"`
	Protocol string `yaml:"protocol"`
}

// ---- STATUS MEMORY ----

type StatusMemoryConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}
