// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/probe-driver/internal/control"
	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/status"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

// sampleWords is the size of one target's output block: trigger, intensity.
const sampleWords = 2

// Validate checks configuration correctness.
// It performs declarative validation only: file structure, addressing, and
// table selection. Probe parameter ranges are the probe validator's job and
// are checked again at every reset release and reload.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	type span struct {
		start uint32
		end   uint32
		unit  string
	}

	if len(cfg.Driver.Probes) == 0 {
		return fmt.Errorf("driver: at least one probe required")
	}

	ids := make(map[string]struct{})

	for _, u := range cfg.Driver.Probes {
		if u.ID == "" {
			return fmt.Errorf("probe: id required")
		}
		if _, dup := ids[u.ID]; dup {
			return fmt.Errorf("probe %q: duplicate id", u.ID)
		}
		ids[u.ID] = struct{}{}

		if u.Source.Endpoint == "" {
			return fmt.Errorf("probe %q: source endpoint required", u.ID)
		}
		if u.Poll.IntervalMs <= 0 {
			return fmt.Errorf("probe %q: poll interval_ms must be > 0", u.ID)
		}
		if u.Source.TimeoutMs < 0 {
			return fmt.Errorf("probe %q: timeout_ms must be >= 0", u.ID)
		}
		if end := uint32(u.Source.ControlAddress) + control.Words - 1; end > 0xFFFF {
			return fmt.Errorf("probe %q: control block runs past address 65535", u.ID)
		}
		if u.Source.TableAddress != nil {
			if end := uint32(*u.Source.TableAddress) + lut.Words - 1; end > 0xFFFF {
				return fmt.Errorf("probe %q: table block runs past address 65535", u.ID)
			}
		}
		if err := validateTable(u.Probe.Table); err != nil {
			return fmt.Errorf("probe %q: %w", u.ID, err)
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(u.Source.DeviceName); i++ {
			if u.Source.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"probe %q: device_name must contain ASCII characters only",
					u.ID,
				)
			}
		}

		for _, t := range u.Targets {
			if t.Endpoint == "" {
				return fmt.Errorf("probe %q: target endpoint required", u.ID)
			}
			switch t.Protocol {
			case "", ProtocolModbus, ProtocolIngest:
			default:
				return fmt.Errorf("probe %q: target %s: unknown protocol %q", u.ID, t.Endpoint, t.Protocol)
			}
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	statusOwner := make(map[uint16]string)

	for _, u := range cfg.Driver.Probes {
		if u.Source.StatusSlot == nil {
			continue
		}
		if cfg.Driver.StatusMemory.Endpoint == "" {
			return fmt.Errorf(
				"probe %q: status_slot is set but status_memory.endpoint is not",
				u.ID,
			)
		}

		slot := *u.Source.StatusSlot
		if end := uint32(slot)*status.SlotsPerDevice + status.SlotsPerDevice - 1; end > 0xFFFF {
			return fmt.Errorf("probe %q: status_slot %d runs past address 65535", u.ID, slot)
		}
		if prev, exists := statusOwner[slot]; exists {
			return fmt.Errorf(
				"status_slot collision: slot=%d used by probes %q and %q",
				slot,
				prev,
				u.ID,
			)
		}
		statusOwner[slot] = u.ID
	}

	// ------------------------------------------------------------
	// OUTPUT GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	// one transport per endpoint
	protocols := make(map[string]string)

	// status blocks occupy status memory alongside any sample targets there
	sm := cfg.Driver.StatusMemory
	for _, u := range cfg.Driver.Probes {
		if u.Source.StatusSlot == nil {
			continue
		}
		start := uint32(*u.Source.StatusSlot) * status.SlotsPerDevice
		key := fmt.Sprintf("%s|%d", sm.Endpoint, sm.UnitID)
		spans[key] = append(spans[key], span{
			start: start,
			end:   start + status.SlotsPerDevice - 1,
			unit:  u.ID + " (status)",
		})
	}

	for _, u := range cfg.Driver.Probes {
		for _, t := range u.Targets {
			start := uint32(t.Address)
			end := start + sampleWords - 1
			if end > 0xFFFF {
				return fmt.Errorf("probe %q: target %s address %d runs past 65535", u.ID, t.Endpoint, t.Address)
			}

			proto := t.Protocol
			if proto == "" {
				proto = ProtocolModbus
			}
			if prev, ok := protocols[t.Endpoint]; ok && prev != proto {
				return fmt.Errorf(
					"endpoint %s: protocol %q conflicts with %q",
					t.Endpoint,
					proto,
					prev,
				)
			}
			protocols[t.Endpoint] = proto

			key := fmt.Sprintf("%s|%d", t.Endpoint, t.UnitID)

			for _, s := range spans[key] {
				// overlap check (inclusive)
				if !(end < s.start || start > s.end) {
					return fmt.Errorf(
						"output overlap: endpoint=%s unit_id=%d range=%d-%d overlaps with probe=%s range=%d-%d",
						t.Endpoint,
						t.UnitID,
						start,
						end,
						s.unit,
						s.start,
						s.end,
					)
				}
			}

			spans[key] = append(spans[key], span{
				start: start,
				end:   end,
				unit:  u.ID,
			})
		}
	}

	return nil
}

func validateTable(t TableFile) error {
	if t.Encoding != "" && t.Kind != TableKindEntries {
		return fmt.Errorf("table: encoding applies to explicit entries only")
	}

	switch t.Kind {
	case TableKindLinear:
		if t.Max > uint16(voltage.MaxSample) {
			return fmt.Errorf("table: linear max %d exceeds %d", t.Max, voltage.MaxSample)
		}
		return nil
	case TableKindBipolar:
		return nil
	case TableKindVoltage:
		if !t.Range.Valid() {
			return fmt.Errorf("table: voltage range %g..%g is not a valid range", t.Range.Min, t.Range.Max)
		}
		return nil
	case TableKindPredefined:
		if _, ok := lut.Predefined(t.Name); !ok {
			return fmt.Errorf("table: unknown predefined table %q", t.Name)
		}
		return nil
	case TableKindEntries:
		if len(t.Entries) != lut.Size {
			return fmt.Errorf("table: got %d entries, want %d", len(t.Entries), lut.Size)
		}
		if _, ok := lut.ParseEncoding(t.Encoding); !ok {
			return fmt.Errorf("table: unknown encoding %q", t.Encoding)
		}
		return nil
	case "":
		return fmt.Errorf("table: kind required")
	default:
		return fmt.Errorf("table: unknown kind %q", t.Kind)
	}
}
