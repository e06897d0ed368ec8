package fsm

import (
	"fmt"

	"github.com/tamzrod/probe-driver/internal/probe"
	"github.com/tamzrod/probe-driver/internal/status"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

// rawIndexMask keeps the 7 bits an upstream percent index can carry.
const rawIndexMask = 0x7F

// Machine is one probe instance. The zero value is a machine in Reset.
type Machine struct {
	state   State
	cfg     probe.ProbeConfig
	loaded  bool
	latched bool
	reason  probe.Clause

	// cycles spent in the current Firing or Cooling phase
	elapsed uint32
}

// New returns a machine held in Reset.
func New() *Machine {
	return &Machine{}
}

func (m *Machine) State() State         { return m.state }
func (m *Machine) Latched() bool        { return m.latched }
func (m *Machine) Reason() probe.Clause { return m.reason }

// Config returns the installed config, if any.
func (m *Machine) Config() (probe.ProbeConfig, bool) {
	return m.cfg, m.loaded
}

// StatusWord encodes latch, state, and fault reason.
func (m *Machine) StatusWord() uint16 {
	return status.Word(uint8(m.state), m.latched, uint8(m.reason))
}

// HardReset is the external reset. It is always accepted and is the only
// way out of HardFault.
func (m *Machine) HardReset() {
	*m = Machine{}
}

// ReleaseReset validates cfg and, on success, moves to Ready.
// A failing cfg latches the fault from any state.
func (m *Machine) ReleaseReset(cfg probe.ProbeConfig) error {
	if err := m.admit(cfg); err != nil {
		return err
	}
	m.enter(Ready)
	return nil
}

// LoadConfig validates and installs a replacement cfg.
// A failing cfg latches the fault from any state, Firing and Cooling included.
// An accepted reload during an active cycle returns the machine to Idle.
func (m *Machine) LoadConfig(cfg probe.ProbeConfig) error {
	if err := m.admit(cfg); err != nil {
		return err
	}
	switch m.state {
	case Armed, Firing, Cooling:
		m.enter(Idle)
	}
	return nil
}

// Start arms the probe from Ready or Idle.
func (m *Machine) Start() error {
	switch m.state {
	case HardFault:
		return ErrFaulted
	case Ready, Idle:
		m.enter(Armed)
		return nil
	default:
		return fmt.Errorf("%w: start in %s", ErrNotReady, m.state)
	}
}

// Stop disarms an armed probe.
func (m *Machine) Stop() error {
	switch m.state {
	case HardFault:
		return ErrFaulted
	case Armed:
		m.enter(Idle)
		return nil
	default:
		return fmt.Errorf("%w: stop in %s", ErrNotReady, m.state)
	}
}

// Tick advances one cycle with the current trigger input voltage.
// The owned config is re-validated every cycle; a failure latches the fault.
func (m *Machine) Tick(trigger float64) State {
	if m.state == HardFault || m.state == Reset {
		return m.state
	}
	if clause := probe.Check(&m.cfg); clause != probe.ClauseOK {
		m.fault(clause)
		return m.state
	}

	above := trigger >= m.cfg.TriggerVoltage

	switch m.state {
	case Armed:
		if above {
			m.enter(Firing)
		}
	case Firing:
		m.elapsed++
		if m.elapsed >= m.cfg.DurationMax || (m.elapsed >= m.cfg.DurationMin && !above) {
			m.enter(Cooling)
		}
	case Cooling:
		m.elapsed++
		if m.elapsed >= m.cfg.CooldownMax || (m.elapsed >= m.cfg.CooldownMin && !above) {
			m.enter(Idle)
		}
	}
	return m.state
}

// Intensity returns the intensity output for a raw upstream percent index.
// The table entry is decoded with the config's table encoding and held
// inside the intensity range.
// Outside Firing the output is zero.
func (m *Machine) Intensity(rawIndex uint8) voltage.Sample {
	if m.state != Firing {
		return 0
	}
	entry := m.cfg.Table.LookupSafe(int(rawIndex & rawIndexMask))
	s := m.cfg.TableEncoding.Sample(entry)
	v := voltage.Clamp(voltage.ToVoltage(s), m.cfg.IntensityRange())
	return voltage.ToDigital(v)
}

// TriggerOut returns the trigger output: the configured trigger level while
// Firing, zero otherwise.
func (m *Machine) TriggerOut() voltage.Sample {
	if m.state != Firing {
		return 0
	}
	return voltage.ToDigital(m.cfg.TriggerVoltage)
}

// admit runs the validator for a reset-release or config-load event.
func (m *Machine) admit(cfg probe.ProbeConfig) error {
	if m.state == HardFault {
		return ErrFaulted
	}
	if clause := probe.Check(&cfg); clause != probe.ClauseOK {
		m.fault(clause)
		return fmt.Errorf("%w: %s", ErrInvalidConfig, clause)
	}
	m.cfg = cfg
	m.loaded = true
	return nil
}

func (m *Machine) fault(clause probe.Clause) {
	m.state = HardFault
	m.latched = true
	m.reason = clause
	m.elapsed = 0
}

func (m *Machine) enter(s State) {
	m.state = s
	m.elapsed = 0
}
