package fsm

import (
	"errors"
	"testing"

	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/probe"
	"github.com/tamzrod/probe-driver/internal/status"
	"github.com/tamzrod/probe-driver/internal/voltage"
)

func goodConfig() probe.ProbeConfig {
	return probe.ProbeConfig{
		TriggerVoltage: 2.0,
		DurationMin:    3,
		DurationMax:    6,
		IntensityMin:   0.0,
		IntensityMax:   4.0,
		CooldownMin:    2,
		CooldownMax:    4,
		Table:          lut.FromVoltageRange(0, 5),
	}
}

func badTableConfig() probe.ProbeConfig {
	cfg := goodConfig()
	cfg.Table.CRC ^= 0xFFFF
	return cfg
}

// firing drives a fresh machine into Firing.
func firing(t *testing.T) *Machine {
	t.Helper()
	m := New()
	if err := m.ReleaseReset(goodConfig()); err != nil {
		t.Fatalf("ReleaseReset err=%v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if s := m.Tick(2.5); s != Firing {
		t.Fatalf("expected Firing, got %s", s)
	}
	return m
}

func assertFaulted(t *testing.T, m *Machine) {
	t.Helper()
	if m.State() != HardFault {
		t.Fatalf("expected HardFault, got %s", m.State())
	}
	if !m.Latched() {
		t.Fatalf("fault latch not set")
	}
	if !status.Latched(m.StatusWord()) {
		t.Fatalf("status word %#04x does not show the latch", m.StatusWord())
	}
}

// ---- tests ----

func TestReleaseReset_Valid(t *testing.T) {
	m := New()
	if m.State() != Reset {
		t.Fatalf("new machine should be in Reset, got %s", m.State())
	}
	if err := m.ReleaseReset(goodConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != Ready {
		t.Fatalf("expected Ready, got %s", m.State())
	}
	if m.Latched() {
		t.Fatalf("latch must be clear")
	}
	if _, ok := m.Config(); !ok {
		t.Fatalf("config should be installed")
	}
}

func TestReleaseReset_InvalidLatches(t *testing.T) {
	m := New()
	cfg := goodConfig()
	cfg.DurationMin, cfg.DurationMax = 10, 5

	err := m.ReleaseReset(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	assertFaulted(t, m)
	if m.Reason() != probe.ClauseDurationOrder {
		t.Fatalf("reason: got=%v want=%v", m.Reason(), probe.ClauseDurationOrder)
	}
	if status.Reason(m.StatusWord()) != uint8(probe.ClauseDurationOrder) {
		t.Fatalf("status word reason mismatch: %#04x", m.StatusWord())
	}
}

func TestReloadWhileFiring_InvalidTable(t *testing.T) {
	m := firing(t)

	if err := m.LoadConfig(badTableConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	assertFaulted(t, m)

	// start is rejected
	if err := m.Start(); !errors.Is(err, ErrFaulted) {
		t.Fatalf("start should be rejected with ErrFaulted, got %v", err)
	}
	assertFaulted(t, m)

	// a valid reload and a reset release are rejected too
	if err := m.LoadConfig(goodConfig()); !errors.Is(err, ErrFaulted) {
		t.Fatalf("reload should be rejected with ErrFaulted, got %v", err)
	}
	if err := m.ReleaseReset(goodConfig()); !errors.Is(err, ErrFaulted) {
		t.Fatalf("reset release should be rejected with ErrFaulted, got %v", err)
	}
	for i := 0; i < 10; i++ {
		m.Tick(0)
	}
	assertFaulted(t, m)

	// only the hard reset returns to Reset
	m.HardReset()
	if m.State() != Reset {
		t.Fatalf("expected Reset after hard reset, got %s", m.State())
	}
	if m.Latched() || status.Latched(m.StatusWord()) {
		t.Fatalf("hard reset must clear the latch")
	}
	if _, ok := m.Config(); ok {
		t.Fatalf("hard reset must drop the config")
	}
}

func TestReloadWhileCooling_InvalidLatches(t *testing.T) {
	m := firing(t)
	for i := 0; i < 6 && m.State() == Firing; i++ {
		m.Tick(0)
	}
	if m.State() != Cooling {
		t.Fatalf("expected Cooling, got %s", m.State())
	}
	cfg := goodConfig()
	cfg.CooldownMin = 0
	_ = m.LoadConfig(cfg)
	assertFaulted(t, m)
}

func TestReload_ValidReturnsToIdle(t *testing.T) {
	m := firing(t)
	if err := m.LoadConfig(goodConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != Idle {
		t.Fatalf("expected Idle, got %s", m.State())
	}

	m2 := New()
	_ = m2.ReleaseReset(goodConfig())
	if err := m2.LoadConfig(goodConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m2.State() != Ready {
		t.Fatalf("reload in Ready should stay Ready, got %s", m2.State())
	}
}

func TestRuntimeSafetyCheck(t *testing.T) {
	m := firing(t)

	// simulate in-place corruption of the owned table
	m.cfg.Table.Entries[40]++

	if s := m.Tick(2.5); s != HardFault {
		t.Fatalf("expected HardFault after corruption, got %s", s)
	}
	assertFaulted(t, m)
	if m.Reason() != probe.ClauseTable {
		t.Fatalf("reason: got=%v want=%v", m.Reason(), probe.ClauseTable)
	}
}

func TestCycle(t *testing.T) {
	m := New()
	_ = m.ReleaseReset(goodConfig())

	if err := m.Stop(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("stop in Ready: expected ErrNotReady, got %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if err := m.Start(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("second start: expected ErrNotReady, got %v", err)
	}

	// below threshold stays armed
	if s := m.Tick(1.9); s != Armed {
		t.Fatalf("expected Armed, got %s", s)
	}
	if s := m.Tick(2.0); s != Firing {
		t.Fatalf("expected Firing at threshold, got %s", s)
	}

	// trigger released early: held for DurationMin
	for i := 1; i < 3; i++ {
		if s := m.Tick(0); s != Firing {
			t.Fatalf("tick %d: expected Firing until DurationMin, got %s", i, s)
		}
	}
	if s := m.Tick(0); s != Cooling {
		t.Fatalf("expected Cooling after DurationMin, got %s", s)
	}

	// trigger held: cooling runs to CooldownMax
	for i := 1; i < 4; i++ {
		if s := m.Tick(3); s != Cooling {
			t.Fatalf("tick %d: expected Cooling, got %s", i, s)
		}
	}
	if s := m.Tick(3); s != Idle {
		t.Fatalf("expected Idle after CooldownMax, got %s", s)
	}

	if err := m.Start(); err != nil {
		t.Fatalf("restart from Idle err=%v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop err=%v", err)
	}
	if m.State() != Idle {
		t.Fatalf("expected Idle after stop, got %s", m.State())
	}
}

func TestFiringCappedAtDurationMax(t *testing.T) {
	m := firing(t)
	for i := 1; i < 6; i++ {
		if s := m.Tick(5); s != Firing {
			t.Fatalf("tick %d: expected Firing, got %s", i, s)
		}
	}
	if s := m.Tick(5); s != Cooling {
		t.Fatalf("expected Cooling at DurationMax, got %s", s)
	}
}

func TestOutputs(t *testing.T) {
	m := New()
	_ = m.ReleaseReset(goodConfig())
	if m.Intensity(100) != 0 || m.TriggerOut() != 0 {
		t.Fatalf("outputs must be zero outside Firing")
	}

	m = firing(t)
	if got, want := m.TriggerOut(), voltage.ToDigital(2.0); got != want {
		t.Fatalf("trigger out: got=%d want=%d", got, want)
	}

	// index 50 of a 0..5V table is 2.5V, inside 0..4V
	if got, want := m.Intensity(50), voltage.ToDigital(2.5); got != want {
		t.Fatalf("intensity(50): got=%d want=%d", got, want)
	}
	// index 100 is 5V, held at IntensityMax
	if got, want := m.Intensity(100), voltage.ToDigital(4.0); got != want {
		t.Fatalf("intensity(100): got=%d want=%d", got, want)
	}
	// raw indices saturate: 127 reads index 100
	if m.Intensity(127) != m.Intensity(100) {
		t.Fatalf("raw index 127 should read as 100")
	}
	// the top bit is not part of the index
	if m.Intensity(0x80|50) != m.Intensity(50) {
		t.Fatalf("raw index must be masked to 7 bits")
	}
}

func TestStatusWordStateCode(t *testing.T) {
	m := firing(t)
	w := m.StatusWord()
	if status.Latched(w) {
		t.Fatalf("latch must be clear while firing")
	}
	if State(status.StateCode(w)) != Firing {
		t.Fatalf("state code: got=%d want=%d", status.StateCode(w), Firing)
	}
}

func TestIntensity_BipolarTable(t *testing.T) {
	cfg := goodConfig()
	cfg.IntensityMin = voltage.VMin
	cfg.IntensityMax = voltage.VMax
	cfg.Table = lut.FromBipolarRange()
	cfg.TableEncoding = lut.EncodingBipolar

	m := New()
	if err := m.ReleaseReset(cfg); err != nil {
		t.Fatalf("ReleaseReset err=%v", err)
	}
	_ = m.Start()
	if s := m.Tick(2.5); s != Firing {
		t.Fatalf("expected Firing, got %s", s)
	}

	testCases := []struct {
		index uint8
		volts float64
	}{
		{0, -5.0},
		{25, -2.5},
		{50, 0.0},
		{75, 2.5},
		{100, 5.0},
	}

	for _, tc := range testCases {
		got := voltage.ToVoltage(m.Intensity(tc.index))
		if d := got - tc.volts; d > 0.001 || d < -0.001 {
			t.Fatalf("intensity(%d): got=%.4fV want=%.4fV", tc.index, got, tc.volts)
		}
	}
}

func TestIntensity_UnipolarNeverFlipsSign(t *testing.T) {
	cfg := goodConfig()
	cfg.IntensityMin = voltage.VMin
	cfg.IntensityMax = voltage.VMax
	cfg.Table = lut.Linear(65535)

	m := New()
	if err := m.ReleaseReset(cfg); err != nil {
		t.Fatalf("ReleaseReset err=%v", err)
	}
	_ = m.Start()
	m.Tick(2.5)

	prev := m.Intensity(0)
	for i := uint8(1); i <= 100; i++ {
		got := m.Intensity(i)
		if got < prev {
			t.Fatalf("intensity(%d)=%d dropped below intensity(%d)=%d", i, got, i-1, prev)
		}
		prev = got
	}
	if prev != voltage.MaxSample {
		t.Fatalf("intensity(100): got=%d want=%d", prev, voltage.MaxSample)
	}
}
