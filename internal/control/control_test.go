package control

import (
	"testing"

	"github.com/tamzrod/probe-driver/internal/voltage"
)

func TestDecode(t *testing.T) {
	f, err := Decode([]uint16{1 << BitStart, 0xFF, 0xC000})
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if !Has(f.Command, BitStart) || Has(f.Command, BitHardReset) {
		t.Fatalf("command bits: %#04x", f.Command)
	}
	if f.Index != 127 {
		t.Fatalf("index must be masked to 7 bits: got=%d", f.Index)
	}
	if f.Trigger != -16384 {
		t.Fatalf("trigger sample: got=%d want=-16384", f.Trigger)
	}
	if f.TriggerVolts() != -2.5 {
		t.Fatalf("trigger volts: got=%g want=-2.5", f.TriggerVolts())
	}
}

func TestDecode_Short(t *testing.T) {
	if _, err := Decode([]uint16{0, 0}); err == nil {
		t.Fatalf("expected error for short block")
	}
}

func TestEdges(t *testing.T) {
	prev := Frame{Command: 1<<BitStart | 1<<BitReload}
	cur := Frame{Command: 1<<BitStart | 1<<BitHardReset}

	e := Edges(prev, cur)
	if Has(e, BitStart) {
		t.Fatalf("held start bit must not fire again")
	}
	if !Has(e, BitHardReset) {
		t.Fatalf("rising hard reset bit must fire")
	}
	if Has(e, BitReload) {
		t.Fatalf("falling reload bit must not fire")
	}
}

func TestTriggerRoundTrip(t *testing.T) {
	s := voltage.ToDigital(1.75)
	f, _ := Decode([]uint16{0, 0, uint16(s)})
	if f.Trigger != s {
		t.Fatalf("trigger sample: got=%d want=%d", f.Trigger, s)
	}
}
