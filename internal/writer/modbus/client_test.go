package modbus

import (
	"bytes"
	"testing"
)

func TestPackRegisters(t *testing.T) {
	got := packRegisters([]uint16{0x8000, 0x0001, 0xBEEF})
	want := []byte{0x80, 0x00, 0x00, 0x01, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("packRegisters: got=%X want=%X", got, want)
	}
}

func TestWriteRegisters_RejectsArea(t *testing.T) {
	c := &EndpointClient{}
	if err := c.WriteRegisters(4, 1, 0, []uint16{1}); err == nil {
		t.Fatalf("expected error for input register area")
	}
}

func TestNewEndpointClient_EndpointRequired(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
