package status

// Word packs a status word.
// No IO. No side effects.
func Word(stateCode uint8, latched bool, reason uint8) uint16 {
	var w uint16
	if latched {
		w |= 1 << BitFaultLatch
	}
	w |= uint16(stateCode&StateMask) << StateShift
	w |= uint16(reason&ReasonMask) << ReasonShift
	return w
}

// Latched reports the fault latch bit of w.
func Latched(w uint16) bool {
	return w&(1<<BitFaultLatch) != 0
}

// StateCode extracts the state field of w.
func StateCode(w uint16) uint8 {
	return uint8(w>>StateShift) & StateMask
}

// Reason extracts the fault reason field of w.
func Reason(w uint16) uint8 {
	return uint8(w>>ReasonShift) & ReasonMask
}

// Encode converts a Snapshot into the live slots of a status block.
// Layout is protocol-locked.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotStatusWord] = s.Word
	regs[SlotFaultReason] = s.FaultReason
	regs[SlotSecondsInFault] = s.SecondsInFault

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable bytes are replaced with '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
