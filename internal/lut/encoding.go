package lut

import "github.com/tamzrod/probe-driver/internal/voltage"

// Encoding says how a table entry maps back to an output sample.
// It is not part of the table's stored form; whoever builds the table
// records it next to the table.
type Encoding uint8

const (
	// EncodingUnipolar entries are non-negative samples. Codes above
	// MaxSample saturate.
	EncodingUnipolar Encoding = iota

	// EncodingBipolar entries are (sample + 32768) >> 1, as written by
	// FromBipolarRange.
	EncodingBipolar
)

var encodingNames = map[Encoding]string{
	EncodingUnipolar: "unipolar",
	EncodingBipolar:  "bipolar",
}

func (e Encoding) String() string {
	if s, ok := encodingNames[e]; ok {
		return s
	}
	return "unknown"
}

// ParseEncoding resolves an encoding name. The empty name is unipolar.
func ParseEncoding(name string) (Encoding, bool) {
	if name == "" {
		return EncodingUnipolar, true
	}
	for e, s := range encodingNames {
		if s == name {
			return e, true
		}
	}
	return 0, false
}

// PredefinedEncoding is the encoding of a named predefined table.
func PredefinedEncoding(name string) Encoding {
	if name == TableBipolar {
		return EncodingBipolar
	}
	return EncodingUnipolar
}

// Sample decodes one table entry.
func (e Encoding) Sample(entry uint16) voltage.Sample {
	var s int32
	switch e {
	case EncodingBipolar:
		s = int32(entry)<<1 - bipolarOffset
	default:
		s = int32(entry)
	}
	if s > int32(voltage.MaxSample) {
		return voltage.MaxSample
	}
	return voltage.Sample(s)
}
