package config

import (
	"fmt"

	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/probe"
)

// BuildProbe converts the declarative probe section into a probe config.
// Builder tables come back sealed. Explicit entries keep their declared CRC
// and are not resealed: a wrong CRC yields a config the validator rejects.
func BuildProbe(p ProbeFile) (probe.ProbeConfig, error) {
	table, err := BuildTable(p.Table)
	if err != nil {
		return probe.ProbeConfig{}, err
	}
	return probe.ProbeConfig{
		TriggerVoltage: p.TriggerVoltage,
		DurationMin:    p.DurationMin,
		DurationMax:    p.DurationMax,
		IntensityMin:   p.IntensityMin,
		IntensityMax:   p.IntensityMax,
		CooldownMin:    p.CooldownMin,
		CooldownMax:    p.CooldownMax,
		Table:          table,
		TableEncoding:  TableEncoding(p.Table),
	}, nil
}

// BuildTable constructs the table a TableFile describes.
func BuildTable(t TableFile) (lut.PercentTable, error) {
	if err := validateTable(t); err != nil {
		return lut.PercentTable{}, err
	}

	switch t.Kind {
	case TableKindLinear:
		return lut.Linear(t.Max), nil
	case TableKindVoltage:
		return lut.FromVoltageRange(t.Range.Min, t.Range.Max), nil
	case TableKindBipolar:
		return lut.FromBipolarRange(), nil
	case TableKindPredefined:
		table, _ := lut.Predefined(t.Name)
		return table, nil
	}

	// TableKindEntries: treated as loaded from external storage.
	var table lut.PercentTable
	copy(table.Entries[:], t.Entries)
	table.CRC = t.CRC
	table.Size = lut.Size
	table.Valid = lut.Validate(&table)
	return table, nil
}

// TableEncoding is the entry encoding of the table t builds.
// Assumes t has passed validateTable.
func TableEncoding(t TableFile) lut.Encoding {
	switch t.Kind {
	case TableKindBipolar:
		return lut.EncodingBipolar
	case TableKindPredefined:
		return lut.PredefinedEncoding(t.Name)
	case TableKindEntries:
		enc, _ := lut.ParseEncoding(t.Encoding)
		return enc
	}
	return lut.EncodingUnipolar
}

// TableFileFrom renders a table as an explicit-entries section.
func TableFileFrom(table lut.PercentTable, enc lut.Encoding) TableFile {
	tf := TableFile{
		Kind:    TableKindEntries,
		Entries: append([]uint16(nil), table.Entries[:]...),
		CRC:     table.CRC,
	}
	if enc != lut.EncodingUnipolar {
		tf.Encoding = enc.String()
	}
	return tf
}

// Describe is a short form for log lines.
func (t TableFile) Describe() string {
	switch t.Kind {
	case TableKindLinear:
		return fmt.Sprintf("linear(max=%d)", t.Max)
	case TableKindVoltage:
		return fmt.Sprintf("voltage(%g..%g V)", t.Range.Min, t.Range.Max)
	case TableKindPredefined:
		return fmt.Sprintf("predefined(%s)", t.Name)
	case TableKindEntries:
		return fmt.Sprintf("entries(crc=%#04x)", t.CRC)
	}
	return t.Kind
}
