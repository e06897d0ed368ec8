package lut

import (
	"fmt"
	"testing"

	c "github.com/smartystreets/goconvey/convey"

	"github.com/tamzrod/probe-driver/internal/voltage"
)

type namedTable struct {
	name  string
	table PercentTable
}

func builtTables() []namedTable {
	return []namedTable{
		{"linear(32767)", Linear(32767)},
		{"linear(0)", Linear(0)},
		{"linear(65535)", Linear(65535)},
		{"voltage(0,5)", FromVoltageRange(0, 5)},
		{"voltage(1,4)", FromVoltageRange(1, 4)},
		{"voltage(-5,5)", FromVoltageRange(-5, 5)},
		{"voltage(5,0) descending", FromVoltageRange(5, 0)},
		{"bipolar", FromBipolarRange()},
	}
}

func TestBuiltTablesValidate(t *testing.T) {
	c.Convey("Given tables produced by every builder", t, func() {
		for _, nt := range builtTables() {
			table := nt.table
			c.Convey(fmt.Sprintf("When the %s table is checked", nt.name), func() {
				c.Convey("Then it validates immediately", func() {
					c.So(Validate(&table), c.ShouldBeTrue)
					c.So(IsValid(&table), c.ShouldBeTrue)
					c.So(table.Size, c.ShouldEqual, uint8(Size))
					c.So(table.Entries[0], c.ShouldEqual, uint16(0))
				})
			})
		}
	})
}

func TestLinear(t *testing.T) {
	c.Convey("Given linear(32767)", t, func() {
		table := Linear(32767)
		c.So(table.LookupSafe(0), c.ShouldEqual, uint16(0))
		c.So(table.LookupSafe(50), c.ShouldEqual, uint16(16383))
		c.So(table.LookupSafe(100), c.ShouldEqual, uint16(32767))
	})
}

func TestFromVoltageRange(t *testing.T) {
	c.Convey("Given a table over 0..5 V", t, func() {
		table := FromVoltageRange(0.0, 5.0)
		c.Convey("Then index 100 holds the sample for 5 V", func() {
			c.So(voltage.Sample(table.LookupSafe(100)), c.ShouldEqual, voltage.ToDigital(5.0))
		})
		c.Convey("Then index 50 holds the sample for 2.5 V", func() {
			c.So(voltage.Sample(table.LookupSafe(50)), c.ShouldEqual, voltage.ToDigital(2.5))
		})
	})
	c.Convey("Given a table over -5..5 V", t, func() {
		table := FromVoltageRange(-5.0, 5.0)
		c.Convey("Then the negative half saturates to zero", func() {
			for i := 0; i <= 50; i++ {
				c.So(table.Entries[i], c.ShouldEqual, uint16(0))
			}
			c.So(table.Entries[51], c.ShouldBeGreaterThan, uint16(0))
		})
	})
}

func TestFromBipolarRange(t *testing.T) {
	c.Convey("Given the bipolar table", t, func() {
		table := FromBipolarRange()
		c.So(table.Entries[0], c.ShouldEqual, uint16(0))
		c.So(table.Entries[50], c.ShouldEqual, uint16(16384))
		c.So(table.Entries[100], c.ShouldEqual, uint16(32767))
		c.Convey("Then negative voltages stay below 16384 and the rest at or above", func() {
			for i := 0; i < 50; i++ {
				c.So(table.Entries[i], c.ShouldBeLessThanOrEqualTo, uint16(16383))
			}
			for i := 50; i <= 100; i++ {
				c.So(table.Entries[i], c.ShouldBeGreaterThanOrEqualTo, uint16(16384))
			}
		})
		c.Convey("Then entries never decrease", func() {
			for i := 1; i <= 100; i++ {
				c.So(table.Entries[i], c.ShouldBeGreaterThanOrEqualTo, table.Entries[i-1])
			}
		})
	})
}

func TestLookupSafeSaturation(t *testing.T) {
	c.Convey("Given a valid table", t, func() {
		table := Linear(32767)
		c.Convey("Then every index reads the same as its clamp", func() {
			for i := -5; i <= 255; i++ {
				want := i
				if want > 100 {
					want = 100
				}
				if want < 0 {
					want = 0
				}
				c.So(table.LookupSafe(i), c.ShouldEqual, table.LookupSafe(want))
			}
		})
	})
	c.Convey("Given a table whose validity flag is clear", t, func() {
		table := Linear(32767)
		table.Valid = false
		c.Convey("Then every lookup reads zero", func() {
			for i := -5; i <= 255; i++ {
				c.So(table.LookupSafe(i), c.ShouldEqual, uint16(0))
			}
		})
	})
}

func TestMutationInvalidates(t *testing.T) {
	c.Convey("Given a valid table", t, func() {
		table := Linear(1000)
		c.Convey("When an entry is set", func() {
			table.Set(10, 1)
			c.Convey("Then the table is invalid until resealed", func() {
				c.So(table.Valid, c.ShouldBeFalse)
				c.So(Validate(&table), c.ShouldBeFalse)
				c.So(table.LookupSafe(10), c.ShouldEqual, uint16(0))

				table.Seal()
				c.So(IsValid(&table), c.ShouldBeTrue)
				c.So(table.LookupSafe(10), c.ShouldEqual, uint16(1))
			})
		})
		c.Convey("When entry 0 is set to a non-zero value", func() {
			table.Set(0, 7)
			table.Seal()
			c.Convey("Then sealing cannot make it valid", func() {
				c.So(table.Valid, c.ShouldBeFalse)
				c.So(IsValid(&table), c.ShouldBeFalse)
			})
		})
		c.Convey("When the CRC is corrupted behind the flag's back", func() {
			table.CRC ^= 0x0001
			c.Convey("Then IsValid catches it even though the flag is set", func() {
				c.So(table.Valid, c.ShouldBeTrue)
				c.So(IsValid(&table), c.ShouldBeFalse)
			})
		})
	})
}

func TestIsValidIndex(t *testing.T) {
	testCases := []struct {
		index int
		valid bool
	}{
		{-1, false},
		{0, true},
		{50, true},
		{100, true},
		{101, false},
		{127, false},
	}
	for _, tc := range testCases {
		if got := IsValidIndex(tc.index); got != tc.valid {
			t.Fatalf("IsValidIndex(%d) = %v, want %v", tc.index, got, tc.valid)
		}
	}
}

func TestPredefined(t *testing.T) {
	for _, name := range []string{TableLinear, TableBipolar, TableUnipolar5V} {
		table, ok := Predefined(name)
		if !ok {
			t.Fatalf("predefined table %q missing", name)
		}
		if !IsValid(&table) {
			t.Fatalf("predefined table %q is not valid", name)
		}
	}

	a, _ := Predefined(TableLinear)
	a.Set(3, 9)
	b, _ := Predefined(TableLinear)
	if !IsValid(&b) {
		t.Fatalf("mutating a copy leaked into the predefined table")
	}

	if _, ok := Predefined("sawtooth"); ok {
		t.Fatalf("unknown table name should not resolve")
	}
}

func TestEncodingSample(t *testing.T) {
	c.Convey("Given the bipolar table decoded as bipolar", t, func() {
		table := FromBipolarRange()
		enc := EncodingBipolar

		c.Convey("Then the ends and midpoint span the platform range", func() {
			c.So(enc.Sample(table.Entries[0]), c.ShouldEqual, voltage.MinSample)
			c.So(enc.Sample(table.Entries[50]), c.ShouldEqual, voltage.Sample(0))
			c.So(voltage.ToVoltage(enc.Sample(table.Entries[100])), c.ShouldAlmostEqual, voltage.VMax, 0.001)
		})
	})

	c.Convey("Given unipolar codes above the sample range", t, func() {
		c.So(EncodingUnipolar.Sample(32767), c.ShouldEqual, voltage.MaxSample)
		c.So(EncodingUnipolar.Sample(32768), c.ShouldEqual, voltage.MaxSample)
		c.So(EncodingUnipolar.Sample(65535), c.ShouldEqual, voltage.MaxSample)
	})

	c.Convey("Encoding names resolve", t, func() {
		enc, ok := ParseEncoding("")
		c.So(ok, c.ShouldBeTrue)
		c.So(enc, c.ShouldEqual, EncodingUnipolar)

		enc, ok = ParseEncoding("bipolar")
		c.So(ok, c.ShouldBeTrue)
		c.So(enc, c.ShouldEqual, EncodingBipolar)

		_, ok = ParseEncoding("offset")
		c.So(ok, c.ShouldBeFalse)

		c.So(PredefinedEncoding(TableBipolar), c.ShouldEqual, EncodingBipolar)
		c.So(PredefinedEncoding(TableUnipolar5V), c.ShouldEqual, EncodingUnipolar)
	})
}
