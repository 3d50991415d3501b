package register

import "testing"

func TestFlagsByteRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		var f Flags
		f.SetByte(byte(b))
		if got := f.Byte(); got != byte(b) {
			t.Fatalf("flags round trip: in=%#02x out=%#02x", b, got)
		}
	}
}

func TestRegisterPairs(t *testing.T) {
	var r Registers
	r.SetBC(0xABCD)
	if r.B != 0xAB || r.C != 0xCD {
		t.Fatalf("SetBC: got B=%#02x C=%#02x", r.B, r.C)
	}
	if r.BC() != 0xABCD {
		t.Fatalf("BC() = %#04x, want 0xABCD", r.BC())
	}
}

// TestExAFRoundTrip verifies property P7: EX AF,AF' twice is identity.
func TestExAFRoundTrip(t *testing.T) {
	var r Registers
	r.A, r.F = 0x12, 0x34
	r.A_, r.F_ = 0x56, 0x78
	r.ExAF()
	r.ExAF()
	if r.A != 0x12 || r.F != 0x34 {
		t.Fatalf("ExAF twice not identity: A=%#02x F=%#02x", r.A, r.F)
	}
}

// TestExxRoundTrip verifies property P7: EXX twice is identity.
func TestExxRoundTrip(t *testing.T) {
	var r Registers
	r.SetBC(0x1111)
	r.SetDE(0x2222)
	r.SetHL(0x3333)
	r.B_, r.C_, r.D_, r.E_, r.H_, r.L_ = 0x44, 0x55, 0x66, 0x77, 0x88, 0x99
	r.Exx()
	r.Exx()
	if r.BC() != 0x1111 || r.DE() != 0x2222 || r.HL() != 0x3333 {
		t.Fatalf("Exx twice not identity: BC=%#04x DE=%#04x HL=%#04x", r.BC(), r.DE(), r.HL())
	}
}

// TestIncR verifies property P3: the low 7 bits advance by one per
// M1, bit 7 is left untouched.
func TestIncR(t *testing.T) {
	var r Registers
	r.R = 0x7F
	r.IncR()
	if r.R != 0x00 {
		t.Fatalf("R wrap: got %#02x, want 0x00", r.R)
	}
	r.R = 0x80
	r.IncR()
	if r.R != 0x81 {
		t.Fatalf("R bit7 preserved: got %#02x, want 0x81", r.R)
	}
}

func TestIndexRemap(t *testing.T) {
	var r Registers
	r.H, r.L = 0x12, 0x34
	r.IX = 0xBEEF
	r.Index = IndexHL
	if r.IndexHigh() != 0x12 || r.IndexLow() != 0x34 {
		t.Fatalf("HL mode: got high=%#02x low=%#02x", r.IndexHigh(), r.IndexLow())
	}
	r.Index = IndexIX
	if r.IndexHigh() != 0xBE || r.IndexLow() != 0xEF {
		t.Fatalf("IX mode: got high=%#02x low=%#02x", r.IndexHigh(), r.IndexLow())
	}
	r.SetIndexLow(0x01)
	if r.IX != 0xBE01 {
		t.Fatalf("SetIndexLow: IX=%#04x, want 0xBE01", r.IX)
	}
}
