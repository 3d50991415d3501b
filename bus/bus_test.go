package bus

import (
	"testing"

	"github.com/intuitionamiga/zx48k/ula"
	"github.com/intuitionamiga/zx48k/z80"
)

func TestROMWritesAreDropped(t *testing.T) {
	b := New()
	b.LoadROM(make([]byte, bankSize))
	b.Write8(0x0010, 0xAB)
	if got := b.Read8(0x0010); got != 0 {
		t.Fatalf("ROM write leaked through: got %#02x", got)
	}
}

func TestRAMReadWrite(t *testing.T) {
	b := New()
	b.Write8(0x8000, 0x42)
	if got := b.Read8(0x8000); got != 0x42 {
		t.Fatalf("RAM read = %#02x, want 0x42", got)
	}
}

func TestContendedRange(t *testing.T) {
	if !Contended(0x4000) || !Contended(0x7FFF) {
		t.Fatal("0x4000-0x7FFF must be contended")
	}
	if Contended(0x3FFF) || Contended(0x8000) {
		t.Fatal("contention must not extend outside 0x4000-0x7FFF")
	}
}

func TestPortDecodeRoutesToULA(t *testing.T) {
	cpu := &z80.CPU{}
	cpu.Reset()
	u := ula.New()
	b := New()

	u.SetKeyMatrix(3, 0, true)
	cpu.Sig.Addr = 0xF7FE
	cpu.Sig.Port = z80.PortRead
	Settle(cpu, u, b)
	if cpu.Sig.Data != 0b10111110 {
		t.Fatalf("port read = %#08b, want 0b10111110", cpu.Sig.Data)
	}
}

func TestPortWriteSetsBorder(t *testing.T) {
	cpu := &z80.CPU{}
	cpu.Reset()
	u := ula.New()
	b := New()

	cpu.Sig.Addr = 0x00FE
	cpu.Sig.Data = 0x04
	cpu.Sig.Port = z80.PortWrite
	Settle(cpu, u, b)
	if u.Border() != 4 {
		t.Fatalf("Border() = %d, want 4", u.Border())
	}
}

func TestKempstonAbsentReadsZero(t *testing.T) {
	cpu := &z80.CPU{}
	cpu.Reset()
	u := ula.New()
	b := New()

	cpu.Sig.Addr = 0x001F
	cpu.Sig.Port = z80.PortRead
	Settle(cpu, u, b)
	if cpu.Sig.Data != 0 {
		t.Fatalf("kempston stub read = %#02x, want 0", cpu.Sig.Data)
	}
}
