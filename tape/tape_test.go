package tape

import (
	"testing"

	"github.com/intuitionamiga/zx48k/bus"
	"github.com/intuitionamiga/zx48k/z80"
)

// newTrappedCPU returns a CPU whose most recent M1 fetch landed at pc,
// exactly as Machine.Tick would leave it just before calling Observe:
// one real Tick() begins the fetch and records the trap, without
// letting it complete (the fetch lasts 8 ticks and only one elapses,
// so its finish never runs and PC is left sitting at pc).
func newTrappedCPU(pc uint16) *z80.CPU {
	cpu := &z80.CPU{}
	cpu.Reset()
	cpu.Regs.PC = pc
	cpu.Tick()
	return cpu
}

func TestLoadBlockCopiesAndSetsCarry(t *testing.T) {
	b := bus.New()
	l := New(b)

	cpu := newTrappedCPU(ldBytesEntry)
	cpu.Regs.A_ = 0xFF // expected flag: data block
	cpu.Regs.F_ = 0x01 // C' set -> LOAD
	cpu.Regs.SetDE(3)
	cpu.Regs.IX = 0x8000

	payload := []byte{0xFF, 0x11, 0x22, 0x33}
	checksum := byte(0)
	for _, v := range payload {
		checksum ^= v
	}
	l.PushBlock(append(payload, checksum))

	l.Observe(cpu)

	if cpu.Regs.PC != ldBytesReturn {
		t.Fatalf("PC = %#04x, want %#04x", cpu.Regs.PC, ldBytesReturn)
	}
	if !cpu.Regs.GetFlags().C {
		t.Fatal("expected F.C set on checksum match")
	}
	if b.Read8(0x8000) != 0x11 || b.Read8(0x8001) != 0x22 || b.Read8(0x8002) != 0x33 {
		t.Fatal("payload bytes not copied to memory at IX")
	}
}

func TestChecksumMismatchClearsCarry(t *testing.T) {
	b := bus.New()
	l := New(b)

	cpu := newTrappedCPU(ldBytesEntry)
	cpu.Regs.A_ = 0xFF
	cpu.Regs.F_ = 0x01
	cpu.Regs.SetDE(2)
	cpu.Regs.IX = 0x8000

	l.PushBlock([]byte{0xFF, 0x11, 0x22, 0x00}) // wrong trailing checksum

	l.Observe(cpu)

	if cpu.Regs.GetFlags().C {
		t.Fatal("expected F.C clear on checksum mismatch")
	}
	if cpu.Regs.PC != ldBytesReturn {
		t.Fatalf("PC = %#04x, want %#04x", cpu.Regs.PC, ldBytesReturn)
	}
}

func TestNoBlockAsksHost(t *testing.T) {
	b := bus.New()
	l := New(b)
	cpu := newTrappedCPU(ldBytesEntry)

	l.Observe(cpu)

	select {
	case <-l.NeedBlock():
	default:
		t.Fatal("expected a NeedBlock notification")
	}
}

func TestObserveIgnoresOtherTraps(t *testing.T) {
	b := bus.New()
	l := New(b)
	cpu := newTrappedCPU(0x1234)

	l.Observe(cpu)

	select {
	case <-l.NeedBlock():
		t.Fatal("unexpected NeedBlock notification for unrelated trap")
	default:
	}
}
