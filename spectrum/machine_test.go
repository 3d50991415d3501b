package spectrum

import (
	"testing"

	"github.com/intuitionamiga/zx48k/ula"
)

func blankROM() []byte {
	rom := make([]byte, 16384)
	// Fill with NOPs so the CPU free-runs harmlessly through ROM space.
	for i := range rom {
		rom[i] = 0x00
	}
	return rom
}

func TestLoadROMRejectsWrongSize(t *testing.T) {
	m := New()
	if err := m.LoadROM(make([]byte, 100)); err == nil {
		t.Fatal("expected an error for a short ROM image")
	}
}

func TestLoadROMAndRun(t *testing.T) {
	m := New()
	if err := m.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.Run(1000)
	if m.CPU.Regs.PC == 0 && m.CPU.Regs.R == 0 {
		t.Fatal("CPU made no progress after 1000 ticks")
	}
}

func TestRunFrameProducesOneFrame(t *testing.T) {
	m := New()
	if err := m.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.RunFrame()
	select {
	case <-m.ULA.FrameReady():
	default:
		t.Fatal("expected a FrameReady notification after one frame")
	}
}

func TestRequestResetReinitializesCPU(t *testing.T) {
	m := New()
	if err := m.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.Run(100)
	m.RequestReset()
	m.Tick()
	if m.CPU.Regs.PC != 0 {
		t.Fatalf("PC after reset = %#04x, want 0", m.CPU.Regs.PC)
	}
	if m.CPU.Regs.IFF1 {
		t.Fatal("expected IFF1 clear after reset")
	}
}

func TestTicksPerFrameMatchesMasterLoopCadence(t *testing.T) {
	m := New()
	if err := m.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	frames := 0
	for i := 0; i < ula.TicksPerFrame/2*3; i++ {
		m.Tick()
		select {
		case <-m.ULA.FrameReady():
			frames++
		default:
		}
	}
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
}
