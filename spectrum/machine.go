// Package spectrum wires the Z80 CPU, ULA and shared bus into the
// single-threaded cooperative master loop described in spec.md §5, and
// exposes the external boundaries (ROM load, reset, frame/audio
// output, keyboard input) a host program drives.
package spectrum

import (
	"fmt"

	"github.com/intuitionamiga/zx48k/bus"
	"github.com/intuitionamiga/zx48k/tape"
	"github.com/intuitionamiga/zx48k/ula"
	"github.com/intuitionamiga/zx48k/z80"
)

// Machine is a complete ZX Spectrum 48K: CPU, ULA, bus, and the
// ROM-trap tape loader, stepped one master-loop iteration at a time.
type Machine struct {
	CPU  z80.CPU
	ULA  *ula.ULA
	Bus  *bus.Bus
	Tape *tape.Loader

	resetRequested bool
}

// New returns a Machine with the ULA and bus initialized and the CPU
// held in its post-reset state; LoadROM must be called before Run.
func New() *Machine {
	m := &Machine{
		ULA: ula.New(),
		Bus: bus.New(),
	}
	m.Tape = tape.New(m.Bus)
	m.CPU.Reset()
	return m
}

// LoadROM installs a 16384-byte Spectrum 48K ROM image into bank 0.
func (m *Machine) LoadROM(img []byte) error {
	if len(img) != 16384 {
		return fmt.Errorf("spectrum: ROM image is %d bytes, want 16384", len(img))
	}
	m.Bus.LoadROM(img)
	return nil
}

// RequestReset arranges for the machine to reset at the top of the
// next Tick, per spec.md §5's cancellation note. The reset is serviced
// there whether or not the CPU is between instructions.
func (m *Machine) RequestReset() { m.resetRequested = true }

// Tick runs exactly one master-loop iteration: two ULA half-steps per
// CPU half-step (spec.md §5), settling the bus after each, and gates
// the CPU tick entirely while the ULA holds a contended sub-phase
// against an address the CPU is mid-cycle on.
func (m *Machine) Tick() {
	if m.resetRequested {
		m.resetRequested = false
		m.CPU.Reset()
	}

	m.ULA.Tick()
	bus.Settle(&m.CPU, m.ULA, m.Bus)

	m.ULA.Tick()
	bus.Settle(&m.CPU, m.ULA, m.Bus)

	if !m.contended() {
		m.CPU.Tick()
		bus.Settle(&m.CPU, m.ULA, m.Bus)
		m.Tape.Observe(&m.CPU)
	}
}

func (m *Machine) contended() bool {
	if !m.ULA.Contended() {
		return false
	}
	if m.CPU.Sig.Mem == z80.MemNone {
		return false
	}
	return bus.Contended(m.CPU.Sig.Addr)
}

// Run advances the machine by n master-loop ticks.
func (m *Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

// RunFrame advances the machine until exactly one frame has been
// produced (TicksPerFrame ULA ticks, i.e. ula.TicksPerFrame/2 master
// loop iterations since each iteration advances the ULA by two
// half-ticks).
func (m *Machine) RunFrame() {
	m.Run(ula.TicksPerFrame / 2)
}
