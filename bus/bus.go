// Package bus implements the Spectrum's shared memory/port fabric: four
// 16KiB banks (bank 0 is ROM, writes to it are silently dropped), port
// decode routing even addresses to the ULA, and settle-phase resolution
// of both the CPU's and the ULA's pending bus signals (spec.md §5).
package bus

import (
	"github.com/intuitionamiga/zx48k/ula"
	"github.com/intuitionamiga/zx48k/z80"
)

const bankSize = 16 * 1024

// Bus owns the four 16KiB banks and arbitrates CPU/ULA access to them
// each half-tick, per spec.md's "two cooperating bus masters" model.
type Bus struct {
	banks [4][bankSize]byte
}

// New returns a Bus with all banks zeroed.
func New() *Bus { return &Bus{} }

// LoadROM copies a 16384-byte ROM image into bank 0. It panics if img
// is not exactly one bank in size, since a Spectrum 48K ROM is always
// exactly 16KiB.
func (b *Bus) LoadROM(img []byte) {
	if len(img) != bankSize {
		panic("bus: ROM image must be exactly 16384 bytes")
	}
	copy(b.banks[0][:], img)
}

// Read8 returns the byte at addr from whichever bank it maps to.
func (b *Bus) Read8(addr uint16) byte {
	bank := addr / bankSize
	off := addr % bankSize
	return b.banks[bank][off]
}

// Write8 writes to addr, silently dropping writes into bank 0 (ROM).
func (b *Bus) Write8(addr uint16, v byte) {
	bank := addr / bankSize
	if bank == 0 {
		return
	}
	off := addr % bankSize
	b.banks[bank][off] = v
}

// Contended reports whether addr falls in the 0x4000-0x7FFF bank that
// the ULA shares with the CPU and contends for (spec.md §4.3).
func Contended(addr uint16) bool {
	return addr >= 0x4000 && addr < 0x8000
}

// decodePort implements spec.md §4.3's port decode: bit 0 low routes
// to the ULA; bits 7-5 = 000 with bit0 high is the (absent) Kempston
// joystick, which reads back zero; everything else falls through to
// the floating bus.
func decodePort(addr uint16) (ulaPort, kempston bool) {
	if addr&0x01 == 0 {
		return true, false
	}
	if addr&0xE0 == 0 {
		return false, true
	}
	return false, false
}

// Settle resolves one half-tick's worth of pending signals from both
// the CPU and the ULA against the shared banks and port space, then
// mirrors the ULA's interrupt line onto the CPU. It is called once
// after every CPU.Tick()/ULA.Tick() per spec.md §5's master loop.
func Settle(cpu *z80.CPU, u *ula.ULA, b *Bus) {
	b.settleULA(u)
	b.settleCPU(cpu, u)
	cpu.RequestInterrupt(u.Interrupt())
}

func (b *Bus) settleULA(u *ula.ULA) {
	if u.Sig.Mem == ula.MemRead {
		u.Sig.Data = b.Read8(u.Sig.Addr)
	}
}

func (b *Bus) settleCPU(cpu *z80.CPU, u *ula.ULA) {
	switch cpu.Sig.Mem {
	case z80.MemRead:
		cpu.Sig.Data = b.Read8(cpu.Sig.Addr)
	case z80.MemWrite:
		b.Write8(cpu.Sig.Addr, cpu.Sig.Data)
	}
	switch cpu.Sig.Port {
	case z80.PortRead:
		isULA, kempston := decodePort(cpu.Sig.Addr)
		switch {
		case isULA:
			cpu.Sig.Data = u.ReadPort(cpu.Sig.Addr)
		case kempston:
			cpu.Sig.Data = 0x00
		default:
			cpu.Sig.Data = u.FloatingBus()
		}
	case z80.PortWrite:
		isULA, _ := decodePort(cpu.Sig.Addr)
		if isULA {
			u.WritePort(cpu.Sig.Data)
		}
	}
}
