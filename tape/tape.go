// Package tape implements spec.md §6's ROM-trap tape loader: rather
// than emulating tape audio pulses, it watches for the CPU entering
// M1 at the ROM's LD-BYTES routine and synthesizes the effect of a
// successful (or failed) block load directly into memory and
// registers.
package tape

import (
	"github.com/intuitionamiga/zx48k/bus"
	"github.com/intuitionamiga/zx48k/z80"
)

// ldBytesEntry and ldBytesReturn are the well-known 48K ROM addresses
// spec.md §6 names: the trap point and the address execution resumes
// at once a block has been synthesized into memory.
const (
	ldBytesEntry  = 0x056B
	ldBytesReturn = 0x05E2
)

// Loader holds whatever raw TAP blocks the host has handed over and
// performs the ROM-trap protocol against a CPU/bus pair.
type Loader struct {
	bus     *bus.Bus
	pending [][]byte

	needBlock chan struct{} // non-blocking: host is asked to supply a block
}

// New returns a Loader with no blocks queued.
func New(b *bus.Bus) *Loader {
	return &Loader{bus: b, needBlock: make(chan struct{}, 1)}
}

// PushBlock queues one TAP block payload (the bytes between a TAP
// file's two-byte length prefix), flag byte included, for the next
// trap.
func (l *Loader) PushBlock(block []byte) {
	l.pending = append(l.pending, block)
}

// NeedBlock is a non-blocking notification that the guest tried to
// load a tape and none was queued.
func (l *Loader) NeedBlock() <-chan struct{} { return l.needBlock }

// Observe checks whether the CPU's most recent M1 fetch landed on the
// LD-BYTES entry point, and if so performs the block-consumption
// protocol described in spec.md §6.
func (l *Loader) Observe(cpu *z80.CPU) {
	pc, ok := cpu.TakeTrap()
	if !ok || pc != ldBytesEntry {
		return
	}

	if len(l.pending) == 0 {
		select {
		case l.needBlock <- struct{}{}:
		default:
		}
		return
	}

	block := l.pending[0]
	l.pending = l.pending[1:]
	l.consume(cpu, block)
}

// consume validates the block's flag byte against A′, and — when C′
// is set, the real ROM's LOAD-vs-VERIFY distinction — copies DE bytes
// into memory starting at IX, XORing each into a running checksum
// that must equal the block's trailing checksum byte.
func (l *Loader) consume(cpu *z80.CPU, block []byte) {
	regs := &cpu.Regs

	if len(block) < 2 {
		l.fail(cpu)
		return
	}
	flag := block[0]
	payload := block[1 : len(block)-1]
	wantChecksum := block[len(block)-1]

	if flag != regs.A_ {
		l.fail(cpu)
		return
	}

	verify := regs.F_&0x01 == 0 // C' clear selects VERIFY, set selects LOAD
	checksum := flag

	count := int(regs.DE())
	if count > len(payload) {
		count = len(payload)
	}
	addr := regs.IX
	for i := 0; i < count; i++ {
		b := payload[i]
		checksum ^= b
		if !verify {
			l.bus.Write8(addr, b)
		}
		addr++
	}

	regs.SetDE(regs.DE() - uint16(count))
	regs.IX = addr
	regs.PC = ldBytesReturn

	f := regs.GetFlags()
	f.C = checksum == wantChecksum && count == len(payload)
	regs.SetFlags(f)
}

// fail forces the checksum-mismatch outcome spec.md §6 documents: F.C
// clear, resumed at the normal return point so the guest program sees
// an ordinary "tape load error" it can retry.
func (l *Loader) fail(cpu *z80.CPU) {
	regs := &cpu.Regs
	regs.PC = ldBytesReturn
	f := regs.GetFlags()
	f.C = false
	regs.SetFlags(f)
}
