package z80

import "github.com/intuitionamiga/zx48k/register"

// CPU is a Z80 processor stepped in half-T-state ticks. It owns the
// architectural register file, the current signal block, the decode
// scratch state, and the pending micro-op queue. It never blocks:
// Tick always returns promptly, per spec.md §5.
type CPU struct {
	Regs   register.Registers
	Sig    Signal
	Fetch  Fetched
	q      queue
	Halted bool
	wait   bool

	// interruptRequested mirrors the ULA's interrupt line, sampled at
	// M1 setup; interruptAccepted latches until the entry sequence
	// finishes so a held-high line doesn't retrigger every M1.
	interruptRequested bool
	interruptAccepted  bool

	lastTrap    uint16
	trapPending bool

	// cont resumes a multi-phase instruction at its next decode step;
	// see decodeAndRun in decode.go.
	cont func(c *CPU)
}

// Reset restores power-on state: all registers zero (SP=0, IM=0,
// IFF1=IFF2=false, PC=0).
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.Sig = Signal{}
	c.Fetch.clear()
	c.q = queue{}
	c.Halted = false
	c.wait = false
	c.interruptRequested = false
	c.interruptAccepted = false
	c.cont = nil
}

// SetWait gates the CPU: while true, Tick is a no-op. Used by the host
// during synchronous tape-block injection (spec.md §5).
func (c *CPU) SetWait(w bool) { c.wait = w }

// RequestInterrupt mirrors the bus master's view of the ULA's
// interrupt output, refreshed on every bus settle.
func (c *CPU) RequestInterrupt(active bool) {
	c.interruptRequested = active
	c.Sig.Interrupt = active
}

// TakeTrap returns the PC observed at the most recent M1 entry and
// clears the pending flag. The environment uses this to intercept
// well-known ROM routines (spec.md §4.1, §6); it is emitted exactly
// once per instruction boundary.
func (c *CPU) TakeTrap() (uint16, bool) {
	if !c.trapPending {
		return 0, false
	}
	c.trapPending = false
	return c.lastTrap, true
}

// Tick advances the CPU by one half-T-state.
func (c *CPU) Tick() {
	if c.wait {
		return
	}

	if c.Halted {
		if c.interruptRequested && c.Regs.IFF1 {
			c.Halted = false
			// PC already sits one past the HALT opcode; fall through
			// to normal interrupt-acceptance handling below.
		} else {
			return
		}
	}

	if c.q.empty() {
		if c.interruptRequested && c.Regs.IFF1 && !c.interruptAccepted {
			c.interruptAccepted = true
			c.enqueueInterruptEntry()
			return
		}
		c.interruptAccepted = false
		c.enqueueFetch()
	}

	if c.q.advance(c) && c.q.empty() {
		c.decodeAndRun()
	}
}

func (c *CPU) enqueueFetch() {
	c.q.push(microOp{
		kind:  opFetch,
		ticks: 8, // M1: 4 T-states
		begin: func(c *CPU) {
			c.Regs.M1 = true
			c.Sig.Addr = c.Regs.PC
			c.Sig.Mem = MemRead
			c.lastTrap = c.Regs.PC
			c.trapPending = true
		},
		finish: func(c *CPU) {
			c.Fetch.clear()
			c.Regs.Index = register.IndexHL
			c.Fetch.Opcode = c.Sig.Data
			c.Regs.PC++
			c.Regs.IncR()
			c.Regs.M1 = false
			c.Sig.Mem = MemNone
		},
	})
}

// enqueuePrefixFetch reads a second (or third) opcode byte after a
// DD/FD/ED/CB prefix without touching R a second time for CB-after-
// DD/FD (the displacement-then-opcode indexed CB form handles R
// itself via the ordinary M1 of the *first* DD/FD byte only).
func (c *CPU) enqueuePrefixFetch() {
	c.q.push(microOp{
		kind:  opFetch,
		ticks: 8,
		begin: func(c *CPU) {
			c.Sig.Addr = c.Regs.PC
			c.Sig.Mem = MemRead
		},
		finish: func(c *CPU) {
			c.Fetch.Opcode = c.Sig.Data
			c.Regs.PC++
			c.Sig.Mem = MemNone
		},
	})
}

func (c *CPU) pushReadPcByte(into *byte) {
	c.q.push(microOp{
		kind:  opMemReadPcByte,
		ticks: 6,
		begin: func(c *CPU) {
			c.Sig.Addr = c.Regs.PC
			c.Sig.Mem = MemRead
		},
		finish: func(c *CPU) {
			*into = c.Sig.Data
			c.Regs.PC++
			c.Sig.Mem = MemNone
		},
	})
}

func (c *CPU) pushReadPcDisplacement() {
	c.q.push(microOp{
		kind:  opMemReadPcDisplacement,
		ticks: 6,
		begin: func(c *CPU) {
			c.Sig.Addr = c.Regs.PC
			c.Sig.Mem = MemRead
		},
		finish: func(c *CPU) {
			c.Fetch.D = int8(c.Sig.Data)
			c.Regs.PC++
			c.Sig.Mem = MemNone
		},
	})
}

func (c *CPU) pushMemRead(addr uint16, into *byte) {
	c.q.push(microOp{
		kind:  opMemRead,
		ticks: 6,
		begin: func(c *CPU) {
			c.Sig.Addr = addr
			c.Sig.Mem = MemRead
		},
		finish: func(c *CPU) {
			*into = c.Sig.Data
			c.Sig.Mem = MemNone
		},
	})
}

func (c *CPU) pushMemWrite(addr uint16, data byte) {
	c.q.push(microOp{
		kind:  opMemWrite8,
		ticks: 6,
		begin: func(c *CPU) {
			c.Sig.Addr = addr
			c.Sig.Data = data
			c.Sig.Mem = MemWrite
		},
		finish: func(c *CPU) {
			c.Sig.Mem = MemNone
		},
	})
}

func (c *CPU) pushPortRead(addr uint16, into *byte) {
	c.q.push(microOp{
		kind:  opPortRead,
		ticks: 8,
		begin: func(c *CPU) {
			c.Sig.Addr = addr
			c.Sig.Port = PortRead
		},
		finish: func(c *CPU) {
			*into = c.Sig.Data
			c.Sig.Port = PortNone
		},
	})
}

func (c *CPU) pushPortWrite(addr uint16, data byte) {
	c.q.push(microOp{
		kind:  opPortWrite8,
		ticks: 8,
		begin: func(c *CPU) {
			c.Sig.Addr = addr
			c.Sig.Data = data
			c.Sig.Port = PortWrite
		},
		finish: func(c *CPU) {
			c.Sig.Port = PortNone
		},
	})
}

// pushDelay pads internal work the decode produces that has no bus
// signature, e.g. the extra 7 T-states of ADD HL,rr.
func (c *CPU) pushDelay(ticks int) {
	c.q.push(microOp{kind: opDelay, ticks: ticks})
}

func (c *CPU) pushWord16(hi, lo *byte, addr uint16) {
	c.pushMemRead(addr, lo)
	c.pushMemRead(addr+1, hi)
}

// pushPush enqueues the two-byte stack push of a 16-bit value,
// decrementing SP by 2 first per the spec's SP invariant.
func (c *CPU) pushPush(value uint16) {
	c.Regs.SP -= 2
	sp := c.Regs.SP
	c.pushMemWrite(sp+1, byte(value>>8))
	c.pushMemWrite(sp, byte(value))
}

// pushPop enqueues the two-byte stack pop into dst, incrementing SP by
// 2 after reading.
func (c *CPU) pushPop(dst *uint16) {
	sp := c.Regs.SP
	var lo, hi byte
	c.pushMemRead(sp, &lo)
	c.pushMemRead(sp+1, &hi)
	c.q.push(microOp{kind: opDelay, ticks: 0, finish: func(c *CPU) {
		*dst = uint16(hi)<<8 | uint16(lo)
		c.Regs.SP += 2
	}})
}

func (c *CPU) enqueueInterruptEntry() {
	c.q.push(microOp{kind: opInterruptEntry, ticks: 14}) // ack + 2 internal cycles
	c.pushPush(c.Regs.PC)
	switch c.Regs.IM {
	case register.IM0, register.IM1:
		// IM0 normally decodes an RST opcode an interrupting device
		// drives onto the data bus; no device here ever does, so the
		// bus floats to 0xFF and the decode always resolves to 0x0038.

		c.q.push(microOp{ticks: 0, finish: func(c *CPU) {
			c.Regs.PC = 0x0038
			c.Regs.IFF1, c.Regs.IFF2 = false, false
		}})
	case register.IM2:
		var lo, hi byte
		vec := uint16(c.Regs.I)<<8 | 0xFF // floating bus during IM2 ack defaults to 0xFF absent a real device pull
		c.pushMemRead(vec, &lo)
		c.pushMemRead(vec+1, &hi)
		c.q.push(microOp{ticks: 0, finish: func(c *CPU) {
			c.Regs.PC = uint16(hi)<<8 | uint16(lo)
			c.Regs.IFF1, c.Regs.IFF2 = false, false
		}})
	}
}
