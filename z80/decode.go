package z80

import "github.com/intuitionamiga/zx48k/register"

// opcodeFields splits an opcode byte into the standard Z80 decoding
// grid: x = bits 7-6, y = bits 5-3, z = bits 2-0, p = y>>1, q = y&1.
func opcodeFields(op byte) (x, y, z, p, q int) {
	x = int(op>>6) & 0x03
	y = int(op>>3) & 0x07
	z = int(op) & 0x07
	p = y >> 1
	q = y & 1
	return
}

// cont, when set, is invoked on the next decode step instead of a
// fresh dispatch lookup — this is how multi-phase instructions (an
// operand in memory, a block-instruction repeat, an indexed
// displacement) resume exactly where they left off.
//
// A step that queues more bus phases without naming a next step is the
// instruction's last one: a no-op continuation is parked so that the
// drained queue ends the instruction instead of dispatching the opcode
// again. A queued prefix fetch is the exception, since the byte it
// reads is the next opcode to dispatch.
func (c *CPU) decodeAndRun() {
	if c.cont != nil {
		k := c.cont
		c.cont = nil
		k(c)
	} else {
		switch c.Fetch.Prefix {
		case PrefixNone, PrefixDD, PrefixFD:
			c.decodeBase(c.Fetch.Opcode)
		case PrefixCB:
			c.decodeCB(c.Fetch.Opcode, c.regAddrHL, false)
		case PrefixDDCB, PrefixFDCB:
			c.decodeIndexedCB(c.Fetch.Opcode)
		case PrefixED:
			c.decodeED(c.Fetch.Opcode)
		}
	}
	if c.cont == nil && len(c.q.ops) > 0 && c.q.ops[len(c.q.ops)-1].kind != opFetch {
		c.cont = func(*CPU) {}
	}
}

// regAddrHL resolves the effective address for register code 6 when
// no explicit displacement continuation is involved (plain (HL)).
func (c *CPU) regAddrHL() uint16 { return c.Regs.HL() }

// --- 8-bit register access, index-mode aware for codes 4,5,6 ---

const regB, regC, regD, regE, regH, regL, regHLmem, regA = 0, 1, 2, 3, 4, 5, 6, 7

// readReg8Direct returns the value of register code r, for r != 6.
// Codes 4 and 5 are remapped to IXH/IXL or IYH/IYL when indexing is
// active, per spec.md §4.1.
func (c *CPU) readReg8Direct(r int) byte {
	switch r {
	case regB:
		return c.Regs.B
	case regC:
		return c.Regs.C
	case regD:
		return c.Regs.D
	case regE:
		return c.Regs.E
	case regH:
		return c.Regs.IndexHigh()
	case regL:
		return c.Regs.IndexLow()
	case regA:
		return c.Regs.A
	}
	panic("z80: readReg8Direct called with (HL)-shaped code")
}

// writeReg8Plain writes register code r to the plain B/C/D/E/H/L/A
// file regardless of the current index mode: the register-copy side
// effect of indexed-CB forms always targets the plain registers, not
// IXH/IXL/IYH/IYL, even while a DD/FD prefix is active.
func (c *CPU) writeReg8Plain(r int, v byte) {
	switch r {
	case regB:
		c.Regs.B = v
	case regC:
		c.Regs.C = v
	case regD:
		c.Regs.D = v
	case regE:
		c.Regs.E = v
	case regH:
		c.Regs.H = v
	case regL:
		c.Regs.L = v
	case regA:
		c.Regs.A = v
	}
}

func (c *CPU) writeReg8Direct(r int, v byte) {
	switch r {
	case regB:
		c.Regs.B = v
	case regC:
		c.Regs.C = v
	case regD:
		c.Regs.D = v
	case regE:
		c.Regs.E = v
	case regH:
		c.Regs.SetIndexHigh(v)
	case regL:
		c.Regs.SetIndexLow(v)
	case regA:
		c.Regs.A = v
	default:
		panic("z80: writeReg8Direct called with (HL)-shaped code")
	}
}

// --- 16-bit register-pair access for rp[p] = BC,DE,HL/IX/IY,SP ---

func (c *CPU) getRP(p int) uint16 {
	switch p {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.IndexBase()
	case 3:
		return c.Regs.SP
	}
	panic("z80: bad rp index")
}

func (c *CPU) setRP(p int, v uint16) {
	switch p {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		switch c.Regs.Index {
		case register.IndexIX:
			c.Regs.IX = v
		case register.IndexIY:
			c.Regs.IY = v
		default:
			c.Regs.SetHL(v)
		}
	case 3:
		c.Regs.SP = v
	}
}

// getRP2/setRP2 select rp2[p] = BC,DE,HL/IX/IY,AF, used by PUSH/POP.
func (c *CPU) getRP2(p int) uint16 {
	if p == 3 {
		return c.Regs.AF()
	}
	return c.getRP(p)
}

func (c *CPU) setRP2(p int, v uint16) {
	if p == 3 {
		c.Regs.SetAF(v)
	} else {
		c.setRP(p, v)
	}
}

// condition evaluates one of the eight condition codes cc[y] used by
// conditional JP/JR/CALL/RET: NZ,Z,NC,C,PO,PE,P,M.
func (c *CPU) condition(cc int) bool {
	f := c.Regs.GetFlags()
	switch cc {
	case 0:
		return !f.Z
	case 1:
		return f.Z
	case 2:
		return !f.C
	case 3:
		return f.C
	case 4:
		return !f.P
	case 5:
		return f.P
	case 6:
		return !f.S
	case 7:
		return f.S
	}
	panic("z80: bad condition index")
}
