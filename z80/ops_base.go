package z80

import "github.com/intuitionamiga/zx48k/register"

// decodeBase handles the unprefixed opcode grid, also used (with
// Regs.Index != IndexHL) for DD/FD-prefixed instructions, since the
// grid is identical modulo the register-4/5/6 remap described in
// spec.md §4.1.
func (c *CPU) decodeBase(op byte) {
	switch op {
	case 0xCB:
		if c.Regs.Index != register.IndexHL {
			c.beginIndexedCBPrefix()
			return
		}
		c.Fetch.Prefix = PrefixCB
		c.enqueuePrefixFetch()
		return
	case 0xED:
		c.Fetch.Prefix = PrefixED
		c.Regs.Index = register.IndexHL
		c.enqueuePrefixFetch()
		return
	case 0xDD:
		c.Regs.Index = register.IndexIX
		c.enqueuePrefixFetch()
		return
	case 0xFD:
		c.Regs.Index = register.IndexIY
		c.enqueuePrefixFetch()
		return
	}

	x, y, z, p, q := opcodeFields(op)
	switch x {
	case 0:
		c.decodeX0(y, z, q, p)
	case 1:
		c.decodeX1(y, z)
	case 2:
		c.decodeX2(y, z)
	case 3:
		c.decodeX3(y, z, q, p)
	}
}

func (c *CPU) beginIndexedCBPrefix() {
	if c.Regs.Index == register.IndexIX {
		c.Fetch.Prefix = PrefixDDCB
	} else {
		c.Fetch.Prefix = PrefixFDCB
	}
	c.pushReadPcDisplacement()
	c.cont = func(c *CPU) { c.enqueuePrefixFetch() }
}

// decodeX0 covers x=0: control flow, LD rp,nn / rp16 memory forms,
// INC/DEC rp, INC/DEC r, LD r,n, and the A-only rotate/misc group.
func (c *CPU) decodeX0(y, z, q, p int) {
	switch z {
	case 0: // relative jumps, NOP, EX AF,AF'
		switch y {
		case 0: // NOP
		case 1: // EX AF,AF'
			c.Regs.ExAF()
		case 2: // DJNZ d
			c.pushReadPcDisplacement()
			c.cont = func(c *CPU) {
				c.Regs.B--
				if c.Regs.B != 0 {
					c.Regs.PC = uint16(int32(c.Regs.PC) + int32(c.Fetch.D))
					c.pushDelay(12) // taken: 13 T total = 4 (M1) + 3 (displacement read) + 6 here
				}
			}
		case 3: // JR d
			c.pushReadPcDisplacement()
			c.cont = func(c *CPU) {
				c.Regs.PC = uint16(int32(c.Regs.PC) + int32(c.Fetch.D))
				c.pushDelay(10)
			}
		default: // JR cc,d  (y=4..7 -> cc=y-4)
			cc := y - 4
			c.pushReadPcDisplacement()
			c.cont = func(c *CPU) {
				if c.condition(cc) {
					c.Regs.PC = uint16(int32(c.Regs.PC) + int32(c.Fetch.D))
					c.pushDelay(10)
				}
			}
		}
	case 1: // LD rp,nn / ADD HL,rp
		if q == 0 {
			var lo, hi byte
			c.pushReadPcByte(&lo)
			c.pushReadPcByte(&hi)
			c.cont = func(c *CPU) {
				c.setRP(p, uint16(hi)<<8|uint16(lo))
			}
		} else {
			c.opAddHLrp(p)
		}
	case 2: // indirect LD forms
		c.decodeX0Z2(y)
	case 3: // INC/DEC rp
		if q == 0 {
			c.setRP(p, c.getRP(p)+1)
		} else {
			c.setRP(p, c.getRP(p)-1)
		}
		c.pushDelay(4)
	case 4: // INC r
		c.decodeIncDecReg(y, true)
	case 5: // DEC r
		c.decodeIncDecReg(y, false)
	case 6: // LD r,n
		c.decodeLdRegImm(y)
	case 7: // A-only rotate/misc group
		c.decodeX0Z7(y)
	}
}

func (c *CPU) decodeX0Z2(y int) {
	switch y {
	case 0: // LD (BC),A
		c.pushMemWrite(c.Regs.BC(), c.Regs.A)
	case 1: // LD A,(BC)
		c.pushMemRead(c.Regs.BC(), &c.Regs.A)
	case 2: // LD (DE),A
		c.pushMemWrite(c.Regs.DE(), c.Regs.A)
	case 3: // LD A,(DE)
		c.pushMemRead(c.Regs.DE(), &c.Regs.A)
	case 4: // LD (nn),HL
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			addr := uint16(hi)<<8 | uint16(lo)
			base := c.Regs.IndexBase()
			c.pushMemWrite(addr, byte(base))
			c.pushMemWrite(addr+1, byte(base>>8))
		}
	case 5: // LD HL,(nn)
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			addr := uint16(hi)<<8 | uint16(lo)
			var vlo, vhi byte
			c.pushMemRead(addr, &vlo)
			c.pushMemRead(addr+1, &vhi)
			c.cont = func(c *CPU) {
				c.setRP(2, uint16(vhi)<<8|uint16(vlo))
			}
		}
	case 6: // LD (nn),A
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			c.pushMemWrite(uint16(hi)<<8|uint16(lo), c.Regs.A)
		}
	case 7: // LD A,(nn)
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			c.pushMemRead(uint16(hi)<<8|uint16(lo), &c.Regs.A)
		}
	}
}

func (c *CPU) decodeIncDecReg(y int, inc bool) {
	if y == regHLmem {
		addr := c.effectiveAddr6()
		c.afterDisplacement(func() {
			var v byte
			c.pushMemRead(addr(), &v)
			c.cont = func(c *CPU) {
				var r byte
				if inc {
					r = inc8(&c.Regs, v)
				} else {
					r = dec8(&c.Regs, v)
				}
				c.pushMemWrite(addr(), r)
			}
		})
		return
	}
	v := c.readReg8Direct(y)
	var r byte
	if inc {
		r = inc8(&c.Regs, v)
	} else {
		r = dec8(&c.Regs, v)
	}
	c.writeReg8Direct(y, r)
}

func (c *CPU) decodeLdRegImm(y int) {
	if y == regHLmem {
		addr := c.effectiveAddr6()
		c.afterDisplacement(func() {
			var n byte
			c.pushReadPcByte(&n)
			c.cont = func(c *CPU) {
				c.pushMemWrite(addr(), n)
			}
		})
		return
	}
	var n byte
	c.pushReadPcByte(&n)
	c.cont = func(c *CPU) {
		c.writeReg8Direct(y, n)
	}
}

func (c *CPU) decodeX0Z7(y int) {
	switch y {
	case 0:
		applyRotateA(&c.Regs, rlc(c.Regs.A))
	case 1:
		applyRotateA(&c.Regs, rrc(c.Regs.A))
	case 2:
		applyRotateA(&c.Regs, rl(c.Regs.A, c.Regs.GetFlags().C))
	case 3:
		applyRotateA(&c.Regs, rr(c.Regs.A, c.Regs.GetFlags().C))
	case 4:
		daa(&c.Regs)
	case 5: // CPL
		c.Regs.A = ^c.Regs.A
		f := c.Regs.GetFlags()
		f.H, f.N = true, true
		f.F5 = c.Regs.A&0x20 != 0
		f.F3 = c.Regs.A&0x08 != 0
		c.Regs.SetFlags(f)
	case 6: // SCF
		f := c.Regs.GetFlags()
		f.H, f.N, f.C = false, false, true
		f.F5 = c.Regs.A&0x20 != 0
		f.F3 = c.Regs.A&0x08 != 0
		c.Regs.SetFlags(f)
	case 7: // CCF
		f := c.Regs.GetFlags()
		f.H = f.C
		f.N = false
		f.C = !f.C
		f.F5 = c.Regs.A&0x20 != 0
		f.F3 = c.Regs.A&0x08 != 0
		c.Regs.SetFlags(f)
	}
}

func (c *CPU) opAddHLrp(p int) {
	hl := c.Regs.IndexBase()
	rp := c.getRP(p)
	sum := uint32(hl) + uint32(rp)
	f := c.Regs.GetFlags()
	f.H = (hl&0x0FFF)+(rp&0x0FFF) > 0x0FFF
	f.C = sum > 0xFFFF
	f.N = false
	f.F5 = byte(sum>>8)&0x20 != 0
	f.F3 = byte(sum>>8)&0x08 != 0
	c.Regs.SetFlags(f)
	c.setRP(2, uint16(sum))
	c.pushDelay(14)
}

// decodeX1 is 8-bit LD r,r' (HALT when y=z=6).
func (c *CPU) decodeX1(y, z int) {
	if y == regHLmem && z == regHLmem {
		c.Halted = true
		return
	}
	switch {
	case y == regHLmem:
		addr := c.effectiveAddr6()
		c.afterDisplacement(func() {
			c.pushMemWrite(addr(), c.readReg8Direct(z))
		})
	case z == regHLmem:
		addr := c.effectiveAddr6()
		c.afterDisplacement(func() {
			var v byte
			c.pushMemRead(addr(), &v)
			c.cont = func(c *CPU) { c.writeReg8Direct(y, v) }
		})
	default:
		c.writeReg8Direct(y, c.readReg8Direct(z))
	}
}

// decodeX2 is ALU op[y] with r[z].
func (c *CPU) decodeX2(y, z int) {
	op := aluOp(y)
	if z == regHLmem {
		addr := c.effectiveAddr6()
		c.afterDisplacement(func() {
			var v byte
			c.pushMemRead(addr(), &v)
			c.cont = func(c *CPU) { applyALU(&c.Regs, op, v) }
		})
		return
	}
	applyALU(&c.Regs, op, c.readReg8Direct(z))
}

// decodeX3 is RET cc / POP / JP cc,nn / misc / PUSH / RST and the
// x=3,z=6 ALU-immediate / x=3,z=7 RST table.
func (c *CPU) decodeX3(y, z, q, p int) {
	switch z {
	case 0: // RET cc
		c.pushDelay(2)
		c.cont = func(c *CPU) {
			if c.condition(y) {
				var dst uint16
				c.pushPop(&dst)
				c.cont = func(c *CPU) { c.Regs.PC = dst }
			}
		}
	case 1:
		if q == 0 { // POP rp2
			var dst uint16
			c.pushPop(&dst)
			c.cont = func(c *CPU) { c.setRP2(p, dst) }
		} else {
			c.decodeX3Z1Q1(p)
		}
	case 2: // JP cc,nn
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			if c.condition(y) {
				c.Regs.PC = uint16(hi)<<8 | uint16(lo)
			}
		}
	case 3:
		c.decodeX3Z3(y)
	case 4: // CALL cc,nn
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			if c.condition(y) {
				c.pushDelay(2)
				c.cont = func(c *CPU) {
					c.pushPush(c.Regs.PC)
					c.cont = func(c *CPU) {
						c.Regs.PC = uint16(hi)<<8 | uint16(lo)
					}
				}
			}
		}
	case 5:
		if q == 0 { // PUSH rp2
			c.pushDelay(2)
			c.cont = func(c *CPU) { c.pushPush(c.getRP2(p)) }
		} else if p == 0 { // CALL nn
			var lo, hi byte
			c.pushReadPcByte(&lo)
			c.pushReadPcByte(&hi)
			c.cont = func(c *CPU) {
				c.pushDelay(2)
				c.cont = func(c *CPU) {
					c.pushPush(c.Regs.PC)
					c.cont = func(c *CPU) {
						c.Regs.PC = uint16(hi)<<8 | uint16(lo)
					}
				}
			}
		}
	case 6: // ALU n
		op := aluOp(y)
		var n byte
		c.pushReadPcByte(&n)
		c.cont = func(c *CPU) { applyALU(&c.Regs, op, n) }
	case 7: // RST y*8
		c.pushDelay(2)
		c.cont = func(c *CPU) {
			c.pushPush(c.Regs.PC)
			c.cont = func(c *CPU) { c.Regs.PC = uint16(y) * 8 }
		}
	}
}

func (c *CPU) decodeX3Z1Q1(p int) {
	switch p {
	case 0: // RET
		var dst uint16
		c.pushPop(&dst)
		c.cont = func(c *CPU) { c.Regs.PC = dst }
	case 1: // EXX
		c.Regs.Exx()
	case 2: // JP (HL)/(IX)/(IY)
		c.Regs.PC = c.Regs.IndexBase()
	case 3: // LD SP,HL/IX/IY
		c.Regs.SP = c.Regs.IndexBase()
		c.pushDelay(4)
	}
}

func (c *CPU) decodeX3Z3(y int) {
	switch y {
	case 0: // JP nn
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) { c.Regs.PC = uint16(hi)<<8 | uint16(lo) }
	case 1:
		if c.Regs.Index != register.IndexHL {
			c.beginIndexedCBPrefix()
			return
		}
		c.Fetch.Prefix = PrefixCB
		c.enqueuePrefixFetch()
	case 2: // OUT (n),A
		var n byte
		c.pushReadPcByte(&n)
		c.cont = func(c *CPU) {
			c.pushPortWrite(uint16(c.Regs.A)<<8|uint16(n), c.Regs.A)
		}
	case 3: // IN A,(n)
		var n byte
		c.pushReadPcByte(&n)
		c.cont = func(c *CPU) {
			c.pushPortRead(uint16(c.Regs.A)<<8|uint16(n), &c.Regs.A)
		}
	case 4: // EX (SP),HL
		sp := c.Regs.SP
		var lo, hi byte
		c.pushMemRead(sp, &lo)
		c.pushMemRead(sp+1, &hi)
		c.cont = func(c *CPU) {
			base := c.Regs.IndexBase()
			c.pushMemWrite(sp, byte(base))
			c.pushMemWrite(sp+1, byte(base>>8))
			c.cont = func(c *CPU) {
				c.setRP(2, uint16(hi)<<8|uint16(lo))
				c.pushDelay(2)
			}
		}
	case 5: // EX DE,HL
		de, hl := c.Regs.DE(), c.Regs.HL()
		c.Regs.SetDE(hl)
		c.Regs.SetHL(de)
	case 6: // DI
		c.Regs.IFF1, c.Regs.IFF2 = false, false
	case 7: // EI
		c.Regs.IFF1, c.Regs.IFF2 = true, true
	}
}

// effectiveAddr6 resolves register code 6's address as a closure so
// the displacement (when indexed) is only read once it has actually
// been fetched; see afterDisplacement.
func (c *CPU) effectiveAddr6() func() uint16 {
	switch c.Regs.Index {
	case register.IndexIX:
		return func() uint16 { return uint16(int32(c.Regs.IX) + int32(c.Fetch.D)) }
	case register.IndexIY:
		return func() uint16 { return uint16(int32(c.Regs.IY) + int32(c.Fetch.D)) }
	default:
		return func() uint16 { return c.Regs.HL() }
	}
}

// afterDisplacement runs k immediately when indexing is inactive
// (plain (HL), no extra bus cycle), or first fetches the signed
// displacement byte and folds it into the base register before
// running k, when IX/IY indexing is active — per spec.md §4.1's rule
// that the displacement must be read before the (HL)-shaped operand.
func (c *CPU) afterDisplacement(k func()) {
	if c.Regs.Index == register.IndexHL {
		k()
		return
	}
	c.pushReadPcDisplacement()
	c.pushDelay(10)
	c.cont = func(c *CPU) { k() }
}
