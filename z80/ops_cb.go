package z80

// cbRotate applies one of the eight CB rotate/shift operations keyed
// by y: RLC,RRC,RL,RR,SLA,SRA,SLL,SRL.
func (c *CPU) cbRotate(y int, v byte) byte {
	carryIn := c.Regs.GetFlags().C
	var res rotateResult
	switch y {
	case 0:
		res = rlc(v)
	case 1:
		res = rrc(v)
	case 2:
		res = rl(v, carryIn)
	case 3:
		res = rr(v, carryIn)
	case 4:
		res = sla(v)
	case 5:
		res = sra(v)
	case 6:
		res = sll(v)
	case 7:
		res = srl(v)
	}
	return applyRotateGeneral(&c.Regs, res)
}

// bitTest sets Z (and S/P mirrors, undocumented F3/F5 copied from the
// tested value) per BIT y,r; it never writes memory.
func (c *CPU) bitTest(y int, v byte) {
	f := c.Regs.GetFlags()
	bit := v & (1 << uint(y))
	f.Z = bit == 0
	f.P = bit == 0
	f.H = true
	f.N = false
	f.S = y == 7 && bit != 0
	f.F5 = v&0x20 != 0
	f.F3 = v&0x08 != 0
	c.Regs.SetFlags(f)
}

// decodeCB handles the plain (unindexed) CB-prefixed opcode grid:
// x=0 rotate/shift, x=1 BIT, x=2 RES, x=3 SET, dispatched over
// register code z (register direct, or (HL) via one memory round
// trip).
func (c *CPU) decodeCB(op byte, _ func() uint16, _ bool) {
	x, y, z, _, _ := opcodeFields(op)
	if z == regHLmem {
		addr := c.Regs.HL()
		var v byte
		c.pushMemRead(addr, &v)
		c.cont = func(c *CPU) {
			c.runCBGroup(x, y, z, v, func(r byte) { c.pushMemWrite(addr, r) })
		}
		return
	}
	v := c.readReg8Direct(z)
	c.runCBGroup(x, y, z, v, func(r byte) { c.writeReg8Direct(z, r) })
}

func (c *CPU) runCBGroup(x, y, z int, v byte, writeBack func(byte)) {
	switch x {
	case 0:
		writeBack(c.cbRotate(y, v))
	case 1:
		c.bitTest(y, v)
	case 2:
		writeBack(v &^ (1 << uint(y)))
	case 3:
		writeBack(v | (1 << uint(y)))
	}
}

// decodeIndexedCB handles DDCB/FDCB: the displacement was already
// fetched (by beginIndexedCBPrefix) into Fetch.D, and the opcode byte
// is this CB byte's successor. The operand is always (IX+d)/(IY+d);
// when z != 6 the result is additionally copied into register z (the
// documented "undocumented" indexed-CB side effect).
func (c *CPU) decodeIndexedCB(op byte) {
	x, y, z, _, _ := opcodeFields(op)
	base := c.Regs.IX
	if c.Fetch.Prefix == PrefixFDCB {
		base = c.Regs.IY
	}
	addr := uint16(int32(base) + int32(c.Fetch.D))
	var v byte
	c.pushMemRead(addr, &v)
	c.cont = func(c *CPU) {
		switch x {
		case 0:
			r := c.cbRotate(y, v)
			c.pushMemWrite(addr, r)
			if z != regHLmem {
				c.cont = func(c *CPU) { c.writeReg8Plain(z, r) }
			}
		case 1:
			c.bitTest(y, v)
			c.pushDelay(4)
		case 2:
			r := v &^ (1 << uint(y))
			c.pushMemWrite(addr, r)
			if z != regHLmem {
				c.cont = func(c *CPU) { c.writeReg8Plain(z, r) }
			}
		case 3:
			r := v | (1 << uint(y))
			c.pushMemWrite(addr, r)
			if z != regHLmem {
				c.cont = func(c *CPU) { c.writeReg8Plain(z, r) }
			}
		}
	}
}
