package z80

import "github.com/intuitionamiga/zx48k/register"

// decodeED handles the ED-prefixed grid: x=1 is I/O, 16-bit ADC/SBC,
// memory 16-bit transfers, NEG, RETN/RETI, IM, the I/R load/store
// quartet and RLD/RRD; x=2,y>=4 is the sixteen block instructions.
// Everything else is an undocumented ED NOP (consumes the prefix and
// opcode fetch only, per property P1: no panic, no orphaned state).
func (c *CPU) decodeED(op byte) {
	x, y, z, p, q := opcodeFields(op)
	switch {
	case x == 1:
		c.decodeEDx1(y, z, p, q)
	case x == 2 && y >= 4:
		c.decodeEDBlock(y, z)
	default:
		// Undocumented ED NOP.
	}
}

func (c *CPU) decodeEDx1(y, z, p, q int) {
	switch z {
	case 0: // IN r,(C) / IN (C) (y=6, flags only)
		c.pushPortRead(c.Regs.BC(), &c.Fetch.N)
		c.cont = func(c *CPU) {
			v := c.Fetch.N
			f := c.Regs.GetFlags()
			f.S = v&0x80 != 0
			f.Z = v == 0
			f.P = parityTable[v]
			f.H, f.N = false, false
			f.F5 = v&0x20 != 0
			f.F3 = v&0x08 != 0
			c.Regs.SetFlags(f)
			if y != 6 {
				c.writeReg8Plain(y, v)
			}
		}
	case 1: // OUT (C),r / OUT (C),0
		v := byte(0)
		if y != 6 {
			v = c.readReg8Direct(y)
		}
		c.pushPortWrite(c.Regs.BC(), v)
	case 2: // SBC/ADC HL,rp
		hl := c.Regs.HL()
		rp := c.getRP(p)
		carry := c.Regs.GetFlags().C
		if q == 0 {
			r, f := sbc16(hl, rp, carry)
			c.Regs.SetHL(r)
			c.Regs.SetFlags(f)
		} else {
			r, f := adc16(hl, rp, carry)
			c.Regs.SetHL(r)
			c.Regs.SetFlags(f)
		}
		c.pushDelay(14)
	case 3: // LD (nn),rp / LD rp,(nn)
		var lo, hi byte
		c.pushReadPcByte(&lo)
		c.pushReadPcByte(&hi)
		c.cont = func(c *CPU) {
			addr := uint16(hi)<<8 | uint16(lo)
			if q == 0 {
				rp := c.getRP(p)
				c.pushMemWrite(addr, byte(rp))
				c.pushMemWrite(addr+1, byte(rp>>8))
			} else {
				var vlo, vhi byte
				c.pushMemRead(addr, &vlo)
				c.pushMemRead(addr+1, &vhi)
				c.cont = func(c *CPU) { c.setRP(p, uint16(vhi)<<8|uint16(vlo)) }
			}
		}
	case 4: // NEG
		r, f := addSub(0, c.Regs.A, false, true)
		c.Regs.A = r
		c.Regs.SetFlags(f)
	case 5: // RETN / RETI
		var dst uint16
		c.pushPop(&dst)
		c.cont = func(c *CPU) {
			c.Regs.PC = dst
			c.Regs.IFF1 = c.Regs.IFF2
		}
	case 6: // IM 0/1/2
		switch y {
		case 0, 4:
			c.Regs.IM = register.IM0
		case 2, 6:
			c.Regs.IM = register.IM1
		case 3, 7:
			c.Regs.IM = register.IM2
		case 1, 5:
			c.Regs.IM = register.IM0
		}
	case 7:
		c.decodeEDMisc(y)
	}
}

func (c *CPU) decodeEDMisc(y int) {
	switch y {
	case 0: // LD I,A
		c.Regs.I = c.Regs.A
		c.pushDelay(2)
	case 1: // LD R,A
		c.Regs.R = c.Regs.A
		c.pushDelay(2)
	case 2: // LD A,I
		c.Regs.A = c.Regs.I
		c.setLdAIRFlags(c.Regs.I)
		c.pushDelay(2)
	case 3: // LD A,R
		c.Regs.A = c.Regs.R
		c.setLdAIRFlags(c.Regs.R)
		c.pushDelay(2)
	case 4: // RRD
		c.opRRD()
	case 5: // RLD
		c.opRLD()
	case 6, 7: // NOP (ED55/ED5D undocumented duplicates)
	}
}

// setLdAIRFlags sets S,Z,F5,F3 from the loaded value, H=N=0, and P
// from IFF2 (LD A,I / LD A,R's documented overflow-flag behaviour).
func (c *CPU) setLdAIRFlags(v byte) {
	f := c.Regs.GetFlags()
	f.S = v&0x80 != 0
	f.Z = v == 0
	f.H, f.N = false, false
	f.P = c.Regs.IFF2
	f.F5 = v&0x20 != 0
	f.F3 = v&0x08 != 0
	c.Regs.SetFlags(f)
}

func sbc16(a, b uint16, carryIn bool) (uint16, register.Flags) {
	bb := uint32(b)
	if carryIn {
		bb++
	}
	result := int32(a) - int32(bb)
	var f register.Flags
	r := uint16(result)
	f.S = r&0x8000 != 0
	f.Z = r == 0
	f.N = true
	f.C = result < 0
	halfKey := ((a & 0x8800) >> 11) | ((uint16(bb) & 0x8800) >> 10) | ((r & 0x8800) >> 9)
	f.H = halfcarrySub[int(halfKey)&0x07]
	f.P = overflowSub[int(halfKey)>>4]
	f.F5 = byte(r>>8)&0x20 != 0
	f.F3 = byte(r>>8)&0x08 != 0
	return r, f
}

func adc16(a, b uint16, carryIn bool) (uint16, register.Flags) {
	bb := uint32(b)
	if carryIn {
		bb++
	}
	result := uint32(a) + bb
	var f register.Flags
	r := uint16(result)
	f.S = r&0x8000 != 0
	f.Z = r == 0
	f.N = false
	f.C = result > 0xFFFF
	halfKey := ((a & 0x8800) >> 11) | ((uint16(bb) & 0x8800) >> 10) | ((r & 0x8800) >> 9)
	f.H = halfcarryAdd[int(halfKey)&0x07]
	f.P = overflowAdd[int(halfKey)>>4]
	f.F5 = byte(r>>8)&0x20 != 0
	f.F3 = byte(r>>8)&0x08 != 0
	return r, f
}

func (c *CPU) opRRD() {
	addr := c.Regs.HL()
	var m byte
	c.pushMemRead(addr, &m)
	c.cont = func(c *CPU) {
		a := c.Regs.A
		newM := (a&0x0F)<<4 | (m >> 4)
		newA := (a & 0xF0) | (m & 0x0F)
		c.Regs.A = newA
		c.pushMemWrite(addr, newM)
		c.cont = func(c *CPU) {
			f := c.Regs.GetFlags()
			f.S = newA&0x80 != 0
			f.Z = newA == 0
			f.H, f.N = false, false
			f.P = parityTable[newA]
			f.F5 = newA&0x20 != 0
			f.F3 = newA&0x08 != 0
			c.Regs.SetFlags(f)
			c.pushDelay(8)
		}
	}
}

func (c *CPU) opRLD() {
	addr := c.Regs.HL()
	var m byte
	c.pushMemRead(addr, &m)
	c.cont = func(c *CPU) {
		a := c.Regs.A
		newM := (m << 4) | (a & 0x0F)
		newA := (a & 0xF0) | (m >> 4)
		c.Regs.A = newA
		c.pushMemWrite(addr, newM)
		c.cont = func(c *CPU) {
			f := c.Regs.GetFlags()
			f.S = newA&0x80 != 0
			f.Z = newA == 0
			f.H, f.N = false, false
			f.P = parityTable[newA]
			f.F5 = newA&0x20 != 0
			f.F3 = newA&0x08 != 0
			c.Regs.SetFlags(f)
			c.pushDelay(8)
		}
	}
}
