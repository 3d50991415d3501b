package z80

// decodeEDBlock dispatches the sixteen ED block instructions: z
// selects LD/CP/IN/OUT, y selects increment-once (4), decrement-once
// (5), increment-repeat (6) or decrement-repeat (7).
func (c *CPU) decodeEDBlock(y, z int) {
	inc := y == 4 || y == 6
	repeat := y == 6 || y == 7
	switch z {
	case 0:
		c.blockLD(inc, repeat)
	case 1:
		c.blockCP(inc, repeat)
	case 2:
		c.blockIN(inc, repeat)
	case 3:
		c.blockOUT(inc, repeat)
	}
}

func step(hl uint16, inc bool) uint16 {
	if inc {
		return hl + 1
	}
	return hl - 1
}

// blockLD implements LDI/LDD/LDIR/LDDR (spec.md §4.1): read (HL),
// write (DE), pad, adjust HL/DE/BC and set P=(BC!=0), H=N=0.
func (c *CPU) blockLD(inc, repeat bool) {
	var v byte
	c.pushMemRead(c.Regs.HL(), &v)
	c.cont = func(c *CPU) {
		c.pushMemWrite(c.Regs.DE(), v)
		c.cont = func(c *CPU) {
			c.pushDelay(4)
			c.cont = func(c *CPU) {
				c.Regs.SetHL(step(c.Regs.HL(), inc))
				c.Regs.SetDE(step(c.Regs.DE(), inc))
				c.Regs.SetBC(c.Regs.BC() - 1)
				f := c.Regs.GetFlags()
				f.H, f.N = false, false
				f.P = c.Regs.BC() != 0
				n := v + c.Regs.A
				f.F5 = n&0x02 != 0
				f.F3 = n&0x08 != 0
				c.Regs.SetFlags(f)
				if repeat && c.Regs.BC() != 0 {
					c.Regs.PC -= 2
					c.pushDelay(10)
				}
			}
		}
	}
}

// blockCP implements CPI/CPD/CPIR/CPDR: CP A,(HL) without writing A,
// then adjust HL/BC.
func (c *CPU) blockCP(inc, repeat bool) {
	var v byte
	c.pushMemRead(c.Regs.HL(), &v)
	c.cont = func(c *CPU) {
		c.pushDelay(10)
		c.cont = func(c *CPU) {
			_, f := addSub(c.Regs.A, v, false, true)
			c.Regs.SetHL(step(c.Regs.HL(), inc))
			c.Regs.SetBC(c.Regs.BC() - 1)
			f.P = c.Regs.BC() != 0
			n := c.Regs.A - v
			if f.H {
				n--
			}
			f.F5 = n&0x02 != 0
			f.F3 = n&0x08 != 0
			c.Regs.SetFlags(f)
			if repeat && c.Regs.BC() != 0 && !f.Z {
				c.Regs.PC -= 2
				c.pushDelay(10)
			}
		}
	}
}

// blockIN implements INI/IND/INIR/INDR: read port (C) into (HL),
// decrement B, adjust HL.
func (c *CPU) blockIN(inc, repeat bool) {
	c.pushDelay(2)
	c.cont = func(c *CPU) {
		var v byte
		c.pushPortRead(c.Regs.BC(), &v)
		c.cont = func(c *CPU) {
			c.pushMemWrite(c.Regs.HL(), v)
			c.cont = func(c *CPU) {
				c.Regs.B--
				c.Regs.SetHL(step(c.Regs.HL(), inc))
				f := c.Regs.GetFlags()
				f.Z = c.Regs.B == 0
				f.N = v&0x80 != 0
				f.F5 = c.Regs.B&0x20 != 0
				f.F3 = c.Regs.B&0x08 != 0
				c.Regs.SetFlags(f)
				if repeat && c.Regs.B != 0 {
					c.Regs.PC -= 2
					c.pushDelay(10)
				}
			}
		}
	}
}

// blockOUT implements OUTI/OUTD/OTIR/OTDR: write (HL) to port (C),
// decrement B, adjust HL.
func (c *CPU) blockOUT(inc, repeat bool) {
	c.pushDelay(2)
	c.cont = func(c *CPU) {
		var v byte
		c.pushMemRead(c.Regs.HL(), &v)
		c.cont = func(c *CPU) {
			c.Regs.B--
			c.pushPortWrite(c.Regs.BC(), v)
			c.cont = func(c *CPU) {
				c.Regs.SetHL(step(c.Regs.HL(), inc))
				f := c.Regs.GetFlags()
				f.Z = c.Regs.B == 0
				f.N = v&0x80 != 0
				f.F5 = c.Regs.B&0x20 != 0
				f.F3 = c.Regs.B&0x08 != 0
				c.Regs.SetFlags(f)
				if repeat && c.Regs.B != 0 {
					c.Regs.PC -= 2
					c.pushDelay(10)
				}
			}
		}
	}
}
