package z80

import "github.com/intuitionamiga/zx48k/register"

// aluOp identifies one of the eight ALU operations selectable by the
// opcode field y in the x=2 (ALU op[y] with r[z]) and x=3 immediate
// grid rows.
type aluOp int

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

// addSub performs an 8-bit add or subtract (optionally with carry-in)
// and sets S,Z,F5,H,F3,P,N,C per the lookup-table rule. It returns the
// result; CP-style callers discard it and leave A unmodified.
func addSub(a, b byte, carryIn bool, subtract bool) (byte, register.Flags) {
	var result int
	var key int
	if subtract {
		bb := b
		if carryIn {
			bb++
		}
		result = int(a) - int(bb)
		key = lookupKey(a, bb, byte(result))
	} else {
		bb := int(b)
		if carryIn {
			bb++
		}
		result = int(a) + bb
		key = lookupKey(a, byte(bb), byte(result))
	}
	r := byte(result)

	var f register.Flags
	f.S = r&0x80 != 0
	f.Z = r == 0
	f.F5 = r&0x20 != 0
	f.F3 = r&0x08 != 0
	f.N = subtract
	if subtract {
		f.H = halfcarrySub[key&0x07]
		f.P = overflowSub[key>>4]
	} else {
		f.H = halfcarryAdd[key&0x07]
		f.P = overflowAdd[key>>4]
	}
	if subtract {
		f.C = result < 0
	} else {
		f.C = result > 0xFF
	}
	return r, f
}

// logical performs AND/OR/XOR and sets flags per spec: H=1 for AND
// else 0, N=C=0, P=parity, S/Z/F3/F5 from the result.
func logical(op aluOp, a, b byte) (byte, register.Flags) {
	var r byte
	switch op {
	case aluAnd:
		r = a & b
	case aluOr:
		r = a | b
	case aluXor:
		r = a ^ b
	}
	var f register.Flags
	f.S = r&0x80 != 0
	f.Z = r == 0
	f.F5 = r&0x20 != 0
	f.F3 = r&0x08 != 0
	f.H = op == aluAnd
	f.P = parityTable[r]
	return r, f
}

// applyALU performs the named ALU operation of A against value,
// writing the result back into A (except for CP, which only sets
// flags) and updating the flag register.
func applyALU(regs *register.Registers, op aluOp, value byte) {
	switch op {
	case aluAdd:
		r, f := addSub(regs.A, value, false, false)
		regs.A = r
		regs.SetFlags(f)
	case aluAdc:
		r, f := addSub(regs.A, value, regs.GetFlags().C, false)
		regs.A = r
		regs.SetFlags(f)
	case aluSub:
		r, f := addSub(regs.A, value, false, true)
		regs.A = r
		regs.SetFlags(f)
	case aluSbc:
		r, f := addSub(regs.A, value, regs.GetFlags().C, true)
		regs.A = r
		regs.SetFlags(f)
	case aluAnd, aluOr, aluXor:
		r, f := logical(op, regs.A, value)
		regs.A = r
		regs.SetFlags(f)
	case aluCp:
		_, f := addSub(regs.A, value, false, true)
		// CP leaves A unmodified but copies F3/F5 from the operand,
		// not the result, matching documented undocumented-flag
		// behaviour for comparisons.
		f.F5 = value&0x20 != 0
		f.F3 = value&0x08 != 0
		regs.SetFlags(f)
	}
}

// daa applies the BCD correction described in spec.md §4.1: an
// additive/subtractive adjustment derived from A and the current H/N/C
// flags, with C and P/V overridden by the DAA-specific rule (property
// P8).
func daa(regs *register.Registers) {
	a := regs.A
	f := regs.GetFlags()
	adj := byte(0)
	if f.H || (!f.N && (a&0x0F) > 0x09) {
		adj |= 0x06
	}
	if f.C || (!f.N && a > 0x99) {
		adj |= 0x60
	}

	var res byte
	if f.N {
		res = a - adj
	} else {
		res = a + adj
	}

	var nf register.Flags
	nf.N = f.N
	nf.Z = res == 0
	nf.S = res&0x80 != 0
	nf.P = parityTable[res]
	if f.N {
		nf.H = (a^res)&0x10 != 0
	} else {
		nf.H = (a&0x0F)+(adj&0x0F) > 0x0F
	}
	nf.C = f.C || adj >= 0x60
	nf.F5 = res&0x20 != 0
	nf.F3 = res&0x08 != 0

	regs.A = res
	regs.SetFlags(nf)
}

// rotateResult is the outcome of an 8-bit rotate/shift used by both
// the A-only RLCA/RLA/RRCA/RRA forms and the general CB-prefixed forms.
type rotateResult struct {
	value    byte
	carryOut bool
}

func rlc(v byte) rotateResult {
	carry := v&0x80 != 0
	r := v << 1
	if carry {
		r |= 1
	}
	return rotateResult{r, carry}
}

func rrc(v byte) rotateResult {
	carry := v&0x01 != 0
	r := v >> 1
	if carry {
		r |= 0x80
	}
	return rotateResult{r, carry}
}

func rl(v byte, carryIn bool) rotateResult {
	carry := v&0x80 != 0
	r := v << 1
	if carryIn {
		r |= 1
	}
	return rotateResult{r, carry}
}

func rr(v byte, carryIn bool) rotateResult {
	carry := v&0x01 != 0
	r := v >> 1
	if carryIn {
		r |= 0x80
	}
	return rotateResult{r, carry}
}

func sla(v byte) rotateResult {
	carry := v&0x80 != 0
	return rotateResult{v << 1, carry}
}

func sra(v byte) rotateResult {
	carry := v&0x01 != 0
	r := (v >> 1) | (v & 0x80)
	return rotateResult{r, carry}
}

// sll is the undocumented "shift-left-logical-OR-1" variant.
func sll(v byte) rotateResult {
	carry := v&0x80 != 0
	r := (v << 1) | 1
	return rotateResult{r, carry}
}

func srl(v byte) rotateResult {
	carry := v&0x01 != 0
	return rotateResult{v >> 1, carry}
}

// applyRotateA applies one of the A-only rotate forms (RLCA, RLA,
// RRCA, RRA): C is set from the shifted-out bit, H=N=0, S/Z/P are
// unchanged.
func applyRotateA(regs *register.Registers, res rotateResult) {
	regs.A = res.value
	f := regs.GetFlags()
	f.H, f.N = false, false
	f.C = res.carryOut
	f.F5 = res.value&0x20 != 0
	f.F3 = res.value&0x08 != 0
	regs.SetFlags(f)
}

// applyRotateGeneral applies one of the CB-prefixed general rotate/
// shift forms: result, plus S, Z, P, F3, F5 recomputed from the
// result, H=N=0, C from the shifted-out bit.
func applyRotateGeneral(regs *register.Registers, res rotateResult) byte {
	var f register.Flags
	f.C = res.carryOut
	f.S = res.value&0x80 != 0
	f.Z = res.value == 0
	f.P = parityTable[res.value]
	f.F5 = res.value&0x20 != 0
	f.F3 = res.value&0x08 != 0
	regs.SetFlags(f)
	return res.value
}

// inc8 and dec8 implement INC r / DEC r: half-carry set when the low
// nibble rolls over, P/V set only at the signed-overflow boundary
// (0x7F->0x80 for INC, 0x80->0x7F for DEC). Carry is left untouched.
func inc8(regs *register.Registers, v byte) byte {
	r := v + 1
	f := regs.GetFlags()
	f.S = r&0x80 != 0
	f.Z = r == 0
	f.H = v&0x0F == 0x0F
	f.P = v == 0x7F
	f.N = false
	f.F5 = r&0x20 != 0
	f.F3 = r&0x08 != 0
	regs.SetFlags(f)
	return r
}

func dec8(regs *register.Registers, v byte) byte {
	r := v - 1
	f := regs.GetFlags()
	f.S = r&0x80 != 0
	f.Z = r == 0
	f.H = v&0x0F == 0x00
	f.P = v == 0x80
	f.N = true
	f.F5 = r&0x20 != 0
	f.F3 = r&0x08 != 0
	regs.SetFlags(f)
	return r
}
