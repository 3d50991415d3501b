// Package register implements the Z80 architectural register file: the
// eight 8-bit main registers and their shadow set, the flag register as
// eight independent booleans, the index registers, and the control
// registers (SP, PC, I, R, the interrupt flip-flops and mode, the M1
// marker and the index-mode selector used during decode).
package register

// Flags holds the eight Z80 condition bits as independent booleans,
// mirroring the bit layout of F: S=7 Z=6 F5=5 H=4 F3=3 P=2 N=1 C=0.
type Flags struct {
	S  bool
	Z  bool
	F5 bool
	H  bool
	F3 bool
	P  bool
	N  bool
	C  bool
}

const (
	FlagS  = 0x80
	FlagZ  = 0x40
	FlagF5 = 0x20
	FlagH  = 0x10
	FlagF3 = 0x08
	FlagPV = 0x04
	FlagN  = 0x02
	FlagC  = 0x01
)

// Byte serializes the flags into an F register value.
func (f Flags) Byte() byte {
	var b byte
	if f.S {
		b |= FlagS
	}
	if f.Z {
		b |= FlagZ
	}
	if f.F5 {
		b |= FlagF5
	}
	if f.H {
		b |= FlagH
	}
	if f.F3 {
		b |= FlagF3
	}
	if f.P {
		b |= FlagPV
	}
	if f.N {
		b |= FlagN
	}
	if f.C {
		b |= FlagC
	}
	return b
}

// SetByte loads the flags from a raw F register value.
func (f *Flags) SetByte(b byte) {
	f.S = b&FlagS != 0
	f.Z = b&FlagZ != 0
	f.F5 = b&FlagF5 != 0
	f.H = b&FlagH != 0
	f.F3 = b&FlagF3 != 0
	f.P = b&FlagPV != 0
	f.N = b&FlagN != 0
	f.C = b&FlagC != 0
}
