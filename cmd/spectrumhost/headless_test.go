//go:build headless

package main

import (
	"testing"

	"github.com/intuitionamiga/zx48k/ula"
)

func readRow(u *ula.ULA, row int) byte {
	rowMask := byte(0xFF) &^ (1 << uint(row))
	return u.ReadPort(uint16(rowMask) << 8)
}

func TestStdinKeyboardPressReleasesPriorChord(t *testing.T) {
	u := ula.New()
	k := newStdinKeyboard(u)

	k.press('a')
	keys := asciiMatrix['a']
	row, bit := keys[0].row, keys[0].bit
	if readRow(u, row)&(1<<uint(bit)) != 0 {
		t.Fatalf("expected bit %d of row %d clear (pressed) after press('a')", bit, row)
	}

	k.press('b')
	if readRow(u, row)&(1<<uint(bit)) == 0 {
		t.Fatalf("expected 'a' chord released once 'b' is staged")
	}
}

func TestStdinKeyboardUnknownByteLeavesMatrixReleased(t *testing.T) {
	u := ula.New()
	k := newStdinKeyboard(u)
	k.press('a')
	k.press(0x00) // not in asciiMatrix
	if k.held != nil {
		t.Fatal("expected no held chord for an unmapped byte")
	}
}
