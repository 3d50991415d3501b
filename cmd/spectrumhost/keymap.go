// keymap.go - host-key to Spectrum matrix translation, grounded on the
// teacher's video_backend_ebiten.go special-key and printable-char
// handling (runeToInputByte/translateSpecialKey), adapted from "emit a
// byte to a serial console" to "press/release a matrix cell".
package main

import "github.com/hajimehoshi/ebiten/v2"

// matrixKey identifies one cell of the Spectrum's 8x5 keyboard matrix,
// addressed the way ULA.SetKeyMatrix expects: row 0-7 (half-row
// selected by the high byte of port 0xFExx), bit 0-4.
type matrixKey struct {
	row, bit int
}

var (
	capsShift = matrixKey{0, 0}
	symShift  = matrixKey{7, 1}
)

// liveKeyMatrix maps a host key directly to the matrix cell it drives
// during live play (as opposed to asciiMatrix, which is consulted for
// clipboard paste and headless stdin input and needs no live Shift
// disambiguation since it stages a fixed chord per character).
var liveKeyMatrix = buildLiveKeyMatrix()

func buildLiveKeyMatrix() map[ebiten.Key]matrixKey {
	m := map[ebiten.Key]matrixKey{}
	row1 := "ASDFG"
	row2 := "QWERT"
	row0 := "ZXCV" // row 0 holds CAPS SHIFT at bit 0, then Z X C V
	row5 := "POIUY"
	row6 := "LKJH"
	row7 := "MNB"
	for i, c := range row1 {
		m[letterKey(c)] = matrixKey{1, i}
	}
	for i, c := range row2 {
		m[letterKey(c)] = matrixKey{2, i}
	}
	for i, c := range row0 {
		m[letterKey(c)] = matrixKey{0, i + 1}
	}
	for i, c := range row5 {
		m[letterKey(c)] = matrixKey{5, i}
	}
	for i, c := range row6 {
		m[letterKey(c)] = matrixKey{6, i + 1}
	}
	for i, c := range row7 {
		m[letterKey(c)] = matrixKey{7, i + 2}
	}
	row3 := "12345"
	row4 := "09876"
	for i, c := range row3 {
		m[digitKey(c)] = matrixKey{3, i}
	}
	for i, c := range row4 {
		m[digitKey(c)] = matrixKey{4, i}
	}
	return m
}

func letterKey(c rune) ebiten.Key {
	return ebiten.KeyA + ebiten.Key(c-'A')
}

func digitKey(c rune) ebiten.Key {
	return ebiten.Key0 + ebiten.Key(c-'0')
}

// asciiMatrix maps a printable ASCII character to the chord of matrix
// keys a real Spectrum keyboard would need held to type it. It covers
// space, newline (ENTER), the digits and the letters: lowercase letters
// and digits are a single key, uppercase letters add CAPS SHIFT.
// Punctuation and other symbols have no entry.
var asciiMatrix = buildASCIIMatrix()

func buildASCIIMatrix() map[rune][]matrixKey {
	m := map[rune][]matrixKey{
		' ':  {{7, 0}},
		'\n': {{6, 0}}, // ENTER
	}
	// Rows 3 and 4 hold 1-0 left-to-right; rows 1/2/0/5/6/7 hold the
	// letters, per the standard 48K matrix layout.
	row3 := "12345"
	row4 := "09876"
	for i, c := range row3 {
		m[c] = []matrixKey{{3, i}}
	}
	for i, c := range row4 {
		m[c] = []matrixKey{{4, i}}
	}
	row1 := "asdfg"
	row2 := "qwert"
	row5 := "poiuy"
	row6 := "lkjh"
	row0 := "zxcv"
	row7 := "mnb"
	for i, c := range row1 {
		m[c] = []matrixKey{{1, i}}
	}
	for i, c := range row2 {
		m[c] = []matrixKey{{2, i}}
	}
	for i, c := range row5 {
		m[c] = []matrixKey{{5, i}}
	}
	for i, c := range row6 {
		m[c] = []matrixKey{{6, i + 1}}
	}
	for i, c := range row0 {
		m[c] = []matrixKey{{0, i + 1}}
	}
	for i, c := range row7 {
		m[c] = []matrixKey{{7, i + 2}}
	}
	// Uppercase letters are the same key with CAPS SHIFT held.
	for c, keys := range m {
		if c >= 'a' && c <= 'z' {
			up := c - 'a' + 'A'
			m[up] = append([]matrixKey{capsShift}, keys...)
		}
	}
	return m
}

// specialKeys maps non-printable ebiten keys to the matrix chord a
// Spectrum user would press for the nearest equivalent: EDIT
// (CAPS SHIFT+1) is the closest the 48K has to Escape, and the cursor
// keys are CAPS SHIFT+5..8.
var specialKeys = map[ebiten.Key][]matrixKey{
	ebiten.KeyEnter:       {{6, 0}},
	ebiten.KeyNumpadEnter: {{6, 0}},
	ebiten.KeyBackspace:   {capsShift, {4, 0}}, // CAPS SHIFT+0 = DELETE
	ebiten.KeySpace:       {{7, 0}},
	ebiten.KeyArrowLeft:   {capsShift, {3, 4}}, // CAPS SHIFT+5
	ebiten.KeyArrowDown:   {capsShift, {4, 4}}, // CAPS SHIFT+6
	ebiten.KeyArrowUp:     {capsShift, {4, 3}}, // CAPS SHIFT+7
	ebiten.KeyArrowRight:  {capsShift, {4, 2}}, // CAPS SHIFT+8
	ebiten.KeyEscape:      {capsShift, {3, 0}}, // CAPS SHIFT+1 = EDIT
}
