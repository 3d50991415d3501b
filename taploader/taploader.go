// Package taploader reads TAP container files and yields the raw
// block payloads a tape.Loader consumes. Grounded on the original
// prototype's zxspectrum/tap.rs: each block is a two-byte
// little-endian length prefix followed by that many payload bytes
// (flag byte, data, trailing XOR checksum).
package taploader

import "fmt"

// Tape is a parsed TAP file: a sequence of block payloads, each ready
// to hand to tape.Loader.PushBlock.
type Tape struct {
	blocks [][]byte
	next   int
}

// Parse splits raw TAP file bytes into block payloads. It does not
// support the TZX container format (the original prototype leaves TZX
// unimplemented too).
func Parse(data []byte) (*Tape, error) {
	var blocks [][]byte
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("taploader: truncated length prefix at offset %d", pos)
		}
		length := int(data[pos]) | int(data[pos+1])<<8
		pos += 2
		if pos+length > len(data) {
			return nil, fmt.Errorf("taploader: block at offset %d overruns file (want %d bytes, have %d)", pos, length, len(data)-pos)
		}
		block := make([]byte, length)
		copy(block, data[pos:pos+length])
		blocks = append(blocks, block)
		pos += length
	}
	return &Tape{blocks: blocks}, nil
}

// NextBlock returns the next block payload in sequence, or (nil,
// false) once every block has been consumed.
func (t *Tape) NextBlock() ([]byte, bool) {
	if t.next >= len(t.blocks) {
		return nil, false
	}
	b := t.blocks[t.next]
	t.next++
	return b, true
}

// Rewind resets iteration to the first block.
func (t *Tape) Rewind() { t.next = 0 }

// Len reports the total number of blocks in the tape.
func (t *Tape) Len() int { return len(t.blocks) }
