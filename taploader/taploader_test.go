package taploader

import "testing"

func TestParseTwoBlocks(t *testing.T) {
	// Block 1: flag 0x00, two bytes payload, checksum -> length 4.
	// Block 2: flag 0xFF, one byte payload, checksum -> length 3.
	data := []byte{
		0x04, 0x00, 0x00, 0x11, 0x22, 0x33,
		0x03, 0x00, 0xFF, 0xAA, 0x55,
	}
	tp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tp.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tp.Len())
	}
	b1, ok := tp.NextBlock()
	if !ok || len(b1) != 4 || b1[0] != 0x00 {
		t.Fatalf("block 1 = %v", b1)
	}
	b2, ok := tp.NextBlock()
	if !ok || len(b2) != 3 || b2[0] != 0xFF {
		t.Fatalf("block 2 = %v", b2)
	}
	if _, ok := tp.NextBlock(); ok {
		t.Fatal("expected no third block")
	}
}

func TestParseTruncatedFile(t *testing.T) {
	if _, err := Parse([]byte{0x04, 0x00, 0x01}); err == nil {
		t.Fatal("expected an error for a truncated block")
	}
}

func TestRewind(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00}
	tp, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp.NextBlock()
	tp.Rewind()
	if _, ok := tp.NextBlock(); !ok {
		t.Fatal("expected a block after Rewind")
	}
}
