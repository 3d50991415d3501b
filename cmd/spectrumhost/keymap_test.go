package main

import "testing"

func TestLiveKeyMatrixCoversLetters(t *testing.T) {
	for c := 'A'; c <= 'Z'; c++ {
		if _, ok := liveKeyMatrix[letterKey(c)]; !ok {
			t.Fatalf("no matrix entry for letter %c", c)
		}
	}
}

func TestLiveKeyMatrixCoversDigits(t *testing.T) {
	for c := '0'; c <= '9'; c++ {
		if _, ok := liveKeyMatrix[digitKey(c)]; !ok {
			t.Fatalf("no matrix entry for digit %c", c)
		}
	}
}

func TestASCIIMatrixUppercaseAddsCapsShift(t *testing.T) {
	keys, ok := asciiMatrix['A']
	if !ok {
		t.Fatal("expected an entry for 'A'")
	}
	if keys[0] != capsShift {
		t.Fatalf("expected CAPS SHIFT to lead the chord for 'A', got %+v", keys[0])
	}
}

func TestASCIIMatrixNoDuplicateCellsWithinLetterRows(t *testing.T) {
	seen := map[matrixKey]rune{}
	for c := 'a'; c <= 'z'; c++ {
		keys, ok := asciiMatrix[c]
		if !ok {
			t.Fatalf("no entry for %c", c)
		}
		k := keys[len(keys)-1]
		if other, dup := seen[k]; dup {
			t.Fatalf("matrix cell %+v claimed by both %c and %c", k, other, c)
		}
		seen[k] = c
	}
}
