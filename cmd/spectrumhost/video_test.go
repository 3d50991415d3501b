//go:build !headless

package main

import "testing"

func TestASCIIMatrixHasChordForEveryDigit(t *testing.T) {
	for c := '0'; c <= '9'; c++ {
		if _, ok := asciiMatrix[c]; !ok {
			t.Fatalf("no ASCII chord for digit %c", c)
		}
	}
}

func TestASCIIMatrixHasSpaceAndEnter(t *testing.T) {
	if _, ok := asciiMatrix[' ']; !ok {
		t.Fatal("expected a chord for space")
	}
	if _, ok := asciiMatrix['\n']; !ok {
		t.Fatal("expected a chord for newline")
	}
}
