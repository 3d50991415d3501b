// spectrumhost is a demonstration frontend for the zx48k emulator
// core, grounded on the teacher's main.go: parse arguments, wire
// peripherals to the machine, load a program, run.
package main

import (
	"fmt"
	"os"

	"github.com/intuitionamiga/zx48k/spectrum"
	"github.com/intuitionamiga/zx48k/tape"
	"github.com/intuitionamiga/zx48k/taploader"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: spectrumhost <rom.bin> [tape.tap]")
		os.Exit(1)
	}
	romPath := os.Args[1]

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Printf("failed to read ROM: %v\n", err)
		os.Exit(1)
	}

	m := spectrum.New()
	if err := m.LoadROM(rom); err != nil {
		fmt.Printf("failed to load ROM: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) >= 3 {
		if err := loadTape(m, os.Args[2]); err != nil {
			fmt.Printf("failed to load tape: %v\n", err)
			os.Exit(1)
		}
	}

	if err := runVideo(m); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

// loadTape parses a TAP file and starts a goroutine that hands its
// blocks to the machine's ROM-trap loader one at a time, in order, each
// in answer to a NeedBlock request.
func loadTape(m *spectrum.Machine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tp, err := taploader.Parse(data)
	if err != nil {
		return err
	}
	go pumpTape(m.Tape, tp)
	return nil
}

func pumpTape(loader *tape.Loader, tp *taploader.Tape) {
	for {
		<-loader.NeedBlock()
		block, ok := tp.NextBlock()
		if !ok {
			return
		}
		loader.PushBlock(block)
	}
}
