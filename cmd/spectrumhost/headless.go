//go:build headless

// headless.go - no-video/no-audio run loop, grounded on the teacher's
// video_backend_headless.go build-tag convention: a CI/server build
// that exercises the same Machine.RunFrame loop without touching a
// display or audio device.
package main

import (
	"fmt"

	"github.com/intuitionamiga/zx48k/spectrum"
)

func runVideo(m *spectrum.Machine) error {
	kb := newStdinKeyboard(m.ULA)
	kb.start()
	defer kb.stop()

	for i := 0; i < 50*60; i++ { // 60 seconds of frames, then exit
		m.RunFrame()
		select {
		case <-m.ULA.FrameReady():
		default:
		}
	}
	fmt.Println("headless run complete")
	return nil
}
