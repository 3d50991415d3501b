//go:build !headless

// audio.go - oto/v3 audio sink, grounded on the teacher's
// audio_backend_oto.go (OtoPlayer): a Reader backed by the emulated
// chip's sample stream, fed to an oto.Player. The teacher reads from a
// SoundChip's lock-free ring buffer; here the source is the ULA's
// single-channel beeper/tape-EAR stream.
package main

import (
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/intuitionamiga/zx48k/ula"
)

const audioSampleRate = 17500

type beeperSource struct {
	u *ula.ULA
}

// Read fills p with float32LE samples pulled from the ULA's non-
// blocking audio channel, substituting silence whenever emulation
// hasn't produced a sample yet (the consumer runs on its own I/O
// thread and must never block waiting for the emulator).
func (s *beeperSource) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		var sample float32
		select {
		case sample = <-s.u.AudioOut():
		default:
		}
		buf := (*[4]byte)(unsafe.Pointer(&sample))
		copy(p[i*4:i*4+4], buf[:])
	}
	return n * 4, nil
}

func startAudio(u *ula.ULA) (*oto.Player, error) {
	u.SetAudioSampleRate(audioSampleRate)
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audioSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	player := ctx.NewPlayer(&beeperSource{u: u})
	player.Play()
	return player, nil
}
