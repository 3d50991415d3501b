//go:build headless

// stdin_keyboard.go - raw-mode stdin keyboard input for headless runs,
// grounded on the teacher's terminal_host.go (TerminalHost): raw mode
// via golang.org/x/term, non-blocking reads in a goroutine, CR/DEL
// translation. Adapted from "feed a line-buffered MMIO console" to
// "stage one matrix chord per received byte": each chord is pressed as
// its byte arrives and held until the next byte, with no per-frame
// throttle.
package main

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/intuitionamiga/zx48k/ula"
)

type stdinKeyboard struct {
	u        *ula.ULA
	fd       int
	oldState *term.State
	stopCh   chan struct{}
	done     chan struct{}
	once     sync.Once

	held []matrixKey
}

func newStdinKeyboard(u *ula.ULA) *stdinKeyboard {
	return &stdinKeyboard{
		u:      u,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (k *stdinKeyboard) start() {
	k.fd = int(os.Stdin.Fd())
	old, err := term.MakeRaw(k.fd)
	if err != nil {
		close(k.done)
		return
	}
	k.oldState = old
	_ = syscall.SetNonblock(k.fd, true)

	go func() {
		defer close(k.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-k.stopCh:
				return
			default:
			}
			n, err := syscall.Read(k.fd, buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					b = '\n'
				}
				if b == 0x7F {
					b = 0x08
				}
				k.press(rune(b))
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
}

// press stages a chord for one character, releasing whatever chord is
// already held -- same one-key-at-a-time model as the clipboard-paste
// queue in video.go, since a single raw byte arrives per keystroke.
func (k *stdinKeyboard) press(c rune) {
	for _, m := range k.held {
		k.u.SetKeyMatrix(m.row, m.bit, false)
	}
	k.held = nil
	keys, ok := asciiMatrix[c]
	if !ok {
		return
	}
	for _, m := range keys {
		k.u.SetKeyMatrix(m.row, m.bit, true)
	}
	k.held = keys
}

func (k *stdinKeyboard) stop() {
	k.once.Do(func() { close(k.stopCh) })
	<-k.done
	if k.oldState != nil {
		_ = term.Restore(k.fd, k.oldState)
	}
}
