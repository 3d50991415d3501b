//go:build !headless

// video.go - ebiten video/keyboard frontend, grounded on the teacher's
// video_backend_ebiten.go (EbitenOutput): double-buffered frame
// presentation, F11 fullscreen toggle, Ctrl+Shift+V clipboard paste,
// and the keyHandler callback pattern -- all adapted from "emit bytes
// to a serial console" to "press/release cells of the Spectrum
// keyboard matrix".
package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/zx48k/spectrum"
	"github.com/intuitionamiga/zx48k/ula"
)

const windowScale = 2

// videoFrontend drives a spectrum.Machine's CPU at full speed in its
// own goroutine and presents each completed ULA frame through ebiten,
// translating host keyboard and clipboard events into Spectrum matrix
// presses.
type videoFrontend struct {
	machine *spectrum.Machine

	img        *ebiten.Image
	pixels     []byte
	mu         sync.RWMutex
	fullscreen bool

	heldChord []matrixKey // chord held down for the current paste byte
	pasteQ    []byte
	pasteTick int

	clipboardOnce sync.Once
	clipboardOK   bool

	frames uint64
}

func newVideoFrontend(m *spectrum.Machine) *videoFrontend {
	return &videoFrontend{
		machine: m,
		img:     ebiten.NewImage(ula.FrameWidth, ula.FrameHeight),
		pixels:  make([]byte, ula.FrameWidth*ula.FrameHeight*4),
	}
}

// runMachine pumps the emulated machine continuously; it is the
// video-present side's only consumer of Machine.RunFrame. A 50 Hz
// ticker paces it at one RunFrame per tick, after which it copies out
// the frame FrameReady names, if one is ready.
func (v *videoFrontend) runMachine(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / 50)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.machine.RunFrame()
			select {
			case idx := <-v.machine.ULA.FrameReady():
				v.mu.Lock()
				copy(v.pixels, v.machine.ULA.Buffer(idx))
				v.mu.Unlock()
			default:
			}
		}
	}
}

func (v *videoFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		v.fullscreen = !v.fullscreen
		ebiten.SetFullscreen(v.fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		v.mu.RLock()
		snapshot := append([]byte(nil), v.pixels...)
		v.mu.RUnlock()
		if err := saveScreenshot(snapshot, "screenshot.png"); err != nil {
			fmt.Printf("screenshot failed: %v\n", err)
		}
	}
	v.handleKeyboard()
	v.pumpPasteQueue()
	return nil
}

func (v *videoFrontend) Draw(screen *ebiten.Image) {
	v.mu.RLock()
	v.img.WritePixels(v.pixels)
	v.mu.RUnlock()
	screen.DrawImage(v.img, nil)
	v.frames++
}

func (v *videoFrontend) Layout(_, _ int) (int, int) {
	return ula.FrameWidth, ula.FrameHeight
}

func (v *videoFrontend) handleKeyboard() {
	for key, k := range liveKeyMatrix {
		v.machine.ULA.SetKeyMatrix(k.row, k.bit, ebiten.IsKeyPressed(key))
	}

	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	v.machine.ULA.SetKeyMatrix(capsShift.row, capsShift.bit, shift)
	alt := ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight)
	v.machine.ULA.SetKeyMatrix(symShift.row, symShift.bit, alt)

	// A held specialKeys entry presses its whole chord. Cells it shares
	// with liveKeyMatrix or the shift keys were already set above and are
	// only added to here; ENTER and SPACE have no other live key, so
	// they are released first.
	v.machine.ULA.SetKeyMatrix(6, 0, false)
	v.machine.ULA.SetKeyMatrix(7, 0, false)
	for key, chord := range specialKeys {
		if ebiten.IsKeyPressed(key) {
			for _, cell := range chord {
				v.machine.ULA.SetKeyMatrix(cell.row, cell.bit, true)
			}
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		v.queueClipboardPaste()
	}
}

// queueClipboardPaste stages pasted text for pumpPasteQueue, which
// feeds it into the emulated matrix one character every two Update
// calls (one presses its chord, the next releases it) -- a real
// keyboard cannot be driven faster than the Spectrum's own keyboard
// scan, so pasted text is throttled rather than injected all at once.
func (v *videoFrontend) queueClipboardPaste() {
	v.clipboardOnce.Do(func() {
		v.clipboardOK = clipboard.Init() == nil
	})
	if !v.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	v.pasteQ = append(v.pasteQ, data...)
}

func (v *videoFrontend) pumpPasteQueue() {
	if v.heldChord != nil {
		for _, k := range v.heldChord {
			v.machine.ULA.SetKeyMatrix(k.row, k.bit, false)
		}
		v.heldChord = nil
		return
	}
	if len(v.pasteQ) == 0 {
		return
	}
	c := rune(v.pasteQ[0])
	v.pasteQ = v.pasteQ[1:]
	keys, ok := asciiMatrix[c]
	if !ok {
		return
	}
	for _, k := range keys {
		v.machine.ULA.SetKeyMatrix(k.row, k.bit, true)
	}
	v.heldChord = keys
}

func runVideo(m *spectrum.Machine) error {
	player, err := startAudio(m.ULA)
	if err != nil {
		fmt.Printf("audio disabled: %v\n", err)
	} else {
		defer player.Close()
	}

	v := newVideoFrontend(m)
	stop := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		v.runMachine(stop)
		return nil
	})
	g.Go(func() error {
		defer close(stop)
		ebiten.SetWindowSize(ula.FrameWidth*windowScale, ula.FrameHeight*windowScale)
		ebiten.SetWindowTitle("ZX Spectrum 48K")
		ebiten.SetWindowResizable(true)
		ebiten.SetVsyncEnabled(true)
		if err := ebiten.RunGame(v); err != nil {
			return fmt.Errorf("video frontend: %w", err)
		}
		return nil
	})
	return g.Wait()
}
