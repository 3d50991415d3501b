//go:build !headless

// screenshot.go - F12 screenshot export. Exercises golang.org/x/image
// by upscaling the native 352x288 frame with draw.NearestNeighbor
// before PNG encoding, the nearest-neighbour scaler a pixel-accurate
// 8-bit frame needs (stdlib image/draw has no Scaler; x/image/draw
// adds one).
package main

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/intuitionamiga/zx48k/ula"
)

const screenshotScale = 3

func saveScreenshot(pixels []byte, path string) error {
	src := image.NewRGBA(image.Rect(0, 0, ula.FrameWidth, ula.FrameHeight))
	copy(src.Pix, pixels)

	dst := image.NewRGBA(image.Rect(0, 0, ula.FrameWidth*screenshotScale, ula.FrameHeight*screenshotScale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}
