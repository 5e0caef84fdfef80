//go:build cgo && !nowindow

// Package window shows a render in a desktop window as it progresses.
package window

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-vga-raytracer/pkg/display"
)

// Scale is the integer zoom applied to the framebuffer, like a 320x200 mode
// on a 640x400 monitor
const Scale = 2

// Run opens a window showing canvas and blocks until it is closed.
// ESC cancels the render through cancel; once the render is finished
// (done is closed) ESC closes the window.
func Run(title string, canvas *display.Canvas, cancel context.CancelFunc, done <-chan struct{}) error {
	g := &game{canvas: canvas, cancel: cancel, done: done}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(canvas.Width()*Scale, canvas.Height()*Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type game struct {
	canvas  *display.Canvas
	cancel  context.CancelFunc
	done    <-chan struct{}
	aborted bool

	img     *ebiten.Image
	scratch []byte
	drawn   uint64
	valid   bool
}

func (g *game) finished() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

func (g *game) Update() error {
	if !inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return nil
	}
	if g.finished() {
		return ebiten.Termination
	}
	if !g.aborted {
		g.aborted = true
		g.cancel()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.canvas.Width(), g.canvas.Height()
	if g.img == nil {
		g.img = ebiten.NewImage(w, h)
		g.scratch = make([]byte, w*h*4)
	}

	if v := g.canvas.Version(); !g.valid || v != g.drawn {
		g.drawn = g.canvas.SnapshotRGBA(g.scratch)
		g.valid = true
		g.img.WritePixels(g.scratch)
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.canvas.Width(), g.canvas.Height()
}
