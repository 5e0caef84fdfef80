package display

import (
	"sync"

	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
)

// Canvas is a thread-safe index framebuffer that renders write tiles into
// while a window reads it back as RGBA
type Canvas struct {
	mu      sync.Mutex
	width   int
	height  int
	palette *palette.Palette
	indices []uint8
	version uint64 // bumped on every write
}

// NewCanvas creates a black canvas shown through p
func NewCanvas(width, height int, p *palette.Palette) *Canvas {
	return &Canvas{
		width:   width,
		height:  height,
		palette: p,
		indices: make([]uint8, width*height),
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// DrawTile copies a finished tile into the canvas.
// It has the signature of renderer.RenderOptions.OnTile.
func (c *Canvas) DrawTile(tc renderer.TileCompletion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := tc.Bounds.Dx()
	for row := 0; row < tc.Bounds.Dy(); row++ {
		y := tc.Bounds.Min.Y + row
		if y < 0 || y >= c.height {
			continue
		}
		start := y*c.width + tc.Bounds.Min.X
		copy(c.indices[start:start+w], tc.Indices[row*w:(row+1)*w])
	}
	c.version++
}

// DrawFrame replaces the whole canvas with frame
func (c *Canvas) DrawFrame(frame *renderer.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.indices, frame.Pix)
	c.version++
}

// Version changes whenever the canvas content changes
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// SnapshotRGBA expands the indices through the palette into dst, which must
// hold 4*width*height bytes, and returns the version it reflects
func (c *Canvas) SnapshotRGBA(dst []byte) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, idx := range c.indices {
		rgb := c.palette[idx]
		j := i * 4
		dst[j+0] = rgb.R
		dst[j+1] = rgb.G
		dst[j+2] = rgb.B
		dst[j+3] = 0xFF
	}
	return c.version
}
