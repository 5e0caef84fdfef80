package renderer

import (
	"image"

	"github.com/df07/go-vga-raytracer/pkg/palette"
)

// Frame is a framebuffer of palette indices, row-major, like mode 13h video memory
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a frame filled with index 0
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the palette index at (x, y)
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.Width+x]
}

// Set stores a palette index at (x, y)
func (f *Frame) Set(x, y int, idx uint8) {
	f.Pix[y*f.Width+x] = idx
}

// Row returns row y without copying
func (f *Frame) Row(y int) []uint8 {
	return f.Pix[y*f.Width : (y+1)*f.Width]
}

// Region copies the indices inside bounds, row-major
func (f *Frame) Region(bounds image.Rectangle) []uint8 {
	bounds = bounds.Intersect(image.Rect(0, 0, f.Width, f.Height))
	out := make([]uint8, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		out = append(out, f.Pix[y*f.Width+bounds.Min.X:y*f.Width+bounds.Max.X]...)
	}
	return out
}

// Paletted maps the frame through p. The pixel data is copied.
func (f *Frame) Paletted(p *palette.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, f.Width, f.Height), p.ColorPalette())
	copy(img.Pix, f.Pix)
	return img
}
