package palette

import (
	"image/color"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Size is the number of entries in every palette
const Size = 256

// Palette is a fixed table of 256 RGB entries
type Palette [Size]core.RGB

// ColorPalette converts the table for use with image.Paletted
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, Size)
	for i, c := range p {
		out[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return out
}

// ID names a built-in palette
type ID uint8

const (
	IDVGA ID = iota
	IDGrayscale
)

func (id ID) String() string {
	switch id {
	case IDGrayscale:
		return "grayscale"
	default:
		return "vga"
	}
}

// Valid reports whether id names a built-in palette
func (id ID) Valid() bool {
	return id == IDVGA || id == IDGrayscale
}

// ByID returns the built-in palette with the given id.
// Unknown ids fall back to the VGA palette.
func ByID(id ID) *Palette {
	if id == IDGrayscale {
		return &grayscalePalette
	}
	return &vgaPalette
}

// VGA returns the default palette of VGA mode 13h
func VGA() *Palette { return &vgaPalette }

// Grayscale returns a 256 step linear gray ramp
func Grayscale() *Palette { return &grayscalePalette }

var (
	vgaPalette       = buildVGA()
	grayscalePalette = buildGrayscale()
)

// dac6 widens a 6-bit VGA DAC value to 8 bits
func dac6(v uint8) uint8 {
	return uint8((uint16(v)*255 + 31) / 63)
}

// EGA compatible colors, 6-bit DAC values
var egaColors = [16][3]uint8{
	{0, 0, 0}, {0, 0, 42}, {0, 42, 0}, {0, 42, 42},
	{42, 0, 0}, {42, 0, 42}, {42, 21, 0}, {42, 42, 42},
	{21, 21, 21}, {21, 21, 63}, {21, 63, 21}, {21, 63, 63},
	{63, 21, 21}, {63, 21, 63}, {63, 63, 21}, {63, 63, 63},
}

// Gray ramp, 6-bit DAC values
var grayRamp = [16]uint8{0, 5, 8, 11, 14, 17, 20, 24, 28, 32, 36, 40, 45, 50, 56, 63}

// Each hue ring walks 24 hues using five DAC levels from low to high.
// Rings are ordered high/medium/low intensity, each at high/medium/low saturation.
var hueRingLevels = [9][5]uint8{
	{0, 16, 31, 47, 63}, {31, 39, 47, 55, 63}, {45, 49, 54, 58, 63},
	{0, 7, 14, 21, 28}, {14, 17, 21, 24, 28}, {20, 22, 24, 26, 28},
	{0, 4, 8, 12, 16}, {8, 10, 12, 14, 16}, {11, 12, 13, 15, 16},
}

func buildVGA() Palette {
	var p Palette
	i := 0
	put := func(r, g, b uint8) {
		p[i] = core.RGB{R: dac6(r), G: dac6(g), B: dac6(b)}
		i++
	}

	for _, c := range egaColors {
		put(c[0], c[1], c[2])
	}
	for _, v := range grayRamp {
		put(v, v, v)
	}
	for _, lv := range hueRingLevels {
		lo, hi := lv[0], lv[4]
		// blue -> magenta
		for k := 0; k < 4; k++ {
			put(lv[k], lo, hi)
		}
		// magenta -> red
		for k := 4; k > 0; k-- {
			put(hi, lo, lv[k])
		}
		// red -> yellow
		for k := 0; k < 4; k++ {
			put(hi, lv[k], lo)
		}
		// yellow -> green
		for k := 4; k > 0; k-- {
			put(lv[k], hi, lo)
		}
		// green -> cyan
		for k := 0; k < 4; k++ {
			put(lo, hi, lv[k])
		}
		// cyan -> blue
		for k := 4; k > 0; k-- {
			put(lo, lv[k], hi)
		}
	}
	// remaining entries stay black
	return p
}

func buildGrayscale() Palette {
	var p Palette
	for i := range p {
		v := uint8(i)
		p[i] = core.RGB{R: v, G: v, B: v}
	}
	return p
}
