package palette

import (
	"math"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Active palette ranges
const (
	// Entries 248-255 of the VGA palette are all black duplicates of entry 0
	vgaSearchEnd = 248
	// The VGA gray ramp, used for the simple grayscale mode
	grayRampStart = 16
	grayRampEnd   = 32
)

// Mode holds the render flags that select a color reduction path
type Mode struct {
	Grayscale        bool // Restrict matches to the VGA gray ramp
	GrayscalePalette bool // Use the dedicated 256 step gray palette; overrides Grayscale
	Dither           bool // Apply ordered dithering before matching
}

// Quantizer reduces linear colors to palette indices.
// It is an immutable value and safe for concurrent use.
type Quantizer struct {
	mode    Mode
	palette *Palette
	start   int
	end     int
}

// NewQuantizer selects the active palette and search range for a mode
func NewQuantizer(mode Mode) Quantizer {
	q := Quantizer{mode: mode, palette: VGA(), start: 0, end: vgaSearchEnd}
	switch {
	case mode.GrayscalePalette:
		q.palette = Grayscale()
		q.end = Size
	case mode.Grayscale:
		q.start = grayRampStart
		q.end = grayRampEnd
	}
	return q
}

// Mode returns the flags the quantizer was built with
func (q Quantizer) Mode() Mode { return q.mode }

// Palette returns the active palette
func (q Quantizer) Palette() *Palette { return q.palette }

// PaletteID identifies the active palette
func (q Quantizer) PaletteID() ID {
	if q.mode.GrayscalePalette {
		return IDGrayscale
	}
	return IDVGA
}

// Lookup returns the palette color of an index
func (q Quantizer) Lookup(idx uint8) core.Color {
	return q.palette[idx].Color()
}

// FindNearest returns the index of the active palette entry closest to c.
// Channels are clamped to [0, 255], truncated to integers and compared by squared distance;
// with the gray palette the luminance is rounded so gray inputs map to themselves.
// Ties resolve to the lowest index; an exact match ends the scan early.
func (q Quantizer) FindNearest(c core.Color) uint8 {
	c.ClampChannels()
	cr, cg, cb := int(c[0]), int(c[1]), int(c[2])

	if q.mode.GrayscalePalette {
		l := int(math.Round(core.LumaRed*float64(cr) + core.LumaGreen*float64(cg) + core.LumaBlue*float64(cb)))
		cr, cg, cb = l, l, l
	}

	best := math.MaxInt
	idx := q.start
	for i := q.start; i < q.end; i++ {
		e := q.palette[i]
		dr := cr - int(e.R)
		dg := cg - int(e.G)
		db := cb - int(e.B)

		d := dr*dr + dg*dg + db*db
		if d < best {
			best = d
			idx = i
			if d < 1 {
				break
			}
		}
	}

	return uint8(idx)
}

// OrderedDither offsets c by the threshold map cell for (x, y), clamps,
// and returns the nearest palette index
func (q Quantizer) OrderedDither(c core.Color, x, y int) uint8 {
	dithered := c.AddScalar(Threshold(x, y))
	dithered.ClampChannels()
	return q.FindNearest(dithered)
}

// Quantize dithers or matches directly depending on the mode
func (q Quantizer) Quantize(c core.Color, x, y int) uint8 {
	if q.mode.Dither {
		return q.OrderedDither(c, x, y)
	}
	return q.FindNearest(c)
}
