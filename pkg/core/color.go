package core

import "math"

// Luminance weights used when collapsing a color to gray
const (
	LumaRed   = 0.2989
	LumaGreen = 0.5870
	LumaBlue  = 0.1140
)

// Color is a linear RGB triple in the 0-255 range. Shading may push
// channels outside that range; ClampChannels brings them back.
type Color [3]float64

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{r, g, b}
}

// ClampChannels clamps every channel into [0, 255] in place.
// NaN channels become 0.
func (c *Color) ClampChannels() {
	for i, v := range c {
		switch {
		case math.IsNaN(v), v < 0:
			c[i] = 0
		case v > 255:
			c[i] = 255
		}
	}
}

// Clamped returns a clamped copy of the color
func (c Color) Clamped() Color {
	c.ClampChannels()
	return c
}

// Scale multiplies every channel by k
func (c Color) Scale(k float64) Color {
	return Color{c[0] * k, c[1] * k, c[2] * k}
}

// AddScalar adds v to every channel
func (c Color) AddScalar(v float64) Color {
	return Color{c[0] + v, c[1] + v, c[2] + v}
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return LumaRed*c[0] + LumaGreen*c[1] + LumaBlue*c[2]
}

// RGB is an 8-bit per channel color, the unit of palette storage
type RGB struct {
	R, G, B uint8
}

// Color converts the RGB triple to a linear Color
func (c RGB) Color() Color {
	return Color{float64(c.R), float64(c.G), float64(c.B)}
}
