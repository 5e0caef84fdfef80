package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-vga-raytracer/pkg/palette"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure
var ErrInvalidConfig = errors.New("invalid render config")

// MaxDimension bounds width and height so frame coordinates fit in 16 bits
const MaxDimension = 8192

// Config is the immutable render configuration threaded through every trace call
type Config struct {
	Width      int
	Height     int
	FOV        float64 // Vertical field of view in degrees
	MaxDepth   int     // Secondary bounces allowed before falling back to Background
	Background uint8   // Palette index for rays that hit nothing
	TileSize   int     // Size of each square tile
	NumWorkers int     // Number of parallel workers (0 = use CPU count)
	Mode       palette.Mode
}

// DefaultConfig returns the classic mode 13h setup
func DefaultConfig() Config {
	return Config{
		Width:      320,
		Height:     200,
		FOV:        45,
		MaxDepth:   5,
		Background: 0,
		TileSize:   32,
		NumWorkers: 0,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Width > MaxDimension:
		return fmt.Errorf("%w: width must be in 1..%d, got %d", ErrInvalidConfig, MaxDimension, c.Width)
	case c.Height <= 0 || c.Height > MaxDimension:
		return fmt.Errorf("%w: height must be in 1..%d, got %d", ErrInvalidConfig, MaxDimension, c.Height)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("%w: fov must be between 0 and 180 degrees, got %v", ErrInvalidConfig, c.FOV)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must be non-negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}
