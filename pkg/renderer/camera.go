package renderer

import (
	"math"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Camera generates primary rays from an eye at the origin looking down -Z
type Camera struct {
	origin core.Vec3
	width  float64
	height float64
	scale  float64 // tan(fov/2)
	aspect float64
}

// NewCamera creates a pinhole camera for a width x height screen.
// fovDegrees is the vertical field of view.
func NewCamera(width, height int, fovDegrees float64) *Camera {
	return &Camera{
		origin: core.NewVec3(0, 0, 0),
		width:  float64(width),
		height: float64(height),
		scale:  math.Tan(math.Pi * 0.5 * fovDegrees / 180),
		aspect: float64(width) / float64(height),
	}
}

// GetRay returns the normalized ray through the centre of pixel (x, y).
// y grows downwards, as on screen.
func (c *Camera) GetRay(x, y int) core.Ray {
	dir := core.NewVec3(
		(2*((float64(x)+0.5)/c.width)-1)*c.scale*c.aspect,
		(1-2*((float64(y)+0.5)/c.height))*c.scale,
		-1,
	)
	return core.NewRay(c.origin, dir.Normalize())
}
