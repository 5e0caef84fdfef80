package material

import "github.com/df07/go-vga-raytracer/pkg/core"

// PlaneReflectionFalloff darkens what a mirrored plane shows
const PlaneReflectionFalloff = 0.70

// Reflect returns the mirror direction of d about the unit normal n
func Reflect(d, n core.Vec3) core.Vec3 {
	// r = d + 2*n*(-dot(n,d))
	c1 := -n.Dot(d)
	return d.Add(n.Multiply(2 * c1))
}
