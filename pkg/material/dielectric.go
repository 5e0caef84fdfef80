package material

import (
	"math"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Refraction indices and transmission loss for glass spheres
const (
	AirIndex          = 1.0
	GlassIndex        = 2.0
	RefractionFalloff = 0.90
)

// Refract bends d through a surface with unit normal n using Snell's law,
// going from air into glass. Only the entering interface is modelled.
func Refract(d, n core.Vec3) core.Vec3 {
	return refractVector(d, n, AirIndex/GlassIndex)
}

// refractVector bends d by the index ratio eta = n1/n2.
// Falls back to the mirror direction on total internal reflection.
func refractVector(d, n core.Vec3, eta float64) core.Vec3 {
	c1 := -n.Dot(d)
	k := 1 - eta*eta*(1-c1*c1)
	if k < 0 {
		return Reflect(d, n)
	}
	c2 := math.Sqrt(k)

	return d.Multiply(eta).Add(n.Multiply(eta*c1 - c2))
}
