package material

import "github.com/df07/go-vga-raytracer/pkg/core"

// Scene-wide shading constants
const (
	Ambient       = 0.3
	Diffuse       = 0.8
	LambertFactor = 0.35 // Attenuation applied to dot(light, normal)
	FlatShadeGain = 2.0
)

// LambertShade computes ambient + diffuse shading for a surface point.
// light is the unnormalized vector from the surface to the light, so the
// diffuse term falls off with how far the light is from the point.
// The result is not clamped.
func LambertShade(light, normal core.Vec3, base core.RGB) core.Color {
	shade := light.Dot(normal) * LambertFactor
	if shade < 0 {
		shade = 0
	}

	return base.Color().Scale(Ambient + Diffuse*shade)
}

// FlatShade is the simplified plane shading: brightness falls off with the
// inverse distance to the light and does not depend on the surface normal.
// The result is clamped.
func FlatShade(light core.Vec3, base core.RGB) core.Color {
	c := base.Color().Scale(FlatShadeGain * light.InvLength())
	c.ClampChannels()
	return c
}
