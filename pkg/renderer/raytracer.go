package renderer

import (
	"math"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/geometry"
	"github.com/df07/go-vga-raytracer/pkg/material"
	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/scene"
)

// Raytracer resolves rays to palette indices.
// It holds no mutable state and is safe for concurrent use.
type Raytracer struct {
	scene     *scene.Scene
	config    Config
	quantizer palette.Quantizer
}

// NewRaytracer creates a raytracer for the scene. The scene must not be
// modified while the raytracer is in use: object identity for self-exclusion
// is the address of each sphere and plane in the scene's slices.
func NewRaytracer(s *scene.Scene, config Config) *Raytracer {
	return &Raytracer{
		scene:     s,
		config:    config,
		quantizer: palette.NewQuantizer(config.Mode),
	}
}

// Quantizer returns the color reducer selected by the config's mode
func (rt *Raytracer) Quantizer() palette.Quantizer {
	return rt.quantizer
}

// Trace returns the palette index seen along ray. exclude is skipped during
// intersection (nil for primary rays); x and y select the dither cell.
func (rt *Raytracer) Trace(ray core.Ray, exclude geometry.Object, x, y int) uint8 {
	return rt.trace(ray, exclude, x, y, 0, nil)
}

// trace is the recursive driver. depth counts secondary bounces; once it
// exceeds MaxDepth the background index is returned without testing geometry.
// stats may be nil.
func (rt *Raytracer) trace(ray core.Ray, exclude geometry.Object, x, y, depth int, stats *RenderStats) uint8 {
	if depth > rt.config.MaxDepth {
		if stats != nil {
			stats.DepthLimited++
		}
		return rt.config.Background
	}

	nearest := math.Inf(1)
	result := rt.config.Background
	light := rt.scene.Light

	for i := range rt.scene.Spheres {
		sphere := &rt.scene.Spheres[i]
		if sphere == exclude {
			continue
		}

		hit, ok := sphere.Intersect(ray)
		if !ok || hit.T >= nearest {
			continue
		}
		nearest = hit.T

		normal := sphere.NormalAt(hit.Point)
		shaded := material.LambertShade(light.Subtract(hit.Point), normal, sphere.Color)
		shaded.ClampChannels()
		result = rt.quantizer.Quantize(shaded, x, y)

		// Mirror spheres replace the diffuse result outright
		if sphere.Reflective {
			reflected := core.NewRay(hit.Point, material.Reflect(ray.Direction, normal).Normalize())
			c := rt.secondary(reflected, sphere, x, y, depth, stats)
			c.ClampChannels()
			result = rt.quantizer.Quantize(c, x, y)
		}

		// Runs after the mirror branch, so refraction wins when both are set
		if sphere.Refractive {
			refracted := core.NewRay(hit.Point, material.Refract(ray.Direction, normal).Normalize())
			c := rt.secondary(refracted, sphere, x, y, depth, stats).Scale(material.RefractionFalloff)
			result = rt.quantizer.Quantize(c, x, y)
		}
	}

	for i := range rt.scene.Planes {
		plane := &rt.scene.Planes[i]
		if plane == exclude {
			continue
		}

		hit, ok := plane.Intersect(ray)
		if !ok || hit.T >= nearest {
			continue
		}
		nearest = hit.T

		if plane.Reflective {
			reflected := core.NewRay(hit.Point, material.Reflect(ray.Direction, plane.Normal).Normalize())
			c := rt.secondary(reflected, plane, x, y, depth, stats).Scale(material.PlaneReflectionFalloff)
			result = rt.quantizer.Quantize(c, x, y)
		} else {
			c := material.FlatShade(light.Subtract(hit.Point), plane.Color)
			result = rt.quantizer.Quantize(c, x, y)
		}
	}

	return result
}

// secondary traces a bounce ray and returns the palette color of what it hit
func (rt *Raytracer) secondary(ray core.Ray, from geometry.Object, x, y, depth int, stats *RenderStats) core.Color {
	if stats != nil {
		stats.SecondaryRays++
	}
	return rt.quantizer.Lookup(rt.trace(ray, from, x, y, depth+1, stats))
}
