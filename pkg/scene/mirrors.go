package scene

import (
	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/geometry"
)

// NewMirrorScene creates two parallel mirrors facing each other with a
// small sphere between them. Rays that bounce between the mirrors only
// stop at the depth limit.
func NewMirrorScene() *Scene {
	s := &Scene{Name: "mirrors"}

	left := geometry.NewPlane(core.NewVec3(1, 0, 0), 1, core.RGB{R: 0x40, G: 0x40, B: 0x40})
	left.Reflective = true
	right := geometry.NewPlane(core.NewVec3(-1, 0, 0), 1, core.RGB{R: 0x40, G: 0x40, B: 0x40})
	right.Reflective = true
	floor := geometry.NewPlane(core.NewVec3(0, 1, 0), 0.5, core.RGB{R: 0x80, G: 0x80, B: 0xFF})

	s.AddPlane(left)
	s.AddPlane(right)
	s.AddPlane(floor)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -0.3, -2), 0.2, core.RGB{R: 0xFF, G: 0xAA, B: 0x00}))

	s.Light = core.NewVec3(0, 1, 0)
	return s
}

// NewSingleSphereScene creates one small diffuse sphere straight ahead of the eye,
// lit from the eye position
func NewSingleSphereScene() *Scene {
	s := &Scene{Name: "single-sphere"}
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.1, core.RGB{R: 0xFF, G: 0x00, B: 0x00}))
	s.Light = core.NewVec3(0, 0, 0)
	return s
}
