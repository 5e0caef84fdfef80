package scene

import (
	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/geometry"
)

// NewDefaultScene creates the classic room: six spheres (two mirrored, one
// glass) inside a box of planes with a mirrored floor
func NewDefaultScene() *Scene {
	s := &Scene{Name: "default"}

	green := geometry.NewSphere(core.NewVec3(-0.05, -0.38, -1.5), 0.11, core.RGB{R: 0x00, G: 0xEE, B: 0x00})
	white := geometry.NewSphere(core.NewVec3(0.25, -0.2, -1.5), 0.2, core.RGB{R: 0xFF, G: 0xFF, B: 0xFF})

	blueMirror := geometry.NewSphere(core.NewVec3(-0.2, -0.15, -2.0), 0.2, core.RGB{R: 0x00, G: 0x00, B: 0xDD})
	blueMirror.Reflective = true

	magenta := geometry.NewSphere(core.NewVec3(-0.85, -0.22, -3.0), 0.05, core.RGB{R: 0xFF, G: 0x00, B: 0xFF})

	redMirror := geometry.NewSphere(core.NewVec3(0.35, -0.38, -1.0), 0.07, core.RGB{R: 0xEE, G: 0x00, B: 0x00})
	redMirror.Reflective = true

	glass := geometry.NewSphere(core.NewVec3(-0.33, -0.22, -1.1), 0.1, core.RGB{R: 0xFF, G: 0xFF, B: 0xFF})
	glass.Refractive = true

	for _, sphere := range []*geometry.Sphere{green, white, blueMirror, magenta, redMirror, glass} {
		s.AddSphere(sphere)
	}

	front := geometry.NewPlane(core.NewVec3(0, 0, -1), -5, core.RGB{R: 0xFF, G: 0xFF, B: 0xFF})

	floor := geometry.NewPlane(core.NewVec3(0, 1, 0), 0.5, core.RGB{})
	floor.Reflective = true

	left := geometry.NewPlane(core.NewVec3(1, 0, 0), 1.2, core.RGB{R: 0xFF, G: 0x00, B: 0x00})
	right := geometry.NewPlane(core.NewVec3(-1, 0, 0), 1.2, core.RGB{R: 0x00, G: 0xFF, B: 0x00})
	back := geometry.NewPlane(core.NewVec3(0, 0, 1), -0.2, core.RGB{})
	ceiling := geometry.NewPlane(core.NewVec3(0, -1, 0), 0.5, core.RGB{R: 0xFF, G: 0xFF, B: 0xFF})

	for _, plane := range []*geometry.Plane{front, floor, left, right, back, ceiling} {
		s.AddPlane(plane)
	}

	// upper-left corner
	s.Light = core.NewVec3(-0.7, 1.5, 0.0)

	return s
}
