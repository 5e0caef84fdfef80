package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/geometry"
)

// ErrEmptyScene is returned by Validate for a scene with no geometry
var ErrEmptyScene = errors.New("scene has no spheres or planes")

// Scene contains all the elements needed for rendering.
// It is built once and read-only while tracing.
type Scene struct {
	Name    string
	Spheres []geometry.Sphere
	Planes  []geometry.Plane
	Light   core.Vec3 // Position of the single point light
}

// Validate checks every object in the scene
func (s *Scene) Validate() error {
	if len(s.Spheres) == 0 && len(s.Planes) == 0 {
		return ErrEmptyScene
	}
	for i := range s.Spheres {
		if err := s.Spheres[i].Validate(); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	for i := range s.Planes {
		if err := s.Planes[i].Validate(); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres) + len(s.Planes)
}

// AddSphere appends a copy of the sphere
func (s *Scene) AddSphere(sphere *geometry.Sphere) {
	s.Spheres = append(s.Spheres, *sphere)
}

// AddPlane appends a copy of the plane
func (s *Scene) AddPlane(plane *geometry.Plane) {
	s.Planes = append(s.Planes, *plane)
}
