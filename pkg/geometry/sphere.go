package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center     core.Vec3
	Radius     float64
	Color      core.RGB
	Reflective bool
	Refractive bool
}

// NewSphere creates a new opaque, non-mirrored sphere
func NewSphere(center core.Vec3, radius float64, color core.RGB) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Color:  color,
	}
}

// Validate checks the sphere is well formed
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("sphere at %v: radius must be positive, got %v", s.Center, s.Radius)
	}
	return nil
}

// Intersect tests the ray against the sphere using the geometric method.
// Only the near root is considered, so a ray starting inside the sphere misses.
// The ray direction must be unit length.
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	// Vector from ray origin to sphere center
	oc := s.Center.Subtract(ray.Origin)

	// Projection of oc onto the ray and squared distance of the center from the ray
	v := oc.Dot(ray.Direction)
	discriminant := s.Radius*s.Radius - (oc.Dot(oc) - v*v)
	if discriminant < 0 {
		return Hit{T: MissDistance}, false
	}

	t := v - math.Sqrt(discriminant)
	if t <= 0 {
		return Hit{T: MissDistance}, false
	}

	return Hit{T: t, Point: ray.At(t)}, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// BaseColor returns the sphere's surface color
func (s *Sphere) BaseColor() core.RGB { return s.Color }

// IsReflective reports whether the sphere is a mirror
func (s *Sphere) IsReflective() bool { return s.Reflective }
