package geometry

import (
	"fmt"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

// Plane represents an infinite plane satisfying dot(Normal, P) + Distance = 0
type Plane struct {
	Normal     core.Vec3 // Unit normal
	Distance   float64   // Signed offset along the normal
	Color      core.RGB
	Reflective bool
}

// NewPlane creates a new plane, normalizing the normal
func NewPlane(normal core.Vec3, distance float64, color core.RGB) *Plane {
	return &Plane{
		Normal:   normal.Normalize(),
		Distance: distance,
		Color:    color,
	}
}

// Validate checks the plane is well formed
func (p *Plane) Validate() error {
	if p.Normal.IsZero() {
		return fmt.Errorf("plane at distance %v: normal must be non-zero", p.Distance)
	}
	return nil
}

// Intersect tests the ray against the plane.
// A ray is treated as parallel only when dot(Normal, Direction) is exactly zero.
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	denominator := p.Normal.Dot(ray.Direction)
	if denominator == 0.0 {
		return Hit{T: MissDistance}, false
	}

	t := -(p.Normal.Dot(ray.Origin) + p.Distance) / denominator

	// Plane lies behind the ray origin
	if t < 0.0 {
		return Hit{T: MissDistance}, false
	}

	return Hit{T: t, Point: ray.At(t)}, true
}

// BaseColor returns the plane's surface color
func (p *Plane) BaseColor() core.RGB { return p.Color }

// IsReflective reports whether the plane is a mirror
func (p *Plane) IsReflective() bool { return p.Reflective }
