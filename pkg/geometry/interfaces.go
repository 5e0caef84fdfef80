package geometry

import "github.com/df07/go-vga-raytracer/pkg/core"

// MissDistance is the parametric distance reported for a ray that hits nothing
const MissDistance = -1.0

// Hit records where a ray met a surface
type Hit struct {
	T     float64   // Parametric distance along the ray
	Point core.Vec3 // World-space intersection point
}

// Object is a surface that can be excluded from a trace.
// Identity is pointer identity: *Sphere and *Plane implement it.
type Object interface {
	Intersect(ray core.Ray) (Hit, bool)
	BaseColor() core.RGB
	IsReflective() bool
}
