package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

func TestSphere_Intersect_TowardCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		center core.Vec3
		radius float64
	}{
		{"along -Z", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 0.1},
		{"along +X", core.NewVec3(-3, 1, 2), core.NewVec3(2, 1, 2), 1.5},
		{"diagonal", core.NewVec3(1, 1, 1), core.NewVec3(-2, -3, 4), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, core.RGB{})
			toCenter := tt.center.Subtract(tt.origin)
			ray := core.NewRay(tt.origin, toCenter.Normalize())

			hit, ok := sphere.Intersect(ray)
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}

			expectedT := toCenter.Length() - tt.radius
			if math.Abs(hit.T-expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
			}

			dist := hit.Point.Subtract(tt.center).Length()
			if math.Abs(dist-tt.radius) > 1e-9 {
				t.Errorf("Hit point %v is %f from center, expected %f", hit.Point, dist, tt.radius)
			}
		})
	}
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, core.RGB{})

	tests := []struct {
		name string
		ray  core.Ray
	}{
		{"passes beside", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))},
		{"behind origin", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))},
		{"offset parallel", core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -1))},
		// near root is negative, far root is ignored
		{"inside sphere", core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Intersect(tt.ray)
			if ok {
				t.Errorf("Expected miss, got hit at t=%f", hit.T)
			}
			if hit.T != MissDistance {
				t.Errorf("Expected miss distance %f, got %f", MissDistance, hit.T)
			}
		})
	}
}

func TestSphere_Intersect_Tangent(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, core.RGB{})
	ray := core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1))

	hit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected grazing hit")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
}

func TestSphere_NormalAt(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2, core.RGB{})
	n := sphere.NormalAt(core.NewVec3(1, 4, 3))

	expected := core.NewVec3(0, 1, 0)
	if n.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}
}

func TestSphere_Validate(t *testing.T) {
	if err := NewSphere(core.Vec3{}, 0.1, core.RGB{}).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, r := range []float64{0, -1, math.NaN()} {
		if err := NewSphere(core.Vec3{}, r, core.RGB{}).Validate(); err == nil {
			t.Errorf("Expected error for radius %v", r)
		}
	}
}
