package material

import (
	"math"
	"testing"

	"github.com/df07/go-vga-raytracer/pkg/core"
)

func TestRefract_NormalIncidence(t *testing.T) {
	d := core.NewVec3(0, 0, -1)
	n := core.NewVec3(0, 0, 1)

	got := Refract(d, n)
	if got.Subtract(d).Length() > 1e-12 {
		t.Errorf("Expected undeviated ray %v, got %v", d, got)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	tests := []struct {
		name  string
		angle float64 // incidence angle in degrees
	}{
		{"15 degrees", 15},
		{"45 degrees", 45},
		{"80 degrees", 80},
	}

	n := core.NewVec3(0, 1, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta := tt.angle * math.Pi / 180
			d := core.NewVec3(math.Sin(theta), -math.Cos(theta), 0)

			got := Refract(d, n)

			if math.Abs(got.Length()-1) > 1e-9 {
				t.Errorf("Expected unit length, got %f", got.Length())
			}
			if got.Y >= 0 {
				t.Errorf("Refracted ray should continue into the surface, got %v", got)
			}

			sinIn := math.Sin(theta)
			sinOut := got.X / got.Length()
			if math.Abs(AirIndex*sinIn-GlassIndex*sinOut) > 1e-9 {
				t.Errorf("Snell's law violated: %f*%f != %f*%f", AirIndex, sinIn, GlassIndex, sinOut)
			}
		})
	}
}

func TestRefractVector_TotalInternalReflection(t *testing.T) {
	// Glass to air at a steep angle
	theta := 70 * math.Pi / 180
	d := core.NewVec3(math.Sin(theta), -math.Cos(theta), 0)
	n := core.NewVec3(0, 1, 0)

	got := refractVector(d, n, GlassIndex/AirIndex)
	expected := Reflect(d, n)
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected reflection %v, got %v", expected, got)
	}
}
