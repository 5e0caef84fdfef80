package renderer

import (
	"context"
	"image"
)

// TileRenderer traces the pixels of one tile into a shared frame
type TileRenderer struct {
	raytracer *Raytracer
	camera    *Camera
}

// NewTileRenderer creates a new tile renderer from a raytracer and camera
func NewTileRenderer(raytracer *Raytracer, camera *Camera) *TileRenderer {
	return &TileRenderer{
		raytracer: raytracer,
		camera:    camera,
	}
}

// RenderTileBounds traces every pixel within bounds into frame.
// The context is polled between pixels, never mid-trace; on cancellation the
// pixels traced so far are kept and ctx.Err() is returned.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, frame *Frame) (RenderStats, error) {
	var stats RenderStats

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			ray := tr.camera.GetRay(x, y)
			frame.Set(x, y, tr.raytracer.trace(ray, nil, x, y, 0, &stats))
			stats.PrimaryRays++
			stats.TotalPixels++
		}
	}

	return stats, nil
}
