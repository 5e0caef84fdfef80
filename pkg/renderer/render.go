package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image, row by row
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileCompletion describes a finished tile for progress callbacks
type TileCompletion struct {
	TileX   int // Tile coordinates (not pixel coordinates)
	TileY   int
	Bounds  image.Rectangle
	Indices []uint8 // Copy of the tile's palette indices, row-major

	// Progress information
	TileNumber int // Completed tiles so far, including this one (1-based)
	TotalTiles int
}

// Image returns the tile as a paletted image through p
func (tc TileCompletion) Image(p *palette.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, tc.Bounds.Dx(), tc.Bounds.Dy()), p.ColorPalette())
	copy(img.Pix, tc.Indices)
	return img
}

// RenderOptions configures per-render callbacks
type RenderOptions struct {
	// OnTile is called once per finished tile, from the goroutine that called
	// Render, never concurrently with itself.
	OnTile func(TileCompletion)
}

// Renderer renders a whole frame of a scene in parallel tiles
type Renderer struct {
	scene     *scene.Scene
	config    Config
	raytracer *Raytracer
	camera    *Camera
	logger    core.Logger
}

// NewRenderer validates the scene and config and creates a renderer.
// A nil logger selects the default stdout logger.
func NewRenderer(s *scene.Scene, config Config, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Renderer{
		scene:     s,
		config:    config,
		raytracer: NewRaytracer(s, config),
		camera:    NewCamera(config.Width, config.Height, config.FOV),
		logger:    logger,
	}, nil
}

// Config returns the render configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Palette returns the palette the frame's indices refer to
func (r *Renderer) Palette() *palette.Palette {
	return r.raytracer.Quantizer().Palette()
}

// PaletteID identifies the active palette for frame dumps
func (r *Renderer) PaletteID() palette.ID {
	return r.raytracer.Quantizer().PaletteID()
}

// Render traces every pixel once. Cancelling ctx stops the workers between
// pixels; the partially filled frame is returned together with the wrapped
// context error.
func (r *Renderer) Render(ctx context.Context, opts RenderOptions) (*Frame, RenderStats, error) {
	startTime := time.Now()

	frame := NewFrame(r.config.Width, r.config.Height)
	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileSize)
	tilesX := (r.config.Width + r.config.TileSize - 1) / r.config.TileSize

	tileRenderer := NewTileRenderer(r.raytracer, r.camera)
	workerPool := NewWorkerPool(tileRenderer, frame, len(tiles), r.config.NumWorkers)

	r.logger.Printf("Rendering %q at %dx%d, %d tiles on %d workers (max depth %d, palette %s)...\n",
		r.scene.Name, r.config.Width, r.config.Height, len(tiles), workerPool.GetNumWorkers(),
		r.config.MaxDepth, r.PaletteID())

	workerPool.Start(ctx)
	for i, tile := range tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	var stats RenderStats
	var renderErr error
	completed := 0
	for i := 0; i < len(tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		stats.Merge(result.Stats)
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}

		completed++
		if opts.OnTile != nil {
			tile := result.Tile
			opts.OnTile(TileCompletion{
				TileX:      tile.ID % tilesX,
				TileY:      tile.ID / tilesX,
				Bounds:     tile.Bounds,
				Indices:    frame.Region(tile.Bounds),
				TileNumber: completed,
				TotalTiles: len(tiles),
			})
		}
	}
	workerPool.Stop()

	stats.Duration = time.Since(startTime)

	if renderErr != nil {
		r.logger.Printf("Rendering cancelled after %d of %d pixels (%v)\n",
			stats.TotalPixels, r.config.Width*r.config.Height, renderErr)
		return frame, stats, fmt.Errorf("render cancelled: %w", renderErr)
	}

	r.logger.Printf("Render completed in %v (%d primary rays, %d secondary rays, %d depth-limited)\n",
		stats.Duration, stats.PrimaryRays, stats.SecondaryRays, stats.DepthLimited)

	return frame, stats, nil
}
