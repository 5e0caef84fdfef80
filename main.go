package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-vga-raytracer/pkg/display"
	"github.com/df07/go-vga-raytracer/pkg/display/window"
	"github.com/df07/go-vga-raytracer/pkg/loaders"
	"github.com/df07/go-vga-raytracer/pkg/output"
	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
	"github.com/df07/go-vga-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene     string
	Grayscale bool
	GrayPal   bool
	Dither    bool
	FOV       float64
	Width     int
	Height    int
	MaxDepth  int
	Workers   int
	TileSize  int
	Out       string
	Format    string
	Dump      string
	DumpCodec string
	Load      string
	Window    bool
	Help      bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	defaults := renderer.DefaultConfig()
	var o options

	fs := flag.NewFlagSet("vga-raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.Scene, "scene", "default", "Scene id: built-in name, file:<name>, or path to a .scn file")
	fs.BoolVar(&o.Grayscale, "g", false, "Match against the VGA gray ramp only")
	fs.BoolVar(&o.GrayPal, "gp", false, "Use the 256 step grayscale palette (overrides -g)")
	fs.BoolVar(&o.Dither, "d", false, "Apply 8x8 ordered dithering")
	fs.Float64Var(&o.FOV, "f", defaults.FOV, "Vertical field of view in degrees")
	fs.IntVar(&o.Width, "width", defaults.Width, "Image width")
	fs.IntVar(&o.Height, "height", defaults.Height, "Image height")
	fs.IntVar(&o.MaxDepth, "max-depth", defaults.MaxDepth, "Maximum reflection/refraction bounces")
	fs.IntVar(&o.Workers, "workers", defaults.NumWorkers, "Number of render workers (0 = one per CPU)")
	fs.IntVar(&o.TileSize, "tile", defaults.TileSize, "Tile edge in pixels")
	fs.StringVar(&o.Out, "out", "", "Output image path (default output/<scene>/render_<timestamp>.<format>)")
	fs.StringVar(&o.Format, "format", "", "Image format: png or gif (default from -out, else png)")
	fs.StringVar(&o.Dump, "dump", "", "Also write a compressed index dump to this path")
	fs.StringVar(&o.DumpCodec, "dump-codec", "", "Dump codec: zstd or snappy (default from -dump extension)")
	fs.StringVar(&o.Load, "load", "", "Convert an existing index dump instead of rendering")
	fs.BoolVar(&o.Window, "window", false, "Show the render in a window while it progresses")
	fs.BoolVar(&o.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}
	return o, fs, nil
}

// renderConfig converts the command line into a validated render config
func (o options) renderConfig() (renderer.Config, error) {
	config := renderer.DefaultConfig()
	config.Width, config.Height = o.Width, o.Height
	config.FOV = o.FOV
	config.MaxDepth = o.MaxDepth
	config.NumWorkers = o.Workers
	config.TileSize = o.TileSize
	config.Mode = palette.Mode{Grayscale: o.Grayscale, GrayscalePalette: o.GrayPal, Dither: o.Dither}
	return config, config.Validate()
}

// imageFormat picks the format from -format, then the -out extension
func (o options) imageFormat() (output.Format, error) {
	if o.Format != "" {
		return output.ParseFormat(o.Format)
	}
	if o.Out != "" {
		return output.FormatFromPath(o.Out)
	}
	return output.FormatPNG, nil
}

// dumpCodec picks the codec from -dump-codec, then the -dump extension
func (o options) dumpCodec() (output.Codec, error) {
	if o.DumpCodec != "" {
		return output.ParseCodec(o.DumpCodec)
	}
	return output.CodecFromPath(o.Dump)
}

// outputPath returns -out, or a timestamped path under output/<scene>
func (o options) outputPath(format output.Format, now time.Time) string {
	if o.Out != "" {
		return o.Out
	}
	name := strings.TrimSuffix(filepath.Base(o.Scene), loaders.SceneFileExt)
	name = strings.TrimPrefix(name, "file:")
	if o.Load != "" {
		name = strings.TrimSuffix(filepath.Base(o.Load), filepath.Ext(o.Load))
	}
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("VGA Raytracer")
	fmt.Println("Usage: vga-raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, name := range scene.BuiltinNames() {
		fmt.Printf("  %s\n", name)
	}
	if files, err := scene.ListSceneFiles(); err == nil && len(files) > 0 {
		fmt.Println()
		fmt.Println("Scene files:")
		for _, info := range files {
			fmt.Printf("  %-20s %s\n", info.ID, info.Description)
		}
	}
}

func main() {
	o, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if o.Help {
		printHelp(fs)
		return
	}

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	format, err := o.imageFormat()
	if err != nil {
		return err
	}

	if o.Load != "" {
		return convertDump(o, format)
	}

	var codec output.Codec
	if o.Dump != "" {
		if codec, err = o.dumpCodec(); err != nil {
			return err
		}
	}

	config, err := o.renderConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Loading scene %q...\n", o.Scene)
	sceneObj, err := scene.Create(o.Scene)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(sceneObj, config, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var frame *renderer.Frame
	var stats renderer.RenderStats
	if o.Window {
		frame, stats, err = renderInWindow(ctx, r, sceneObj.Name)
	} else {
		frame, stats, err = r.Render(ctx, renderer.RenderOptions{})
	}
	if err != nil {
		return err
	}

	fmt.Printf("Rays: %d primary, %d secondary (%.2f per pixel), %d depth limited\n",
		stats.PrimaryRays, stats.SecondaryRays, stats.SecondaryPerPixel(), stats.DepthLimited)

	path := o.outputPath(format, time.Now())
	if err := output.SaveImage(path, frame, r.Palette(), format); err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", path)

	if o.Dump != "" {
		if err := output.SaveDump(o.Dump, frame, r.PaletteID(), codec); err != nil {
			return err
		}
		fmt.Printf("Index dump saved as %s (%s)\n", o.Dump, codec)
	}
	return nil
}

// renderInWindow renders on a background goroutine while the window shows
// finished tiles. Closing the window cancels the render.
func renderInWindow(ctx context.Context, r *renderer.Renderer, title string) (*renderer.Frame, renderer.RenderStats, error) {
	config := r.Config()
	canvas := display.NewCanvas(config.Width, config.Height, r.Palette())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		frame *renderer.Frame
		stats renderer.RenderStats
		err   error
	}
	done := make(chan struct{})
	resultChan := make(chan result, 1)
	go func() {
		defer close(done)
		frame, stats, err := r.Render(ctx, renderer.RenderOptions{OnTile: canvas.DrawTile})
		resultChan <- result{frame, stats, err}
	}()

	if err := window.Run(title, canvas, cancel, done); err != nil {
		cancel()
		<-done
		return nil, renderer.RenderStats{}, err
	}

	// The window may close before the render finishes
	cancel()
	res := <-resultChan
	return res.frame, res.stats, res.err
}

// convertDump re-encodes a saved index dump as an image, optionally in a window
func convertDump(o options, format output.Format) error {
	frame, header, err := output.LoadDump(o.Load)
	if err != nil {
		return err
	}
	p := palette.ByID(header.Palette)
	fmt.Printf("Loaded %dx%d %s dump (%s)\n", header.Width, header.Height, header.Palette, header.Codec)

	if o.Window {
		canvas := display.NewCanvas(frame.Width, frame.Height, p)
		canvas.DrawFrame(frame)
		done := make(chan struct{})
		close(done)
		if err := window.Run(filepath.Base(o.Load), canvas, func() {}, done); err != nil {
			return err
		}
	}

	path := o.outputPath(format, time.Now())
	if err := output.SaveImage(path, frame, p, format); err != nil {
		return err
	}
	fmt.Printf("Image saved as %s\n", path)
	return nil
}
