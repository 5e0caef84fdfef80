package output

import (
	"errors"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for image formats other than png and gif
var ErrUnknownFormat = errors.New("unknown image format")

// Format names an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
)

// ParseFormat accepts "png" or "gif" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatGIF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// WriteImage encodes the frame through p. Both formats store the palette
// indices directly.
func WriteImage(w io.Writer, frame *renderer.Frame, p *palette.Palette, format Format) error {
	img := frame.Paletted(p)
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatGIF:
		return gif.Encode(w, img, &gif.Options{NumColors: palette.Size})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// SaveImage writes the frame to path, creating parent directories
func SaveImage(path string, frame *renderer.Frame, p *palette.Palette, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := WriteImage(file, frame, p, format); err != nil {
		file.Close()
		return fmt.Errorf("error saving %s: %w", format, err)
	}
	return file.Close()
}
