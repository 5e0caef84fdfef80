//go:build !cgo || nowindow

package window

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-vga-raytracer/pkg/display"
	"github.com/df07/go-vga-raytracer/pkg/palette"
)

func TestRunWithoutCgo(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	close(done)
	err := Run("test", display.NewCanvas(4, 4, palette.VGA()), cancel, done)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}
