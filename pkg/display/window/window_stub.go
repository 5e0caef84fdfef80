//go:build !cgo || nowindow

package window

import (
	"context"
	"errors"

	"github.com/df07/go-vga-raytracer/pkg/display"
)

// Scale is the integer zoom the window would apply
const Scale = 2

// ErrUnavailable is returned by Run in builds without cgo or with the nowindow tag
var ErrUnavailable = errors.New("window mode requires cgo and a build without the nowindow tag")

// Run reports that no window can be opened in this build
func Run(title string, canvas *display.Canvas, cancel context.CancelFunc, done <-chan struct{}) error {
	return ErrUnavailable
}
