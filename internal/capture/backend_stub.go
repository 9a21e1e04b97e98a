//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"errors"
	"image"
)

var errUnsupported = errors.New("screen capture is not supported on this platform")

type stubBackend struct{}

func newBackend() backend { return stubBackend{} }

func (stubBackend) Portal(context.Context, bool, bool) (*image.RGBA, error) {
	return nil, errUnsupported
}

func (stubBackend) Root() (*image.RGBA, error) { return nil, errUnsupported }

func (stubBackend) Monitors() ([]MonitorInfo, error) { return nil, errUnsupported }
