// Package capture takes desktop screenshots and drops them into an images
// folder so they can be labelled.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Source selects the screenshot mechanism.
type Source int

const (
	// SourceAuto tries the desktop portal first and falls back to X11.
	SourceAuto Source = iota
	SourcePortal
	SourceX11
)

func (s Source) String() string {
	switch s {
	case SourcePortal:
		return "portal"
	case SourceX11:
		return "x11"
	}
	return "auto"
}

// ParseSource accepts "auto", "portal" or "x11".
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SourceAuto, nil
	case "portal":
		return SourcePortal, nil
	case "x11":
		return SourceX11, nil
	}
	return SourceAuto, fmt.Errorf("unknown capture source %q", s)
}

// Options configures a screenshot.
type Options struct {
	Source Source
	// Interactive lets the user pick the region in the portal dialog.
	Interactive   bool
	IncludeCursor bool
	// Monitor crops the result to one monitor: "primary", an index or part
	// of an output name.
	Monitor string
}

// MonitorInfo describes one monitor of the X11 layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

type backend interface {
	Portal(ctx context.Context, interactive, cursor bool) (*image.RGBA, error)
	Root() (*image.RGBA, error)
	Monitors() ([]MonitorInfo, error)
}

var current backend = newBackend()

// Screenshot captures the desktop.
func Screenshot(ctx context.Context, opts Options) (*image.RGBA, error) {
	var img *image.RGBA
	var err error
	switch opts.Source {
	case SourcePortal:
		img, err = current.Portal(ctx, opts.Interactive, opts.IncludeCursor)
	case SourceX11:
		img, err = current.Root()
	default:
		img, err = current.Portal(ctx, opts.Interactive, opts.IncludeCursor)
		if err != nil && ctx.Err() == nil {
			var xerr error
			img, xerr = current.Root()
			if xerr != nil {
				return nil, fmt.Errorf("screenshot: portal: %v; x11: %w", err, xerr)
			}
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	if opts.Monitor == "" {
		return img, nil
	}
	monitors, err := current.Monitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, opts.Monitor)
	if err != nil {
		return nil, err
	}
	return Crop(img, mon.Rect)
}

// Crop copies the part of src inside rect into a new image at the origin.
func Crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// FindMonitor resolves a selector against monitors. An empty selector picks
// the first monitor.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	switch sel {
	case "":
		return monitors[0], nil
	case "primary":
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, m := range monitors {
		if strings.Contains(strings.ToLower(m.Name), sel) {
			return m, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// FileName is the name a capture taken at t is saved under.
func FileName(t time.Time) string {
	return "capture-" + t.Format("20060102-150405") + ".png"
}

// SaveInto writes img into dir as a PNG named after t and returns the path.
// An existing file is never overwritten; a numeric suffix is added instead.
func SaveInto(dir string, img image.Image, t time.Time) (string, error) {
	base := strings.TrimSuffix(FileName(t), ".png")
	path := filepath.Join(dir, base+".png")
	for i := 2; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.png", base, i))
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save capture: %w", err)
	}
	return path, nil
}
