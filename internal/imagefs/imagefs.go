// Package imagefs lists the images of a folder and decodes them for display.
package imagefs

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/boxlabel/internal/geom"
)

// ErrUnsupported is returned for files whose extension is not an image
// type the folder scan accepts.
var ErrUnsupported = errors.New("unsupported image type")

// Extensions lists the accepted lowercase file extensions.
var Extensions = []string{".png", ".jpg", ".jpeg"}

// Supported reports whether name has an accepted extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns the image file names in dir, sorted. Hidden files and
// directories are skipped.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		if Supported(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load decodes the image at path, applying any EXIF orientation.
func Load(path string) (image.Image, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("load %s: %w", path, ErrUnsupported)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// Size returns the pixel size of img.
func Size(img image.Image) geom.Point {
	b := img.Bounds()
	return geom.Pt(float64(b.Dx()), float64(b.Dy()))
}

// FitScale returns the largest scale at which an image of size img fits in
// area without changing its aspect ratio.
func FitScale(img, area geom.Point) float64 {
	if img.X <= 0 || img.Y <= 0 || area.X <= 0 || area.Y <= 0 {
		return 1
	}
	return math.Min(area.X/img.X, area.Y/img.Y)
}

// Fit returns the view that centres an image of size img inside the area
// rectangle at FitScale.
func Fit(img geom.Point, area geom.Rect) geom.View {
	s := FitScale(img, area.Span())
	shown := img.Mul(s)
	return geom.View{Origin: area.Min.Add(area.Span().Sub(shown).Div(2)), Scale: s}
}

// Thumbnail shrinks img to fit within w x h pixels for previews.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
