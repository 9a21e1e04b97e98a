package annotation

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an RGBA colour with float components in [0,1].
type Color [4]float32

// DefaultColor is used when a stored annotation carries no colour.
var DefaultColor = Color{1, 0, 0, 1}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// RGBA returns the 8-bit colour used for drawing.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3])}
}

// Hex formats the colour as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Valid reports whether every component lies in [0,1].
func (c Color) Valid() bool {
	for _, v := range c {
		if v < 0 || v > 1 || math.IsNaN(float64(v)) {
			return false
		}
	}
	return true
}

func fromColorful(cf colorful.Color) Color {
	r, g, b := cf.Clamped().RGB255()
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// RandomColor picks a pleasant opaque colour for a new annotation.
func RandomColor() Color {
	return fromColorful(colorful.HappyColor())
}

// ParseColor accepts an SVG colour name such as "orange" or a hex value
// such as "#ff8800". The result is opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if rgba, ok := colornames.Map[s]; ok {
		cf, _ := colorful.MakeColor(rgba)
		return fromColorful(cf), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return fromColorful(cf), nil
}
