package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
	faces    sync.Map // map[float64]font.Face
)

// Face returns the Go Regular face at size points. If the embedded font
// cannot be parsed the fixed 7x13 face is used instead.
func Face(size float64) font.Face {
	fontOnce.Do(func() { goFont, fontErr = opentype.Parse(goregular.TTF) })
	if fontErr != nil || size <= 0 {
		return basicfont.Face7x13
	}
	size = math.Round(size*2) / 2
	if f, ok := faces.Load(size); ok {
		return f.(font.Face)
	}
	f, err := opentype.NewFace(goFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	actual, _ := faces.LoadOrStore(size, f)
	return actual.(font.Face)
}

// Measure returns the width and line height of text in face.
func Measure(face font.Face, text string) (width, height int) {
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil()
}

// Text draws text with its top-left corner at (x, y).
func Text(img *image.RGBA, x, y int, text string, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// Caption draws text on a filled box whose top-left corner is at p and
// returns the box.
func Caption(img *image.RGBA, p image.Point, text string, fg, bg color.Color, face font.Face) image.Rectangle {
	w, h := Measure(face, text)
	box := image.Rect(p.X, p.Y, p.X+w+6, p.Y+h+2)
	Fill(img, box, bg)
	Text(img, p.X+3, p.Y+1, text, fg, face)
	return box
}

// Truncate shortens text with an ellipsis so it fits in width pixels.
func Truncate(face font.Face, text string, width int) string {
	if w, _ := Measure(face, text); w <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := fmt.Sprintf("%s…", string(runes[:n]))
		if w, _ := Measure(face, s); w <= width {
			return s
		}
	}
	return ""
}
