package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

// LabelSize is the caption size in points.
const LabelSize = 12

var captionText = color.RGBA{255, 255, 255, 255}

// Rectangle converts r to the integer rectangle covering it.
func Rectangle(r geom.Rect) image.Rectangle {
	br := r.Max()
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(br.X)), int(math.Ceil(br.Y)),
	)
}

// Style controls how Box draws one instance.
type Style struct {
	Thick   int
	Pending bool
	Caption bool
	// CaptionText and CaptionBackground default to white on the
	// annotation colour.
	CaptionText       color.Color
	CaptionBackground color.Color
}

// StyleFor returns the style for in: emphasized boxes are twice as thick
// and boxes still being created are dashed.
func StyleFor(in *annotation.Instance) Style {
	st := Style{Thick: 1, Caption: true}
	if in.Emphasized() {
		st.Thick = 2
	}
	if in.Status == fsm.StatusCreate {
		st.Pending = true
		st.Caption = false
	}
	return st
}

// Box draws r in the colour of a. POINT annotations also get a centre
// marker.
func Box(dst *image.RGBA, r geom.Rect, a *annotation.Annotation, st Style, face font.Face) {
	rect := Rectangle(r)
	col := a.Color.RGBA()
	if st.Pending {
		DashedRect(dst, rect, 4, col, color.RGBA{255, 255, 255, 255})
	} else {
		Rect(dst, rect, col, st.Thick)
	}
	if a.Type == annotation.Point {
		c := r.Center()
		Cross(dst, image.Pt(int(c.X), int(c.Y)), 4, col, st.Thick)
	}
	if !st.Caption || face == nil {
		return
	}
	_, h := Measure(face, a.Label)
	p := image.Pt(rect.Min.X, rect.Min.Y-h-2)
	if p.Y < dst.Bounds().Min.Y {
		p.Y = rect.Min.Y
	}
	var fg, bg color.Color = captionText, color.RGBA{col.R, col.G, col.B, 200}
	if st.CaptionText != nil {
		fg = st.CaptionText
	}
	if st.CaptionBackground != nil {
		bg = st.CaptionBackground
	}
	Caption(dst, p, a.Label, fg, bg, face)
}

// Annotated returns a copy of img with every instance placed on file drawn
// over it in image coordinates.
func Annotated(img image.Image, doc *annotation.Document, file string) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	face := Face(LabelSize)
	for _, p := range doc.InstancesOn(file) {
		if p.Instance.Status == fsm.StatusCreate {
			continue
		}
		Box(out, p.Instance.OnImage, p.Annotation, Style{Thick: 2, Caption: true}, face)
	}
	return out
}
