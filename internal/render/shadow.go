package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// Shadow configures the drop shadow placed behind exported previews.
type Shadow struct {
	Sigma   float64
	Offset  image.Point
	Opacity float64
}

// PreviewShadow is the shadow used by "boxlabel render -shadow".
var PreviewShadow = Shadow{Sigma: 8, Offset: image.Pt(12, 12), Opacity: 0.5}

// WithShadow returns img composited over a blurred copy of its own alpha. The
// result is zero based and large enough to hold both; the returned point is
// where img's top-left corner ended up.
func WithShadow(img *image.RGBA, s Shadow) (*image.RGBA, image.Point) {
	b := img.Bounds()
	if b.Empty() || s.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := math.Min(s.Opacity, 1)
	pad := 0
	if s.Sigma > 0 {
		pad = int(math.Ceil(3 * s.Sigma))
	}

	w, h := b.Dx(), b.Dy()
	mask := image.NewNRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := img.RGBAAt(b.Min.X+x, b.Min.Y+y).A
			if a == 0 {
				continue
			}
			i := mask.PixOffset(x+pad, y+pad)
			mask.Pix[i+3] = uint8(float64(a)*opacity + 0.5)
		}
	}
	blurred := imaging.Blur(mask, s.Sigma)

	content := image.Rect(0, 0, w, h)
	shade := image.Rect(-pad, -pad, w+pad, h+pad).Add(s.Offset)
	all := content.Union(shade)
	dst := image.NewRGBA(all.Sub(all.Min))
	draw.Draw(dst, shade.Sub(all.Min), blurred, image.Point{}, draw.Over)
	draw.Draw(dst, content.Sub(all.Min), img, b.Min, draw.Over)
	return dst, content.Min.Sub(all.Min)
}
