package geom

// View maps image-local coordinates onto the widget that displays the image.
// A widget point w corresponds to image point (w - Origin) / Scale.
type View struct {
	Origin Point
	Scale  float64
}

// Identity is the view that leaves coordinates untouched.
var Identity = View{Scale: 1}

func (v View) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// ToScreen maps an image-local rectangle to widget space.
func (v View) ToScreen(r Rect) Rect { return r.Scale(v.scale()).Translate(v.Origin) }

// ToImage maps a widget-local point to image space.
func (v View) ToImage(p Point) Point { return p.Sub(v.Origin).Div(v.scale()) }

// PointToScreen maps an image-local point to widget space.
func (v View) PointToScreen(p Point) Point { return p.Mul(v.scale()).Add(v.Origin) }
