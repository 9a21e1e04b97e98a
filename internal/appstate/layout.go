package appstate

import (
	"image"

	"github.com/example/boxlabel/internal/geom"
)

const (
	filesWidth   = 180
	sideWidth    = 260
	bottomHeight = 24
	headerHeight = 20
	rowHeight    = 18
)

// layout splits the window into the file list, the canvas, the two tables
// on the right and the shortcut bar.
type layout struct {
	Files       image.Rectangle
	Canvas      image.Rectangle
	Annotations image.Rectangle
	Instances   image.Rectangle
	Bar         image.Rectangle
}

func computeLayout(width, height int) layout {
	if width < filesWidth+sideWidth+1 {
		width = filesWidth + sideWidth + 1
	}
	if height < bottomHeight+2*headerHeight {
		height = bottomHeight + 2*headerHeight
	}
	top := height - bottomHeight
	sideX := width - sideWidth
	mid := top / 2
	return layout{
		Files:       image.Rect(0, 0, filesWidth, top),
		Canvas:      image.Rect(filesWidth, 0, sideX, top),
		Annotations: image.Rect(sideX, 0, width, mid),
		Instances:   image.Rect(sideX, mid, width, top),
		Bar:         image.Rect(0, top, width, height),
	}
}

// canvasArea is the canvas as a geometry rectangle for fitting images.
func (l layout) canvasArea() geom.Rect {
	return geom.FromCorners(
		geom.Pt(float64(l.Canvas.Min.X), float64(l.Canvas.Min.Y)),
		geom.Pt(float64(l.Canvas.Max.X), float64(l.Canvas.Max.Y)),
	)
}

// table is a scrolled list of rows under a header.
type table struct {
	Rect  image.Rectangle
	First int
	Count int
}

func (t table) visible() int {
	n := (t.Rect.Dy() - headerHeight) / rowHeight
	if n < 0 {
		return 0
	}
	return n
}

// scrolledTo returns t with First adjusted so row i is on screen.
func (t table) scrolledTo(i int) table {
	v := t.visible()
	switch {
	case v == 0:
		t.First = 0
	case i >= t.First+v:
		t.First = i - v + 1
	case i < t.First:
		t.First = i
	}
	if t.First < 0 {
		t.First = 0
	}
	return t
}

// rowRect is the rectangle of row i, which must be visible.
func (t table) rowRect(i int) image.Rectangle {
	y := t.Rect.Min.Y + headerHeight + (i-t.First)*rowHeight
	return image.Rect(t.Rect.Min.X, y, t.Rect.Max.X, y+rowHeight)
}

// rowAt returns the row under p.
func (t table) rowAt(p image.Point) (int, bool) {
	if !p.In(t.Rect) || p.Y < t.Rect.Min.Y+headerHeight {
		return 0, false
	}
	i := t.First + (p.Y-t.Rect.Min.Y-headerHeight)/rowHeight
	if i >= t.Count || i-t.First >= t.visible() {
		return 0, false
	}
	return i, true
}
