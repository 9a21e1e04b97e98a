// Package render holds the raster primitives shared by the labelling window
// and the preview exporter.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	b := img.Bounds()
	for dx := -r; dx <= r-1+thick%2; dx++ {
		for dy := -r; dy <= r-1+thick%2; dy++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// Line draws a Bresenham line of the given thickness.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	if thick < 1 {
		thick = 1
	}
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect outlines r. The outline stays inside r.
func Rect(img *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	if r.Empty() {
		Line(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, col, thick)
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	Line(img, x0, y0, x1, y0, col, thick)
	Line(img, x1, y0, x1, y1, col, thick)
	Line(img, x1, y1, x0, y1, col, thick)
	Line(img, x0, y1, x0, y0, col, thick)
}

// DashedRect outlines r with alternating dashes of c1 and c2.
func DashedRect(img *image.RGBA, r image.Rectangle, dash int, c1, c2 color.Color) {
	if dash < 1 {
		dash = 1
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	i := 0
	plot := func(x, y int) {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		if image.Pt(x, y).In(img.Bounds()) {
			img.Set(x, y, col)
		}
		i++
	}
	for x := x0; x <= x1; x++ {
		plot(x, y0)
	}
	for y := y0 + 1; y <= y1; y++ {
		plot(x1, y)
	}
	for x := x1 - 1; x >= x0 && y1 > y0; x-- {
		plot(x, y1)
	}
	for y := y1 - 1; y > y0 && x1 > x0; y-- {
		plot(x0, y)
	}
}

// Cross draws a plus-shaped marker centred on p.
func Cross(img *image.RGBA, p image.Point, size int, col color.Color, thick int) {
	Line(img, p.X-size, p.Y, p.X+size, p.Y, col, thick)
	Line(img, p.X, p.Y-size, p.X, p.Y+size, col, thick)
}

// Fill paints r with col, blending when col is translucent.
func Fill(img *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// Scaled draws src into dst so that it covers r.
func Scaled(dst *image.RGBA, r image.Rectangle, src image.Image) {
	xdraw.ApproxBiLinear.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
}

// ToRGBA returns img as an *image.RGBA with a zero origin, copying when
// needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Checkerboard fills rect of dst with squares of the given size, marking
// where an image is transparent.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
