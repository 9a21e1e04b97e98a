package geom

import "math"

// Point is a position in either image-local or widget-local space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point         { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point         { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point       { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float64) Point       { return Point{p.X / k, p.Y / k} }
func (p Point) Eq(q Point) bool           { return p.X == q.X && p.Y == q.Y }
func (p Point) Abs() Point                { return Point{math.Abs(p.X), math.Abs(p.Y)} }
func (p Point) Max(q Point) Point         { return Point{math.Max(p.X, q.X), math.Max(p.Y, q.Y)} }
func (p Point) Min(q Point) Point         { return Point{math.Min(p.X, q.X), math.Min(p.Y, q.Y)} }
func (p Point) AddScalar(v float64) Point { return Point{p.X + v, p.Y + v} }

// Rect is an axis-aligned rectangle stored as its top-left corner and its
// size. Size components are never negative.
type Rect struct {
	Min  Point
	Size Point
}

// FromCorners builds the rectangle spanned by two opposite corners given in
// any order.
func FromCorners(a, b Point) Rect {
	return Rect{Min: a.Min(b), Size: b.Sub(a).Abs()}
}

// FromCenter builds a rectangle from its center and span. Negative span
// components are clamped to zero.
func FromCenter(center, span Point) Rect {
	span = span.Max(Point{})
	return Rect{Min: center.Sub(span.Div(2)), Size: span}
}

// Center returns the middle of the rectangle.
func (r Rect) Center() Point { return r.Min.Add(r.Size.Div(2)) }

// Span returns the width and height of the rectangle.
func (r Rect) Span() Point { return r.Size }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return r.Min.Add(r.Size) }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Size.X <= 0 || r.Size.Y <= 0 }

// Inside reports whether p lies strictly within r. Boundary points are
// outside.
func (r Rect) Inside(p Point) bool {
	d := p.Sub(r.Center()).Abs()
	return d.X < r.Size.X/2 && d.Y < r.Size.Y/2
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	d := r.Center().Sub(o.Center()).Abs()
	sum := r.Size.Add(o.Size).Div(2)
	return d.X < sum.X && d.Y < sum.Y
}

// WithSpan returns a rectangle with the same center and the given span.
func (r Rect) WithSpan(span Point) Rect { return FromCenter(r.Center(), span) }

// Expand grows the rectangle by m on every side. A negative m shrinks it,
// never below zero size.
func (r Rect) Expand(m float64) Rect {
	return r.WithSpan(r.Size.AddScalar(2 * m))
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect { return Rect{Min: r.Min.Add(d), Size: r.Size} }

// Scale multiplies both corner positions by k.
func (r Rect) Scale(k float64) Rect {
	return FromCorners(r.Min.Mul(k), r.Max().Mul(k))
}
