// Package geometry provides the world/screen coordinate primitives shared by
// the graph engine.
package geometry

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Div returns p/k.
func (p Point) Div(k float64) Point {
	return Point{X: p.X / k, Y: p.Y / k}
}

// Near reports whether p and q are within eps of each other on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle. Width and Height may be negative while a
// shape is being drawn up or left of its anchor; use Normalize before
// containment tests.
type Rect struct {
	X, Y, Width, Height float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectFromPoints returns the normalised rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}.Normalize()
}

// Normalize returns the same rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle, edges included.
// Rectangles without area never contain anything.
func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	if n.Empty() {
		return false
	}
	return p.X >= n.X && p.X <= n.X+n.Width &&
		p.Y >= n.Y && p.Y <= n.Y+n.Height
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]Point {
	n := r.Normalize()
	return [4]Point{
		{X: n.X, Y: n.Y},
		{X: n.X + n.Width, Y: n.Y},
		{X: n.X + n.Width, Y: n.Y + n.Height},
		{X: n.X, Y: n.Y + n.Height},
	}
}

// Inset shrinks the rectangle by d on every side (grows it when d < 0).
func (r Rect) Inset(d float64) Rect {
	n := r.Normalize()
	return Rect{X: n.X + d, Y: n.Y + d, Width: n.Width - 2*d, Height: n.Height - 2*d}
}

// Bounds returns the bounding rectangle of the points.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
