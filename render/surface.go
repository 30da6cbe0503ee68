package render

import "graphboard/geometry"

// Transform maps world to surface coordinates as (p + Translate) * Scale.
type Transform struct {
	Scale     float64
	Translate geometry.Point
}

// Identity leaves coordinates unchanged.
var Identity = Transform{Scale: 1}

// Apply maps a world point to the surface.
func (t Transform) Apply(p geometry.Point) geometry.Point {
	return p.Add(t.Translate).Scale(t.Scale)
}

// ApplyRect maps a world rectangle to the surface.
func (t Transform) ApplyRect(r geometry.Rect) geometry.Rect {
	r = r.Normalize()
	return geometry.RectFromPoints(t.Apply(r.Min()), t.Apply(r.Max()))
}

// Surface is an immediate-mode 2D drawing target. Every primitive takes
// world coordinates; the surface maps them through the transform set for
// the frame.
type Surface interface {
	// Size returns the drawable area in screen units.
	Size() (width, height float64)
	// Clear fills the surface with background and resets the transform.
	Clear(background string)
	SetTransform(t Transform)
	Line(a, b geometry.Point, s Style)
	Rect(r geometry.Rect, s Style)
	Ellipse(r geometry.Rect, s Style)
	// Path draws a polyline, closing and filling it when closed is true.
	Path(points []geometry.Point, closed bool, s Style)
	// Text draws a single line with its baseline-left corner at p.
	Text(p geometry.Point, text string, s Style)
}
