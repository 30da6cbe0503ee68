package geometry

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the direction of the vector from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Arrowhead returns the two barb points of an arrow whose tip is at tip and
// which travels along angle. halfAngle is in radians.
func Arrowhead(tip Point, angle, length, halfAngle float64) (left, right Point) {
	left = Point{
		X: tip.X - length*math.Cos(angle-halfAngle),
		Y: tip.Y - length*math.Sin(angle-halfAngle),
	}
	right = Point{
		X: tip.X - length*math.Cos(angle+halfAngle),
		Y: tip.Y - length*math.Sin(angle+halfAngle),
	}
	return left, right
}

// ClipToRect returns the point where the segment from inside (the center of r)
// towards outside leaves r. If outside lies within r, or r has no area, outside
// is returned unchanged.
func ClipToRect(r Rect, outside Point) Point {
	n := r.Normalize()
	if n.Empty() || n.Contains(outside) {
		return outside
	}
	c := n.Center()
	dx, dy := outside.X-c.X, outside.Y-c.Y
	if dx == 0 && dy == 0 {
		return outside
	}
	hw, hh := n.Width/2, n.Height/2
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, hw/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, hh/math.Abs(dy))
	}
	return Point{X: c.X + dx*t, Y: c.Y + dy*t}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
