// Package viewport maintains the zoom factor and pan offset of a board and
// converts between screen and world coordinates.
package viewport

import (
	"graphboard/geometry"
)

// Zoom limits
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 3.0
)

// View is the ViewState of one engine instance. It is never persisted.
type View struct {
	zoom    float64
	pan     geometry.Point
	minZoom float64
	maxZoom float64
}

// New creates a view at zoom 1 with no pan.
func New() *View {
	return NewWithLimits(DefaultMinZoom, DefaultMaxZoom)
}

// NewWithLimits creates a view with custom zoom limits. Invalid limits fall
// back to the defaults.
func NewWithLimits(minZoom, maxZoom float64) *View {
	if minZoom <= 0 || maxZoom < minZoom {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	return &View{zoom: 1, minZoom: minZoom, maxZoom: maxZoom}
}

// Zoom returns the current zoom factor.
func (v *View) Zoom() float64 {
	return v.zoom
}

// Pan returns the current pan offset in world units.
func (v *View) Pan() geometry.Point {
	return v.pan
}

// Limits returns the zoom bounds.
func (v *View) Limits() (minZoom, maxZoom float64) {
	return v.minZoom, v.maxZoom
}

// ToWorld converts a screen point to world coordinates.
func (v *View) ToWorld(screen geometry.Point) geometry.Point {
	return screen.Div(v.zoom).Sub(v.pan)
}

// ToScreen converts a world point to screen coordinates.
func (v *View) ToScreen(world geometry.Point) geometry.Point {
	return world.Add(v.pan).Scale(v.zoom)
}

// SetZoom sets the zoom factor, clamped to the view's limits.
func (v *View) SetZoom(zoom float64) {
	v.zoom = geometry.Clamp(zoom, v.minZoom, v.maxZoom)
}

// ZoomBy adds delta to the zoom factor, clamped to the view's limits.
func (v *View) ZoomBy(delta float64) {
	v.SetZoom(v.zoom + delta)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen point anchor fixed.
func (v *View) ZoomAt(factor float64, anchor geometry.Point) {
	if factor <= 0 {
		return
	}
	before := v.ToWorld(anchor)
	v.SetZoom(v.zoom * factor)
	after := v.ToWorld(anchor)
	v.pan = v.pan.Add(after.Sub(before))
}

// SetPan sets the pan offset in world units.
func (v *View) SetPan(p geometry.Point) {
	v.pan = p
}

// PanBy shifts the pan by a screen-space delta.
func (v *View) PanBy(screenDelta geometry.Point) {
	v.pan = v.pan.Add(screenDelta.Div(v.zoom))
}

// Reset restores zoom=1 and pan=(0,0).
func (v *View) Reset() {
	v.zoom = 1
	v.pan = geometry.Point{}
}

// Visible returns the world-space rectangle covered by a surface of the
// given screen size.
func (v *View) Visible(width, height float64) geometry.Rect {
	return geometry.RectFromPoints(v.ToWorld(geometry.Point{}), v.ToWorld(geometry.Pt(width, height)))
}

// State is a snapshot of the view.
type State struct {
	Zoom float64
	Pan  geometry.Point
}

// State returns a snapshot of the view.
func (v *View) State() State {
	return State{Zoom: v.zoom, Pan: v.pan}
}
