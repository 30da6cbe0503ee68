package viewport

import (
	"testing"

	"graphboard/geometry"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	points := []geometry.Point{{X: 0, Y: 0}, {X: 13.5, Y: -7.25}, {X: 1000, Y: 420}}
	pans := []geometry.Point{{X: 0, Y: 0}, {X: 120, Y: -40}, {X: -3.3, Y: 8.8}}

	for z := 0.1; z <= 3.0; z += 0.15 {
		for _, pan := range pans {
			v := New()
			v.SetZoom(z)
			v.SetPan(pan)
			for _, p := range points {
				got := v.ToWorld(v.ToScreen(p))
				assert.True(t, got.Near(p, 1e-9), "zoom %.2f pan %v: %v != %v", z, pan, got, p)
			}
		}
	}
}

func TestTransformFormula(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.SetPan(geometry.Pt(10, 5))

	assert.Equal(t, geometry.Pt(30, 20), v.ToScreen(geometry.Pt(5, 5)))
	assert.Equal(t, geometry.Pt(5, 5), v.ToWorld(geometry.Pt(30, 20)))
}

func TestZoomClamp(t *testing.T) {
	v := New()

	v.SetZoom(0.01)
	assert.Equal(t, 0.1, v.Zoom())
	v.SetZoom(0.01)
	assert.Equal(t, 0.1, v.Zoom())

	v.SetZoom(42)
	assert.Equal(t, 3.0, v.Zoom())
	v.ZoomBy(1)
	assert.Equal(t, 3.0, v.Zoom())

	v.ZoomBy(-10)
	assert.Equal(t, 0.1, v.Zoom())
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := New()
	v.SetPan(geometry.Pt(20, 30))
	anchor := geometry.Pt(200, 150)
	before := v.ToWorld(anchor)

	v.ZoomAt(1.5, anchor)

	assert.InDelta(t, 1.5, v.Zoom(), 1e-12)
	assert.True(t, v.ToWorld(anchor).Near(before, 1e-9))
}

func TestPanBy(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.PanBy(geometry.Pt(40, -20))
	assert.Equal(t, geometry.Pt(20, -10), v.Pan())
}

func TestReset(t *testing.T) {
	v := New()
	v.SetPan(geometry.Pt(120, -40))
	v.SetZoom(2.3)

	v.Reset()

	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, geometry.Point{}, v.Pan())
}

func TestVisible(t *testing.T) {
	v := New()
	v.SetZoom(2)
	v.SetPan(geometry.Pt(-50, 0))
	assert.Equal(t, geometry.R(50, 0, 400, 300), v.Visible(800, 600))
}

func TestInvalidLimitsFallBack(t *testing.T) {
	lo, hi := NewWithLimits(0, -1).Limits()
	assert.Equal(t, DefaultMinZoom, lo)
	assert.Equal(t, DefaultMaxZoom, hi)
}
