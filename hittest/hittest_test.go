package hittest

import (
	"testing"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/scene"

	"github.com/stretchr/testify/assert"
)

func rect(id string, x, y, w, h float64) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindRect, Content: graph.Content{X: x, Y: y, Width: w, Height: h}}
}

func TestTopmostWins(t *testing.T) {
	sc := scene.New([]graph.Node{
		rect("bottom", 0, 0, 100, 100),
		rect("top", 50, 50, 100, 100),
	}, nil, "")

	id, ok := Test(sc, geometry.Pt(75, 75))
	assert.True(t, ok)
	assert.Equal(t, "top", id)

	id, ok = Test(sc, geometry.Pt(10, 10))
	assert.True(t, ok)
	assert.Equal(t, "bottom", id)

	_, ok = Test(sc, geometry.Pt(500, 500))
	assert.False(t, ok)
}

func TestInclusiveEdges(t *testing.T) {
	sc := scene.New([]graph.Node{rect("a", 10, 10, 20, 20)}, nil, "")
	for _, p := range []geometry.Point{{X: 10, Y: 10}, {X: 30, Y: 30}, {X: 30, Y: 10}, {X: 20, Y: 30}} {
		_, ok := Test(sc, p)
		assert.True(t, ok, "%v", p)
	}
	_, ok := Test(sc, geometry.Pt(30.01, 20))
	assert.False(t, ok)
}

func TestZeroSizeNeverMatches(t *testing.T) {
	sc := scene.New([]graph.Node{
		rect("zero", 10, 10, 0, 0),
		rect("flat", 0, 0, 50, 0),
	}, nil, "")
	_, ok := Test(sc, geometry.Pt(10, 10))
	assert.False(t, ok)
	_, ok = Test(sc, geometry.Pt(20, 0))
	assert.False(t, ok)
}

func TestNegativeSizeIsNormalised(t *testing.T) {
	sc := scene.New([]graph.Node{rect("neg", 50, 50, -40, -40)}, nil, "")
	id, ok := Test(sc, geometry.Pt(20, 20))
	assert.True(t, ok)
	assert.Equal(t, "neg", id)
}

func TestFreehandUsesPointBounds(t *testing.T) {
	path := graph.Node{ID: "p", Kind: graph.KindPath, Content: graph.Content{
		Points: []geometry.Point{{X: 0, Y: 0}, {X: 40, Y: 10}, {X: 20, Y: 30}},
	}}
	sc := scene.New([]graph.Node{path}, nil, "")
	id, ok := Test(sc, geometry.Pt(35, 25))
	assert.True(t, ok)
	assert.Equal(t, "p", id)
}

func TestHandleAt(t *testing.T) {
	sc := scene.New([]graph.Node{rect("a", 0, 0, 100, 50)}, nil, "a")

	c, ok := HandleAt(sc, geometry.Pt(101, 51))
	assert.True(t, ok)
	assert.Equal(t, BottomRight, c)
	assert.Equal(t, TopLeft, c.Opposite())

	c, ok = HandleAt(sc, geometry.Pt(-2, 2))
	assert.True(t, ok)
	assert.Equal(t, TopLeft, c)

	_, ok = HandleAt(sc, geometry.Pt(50, 25))
	assert.False(t, ok)

	_, ok = HandleAt(scene.New(sc.Nodes, nil, ""), geometry.Pt(0, 0))
	assert.False(t, ok, "no handles without a selection")
}
