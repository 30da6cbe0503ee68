package svg

import (
	"encoding/xml"
	"strings"
	"testing"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/render"
	"graphboard/scene"
	"graphboard/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentIsWellFormed(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Kind: graph.KindEvidence, Title: `Tom & "Jerry" <cat>`, Content: graph.Content{X: 0, Y: 0, Width: 200, Height: 100, Fill: "#fff"}},
		{ID: "b", Kind: graph.KindEllipse, Content: graph.Content{X: 300, Y: 0, Width: 80, Height: 40, Stroke: "#000"}},
		{ID: "c", Kind: graph.KindPath, Content: graph.Content{Points: []geometry.Point{{X: 1, Y: 1}, {X: 5, Y: 9}}, Stroke: "#000"}},
	}
	sc := scene.New(nodes, graph.Edges(nodes, []graph.Relation{{FromID: "a", ToID: "b", Directed: true}}), "b")
	s := New(640, 480)
	render.New(render.Options{GridSpacing: render.CanvasGridSpacing}).Draw(s, sc, viewport.New())

	out := string(s.Bytes())
	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `<g transform="scale(1) translate(0 0)">`)
	assert.Contains(t, out, "<ellipse ")
	assert.Contains(t, out, "<polygon ", "arrowhead")
	assert.Contains(t, out, "<polyline ", "freehand path")
	assert.Contains(t, out, "Tom &amp; &#34;Jerry&#34; &lt;c")

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			require.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestDashedStroke(t *testing.T) {
	s := New(10, 10)
	s.Line(geometry.Pt(0, 0), geometry.Pt(5, 5), render.Style{Stroke: "#000", StrokeWidth: 2, Dashed: true})
	assert.Contains(t, string(s.Bytes()), `stroke-dasharray="12 8"`)
}
