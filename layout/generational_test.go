package layout

import (
	"testing"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func person(id string, parents ...string) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindPerson, Title: id, Content: graph.Content{Parents: parents}}
}

func TestGenerational_Tree(t *testing.T) {
	g := NewGenerational(DefaultConfig())
	people := []graph.Node{
		person("A"),
		person("B", "A"),
		person("C", "A"),
		person("D", "B"),
	}
	slots := g.Slots(people)

	if len(slots) != len(people) {
		t.Fatalf("expected %d placed people, got %d", len(people), len(slots))
	}
	if slots["B"].Generation != 1 || slots["C"].Generation != 1 {
		t.Errorf("children should be in generation 1: B=%+v C=%+v", slots["B"], slots["C"])
	}
	if slots["B"].Slot == slots["C"].Slot {
		t.Errorf("siblings share slot %d", slots["B"].Slot)
	}
	if slots["D"].Generation != 2 {
		t.Errorf("grandchild in generation %d, want 2", slots["D"].Generation)
	}

	pos := g.Layout(people)
	if want := geometry.Pt(100, 100); pos["A"] != want {
		t.Errorf("root at %v, want %v", pos["A"], want)
	}
	if want := geometry.Pt(300, 250); pos["C"] != want {
		t.Errorf("second child at %v, want %v", pos["C"], want)
	}
}

func TestGenerational_RootsUseFanOut(t *testing.T) {
	tests := []struct {
		name   string
		fanOut int
		want   int
	}{
		{"default", 0, 3},
		{"wide", 5, 5},
		{"one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FanOut = tt.fanOut
			slots := NewGenerational(cfg).Slots([]graph.Node{person("A"), person("B"), person("C")})
			for i, id := range []string{"A", "B", "C"} {
				if got := slots[id]; got.Generation != 0 || got.Slot != i*tt.want {
					t.Errorf("%s at %+v, want slot %d", id, got, i*tt.want)
				}
			}
		})
	}
}

func TestGenerational_FirstPlacementWins(t *testing.T) {
	g := NewGenerational(DefaultConfig())
	slots := g.Slots([]graph.Node{
		person("Mum"),
		person("Dad"),
		person("Kid", "Mum", "Dad"),
	})
	if got := slots["Kid"]; got != (Slot{Generation: 1, Slot: 0}) {
		t.Errorf("kid placed at %+v, want under the first parent", got)
	}
}

func TestGenerational_DanglingParentIsRoot(t *testing.T) {
	g := NewGenerational(DefaultConfig())
	slots := g.Slots([]graph.Node{person("A", "ghost"), person("B", "B")})
	if slots["A"].Generation != 0 || slots["B"].Generation != 0 {
		t.Errorf("unresolvable parents should make roots: %+v", slots)
	}
	if slots["A"].Slot == slots["B"].Slot {
		t.Error("roots share a slot")
	}
}

func TestGenerational_CyclesStillPlaced(t *testing.T) {
	g := NewGenerational(DefaultConfig())
	slots := g.Slots([]graph.Node{
		person("R"),
		person("X", "Y"),
		person("Y", "X"),
	})
	for _, id := range []string{"R", "X", "Y"} {
		if _, ok := slots[id]; !ok {
			t.Fatalf("%s not placed", id)
		}
	}
	if slots["X"] != (Slot{Generation: 0, Slot: 1}) {
		t.Errorf("X placed at %+v, want next free slot after R", slots["X"])
	}
	if slots["Y"] != (Slot{Generation: 1, Slot: 1}) {
		t.Errorf("Y placed at %+v, want under X", slots["Y"])
	}
}

func TestGenerational_SpouseIgnored(t *testing.T) {
	g := NewGenerational(DefaultConfig())
	a := person("A")
	b := person("B")
	b.Content.Spouse = "A"
	with := g.Slots([]graph.Node{a, b})
	b.Content.Spouse = ""
	without := g.Slots([]graph.Node{a, b})
	if with["B"] != without["B"] {
		t.Errorf("spouse changed placement: %+v vs %+v", with["B"], without["B"])
	}
}

func TestPlace(t *testing.T) {
	nodes := []graph.Node{
		person("A"),
		{ID: "r", Kind: graph.KindRect, Content: graph.Content{X: 7, Y: 8, Width: 1, Height: 1}},
	}
	placed := Place(nodes, map[string]geometry.Point{"A": geometry.Pt(100, 100), "r": geometry.Pt(0, 0)})
	if got := placed[0].Content.Bounds(); got != geometry.R(100, 100, graph.PersonWidth, graph.PersonHeight) {
		t.Errorf("person bounds %v", got)
	}
	if got := placed[1].Content.Bounds(); got != geometry.R(7, 8, 1, 1) {
		t.Errorf("stored position overwritten: %v", got)
	}
	if nodes[0].Content.X != 0 {
		t.Error("input modified")
	}
}

type countingEngine struct {
	calls int
	inner Engine
}

func (c *countingEngine) Layout(people []graph.Node) map[string]geometry.Point {
	c.calls++
	return c.inner.Layout(people)
}

func TestCached(t *testing.T) {
	engine := &countingEngine{inner: NewGenerational(DefaultConfig())}
	m := metrics.NewCollector("test")
	c := NewCached(engine, m)

	people := []graph.Node{person("A"), person("B", "A")}
	first := c.Layout(people)
	people[1].Title = "Bea"
	people[1].Content.X = 999
	second := c.Layout(people)

	if engine.calls != 1 {
		t.Errorf("non-structural change recomputed the layout (%d calls)", engine.calls)
	}
	if first["B"] != second["B"] {
		t.Errorf("cached position changed: %v vs %v", first["B"], second["B"])
	}

	people[1].Content.Parents = nil
	c.Layout(people)
	if engine.calls != 2 {
		t.Errorf("parent change did not invalidate (%d calls)", engine.calls)
	}

	c.Layout(append(people, person("C")))
	if engine.calls != 3 {
		t.Errorf("new person did not invalidate (%d calls)", engine.calls)
	}

	c.Invalidate()
	c.Layout(append(people, person("C")))
	if engine.calls != 4 {
		t.Errorf("Invalidate ignored (%d calls)", engine.calls)
	}

	if hits := testutil.ToFloat64(m.LayoutHits); hits != 1 {
		t.Errorf("layout hits = %v, want 1", hits)
	}
	if misses := testutil.ToFloat64(m.LayoutMisses); misses != 4 {
		t.Errorf("layout misses = %v, want 4", misses)
	}
}
