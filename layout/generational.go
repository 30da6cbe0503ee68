package layout

import (
	"graphboard/geometry"
	"graphboard/graph"
)

// Config holds the spacing of the generational layout.
type Config struct {
	HorizontalSpacing float64 `koanf:"horizontal_spacing"`
	VerticalSpacing   float64 `koanf:"vertical_spacing"`
	MarginX           float64 `koanf:"margin_x"`
	MarginY           float64 `koanf:"margin_y"`
	// FanOut is the number of slots reserved per root for its children.
	FanOut int `koanf:"fan_out"`
}

// DefaultConfig returns the standard family tree spacing.
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing: 200,
		VerticalSpacing:   150,
		MarginX:           100,
		MarginY:           100,
		FanOut:            3,
	}
}

// Slot is a cell of the generation grid.
type Slot struct {
	Generation int
	Slot       int
}

// Generational lays people out top-down: roots in generation 0, each child
// one generation below its first-placed parent, siblings in adjacent slots.
//
// A person reachable through more than one parent is placed once, at the
// first position the depth-first walk reaches. Two branches may therefore
// claim overlapping slots; that is accepted rather than resolved here.
type Generational struct {
	cfg Config
}

// NewGenerational creates a layout with cfg. A non-positive FanOut is
// replaced by the default.
func NewGenerational(cfg Config) *Generational {
	if cfg.FanOut <= 0 {
		cfg.FanOut = DefaultConfig().FanOut
	}
	return &Generational{cfg: cfg}
}

// Config returns the layout configuration.
func (g *Generational) Config() Config { return g.cfg }

// Slots assigns a generation and slot to every person. Parent references to
// ids not in people are ignored. People left unplaced because their
// ancestry loops back on itself become extra roots to the right of
// everything placed so far.
func (g *Generational) Slots(people []graph.Node) map[string]Slot {
	present := make(map[string]bool, len(people))
	for _, p := range people {
		present[p.ID] = true
	}

	children := make(map[string][]string)
	var roots []string
	for _, p := range people {
		resolvable := false
		for _, parent := range p.Content.Parents {
			if parent == p.ID || !present[parent] {
				continue
			}
			resolvable = true
			children[parent] = append(children[parent], p.ID)
		}
		if !resolvable {
			roots = append(roots, p.ID)
		}
	}

	slots := make(map[string]Slot, len(people))
	maxSlot := -1
	var place func(id string, gen, slot int)
	place = func(id string, gen, slot int) {
		if _, done := slots[id]; done {
			return
		}
		slots[id] = Slot{Generation: gen, Slot: slot}
		maxSlot = max(maxSlot, slot)
		for j, child := range children[id] {
			place(child, gen+1, slot+j)
		}
	}

	for i, id := range roots {
		place(id, 0, i*g.cfg.FanOut)
	}
	for _, p := range people {
		if _, done := slots[p.ID]; !done {
			place(p.ID, 0, maxSlot+1)
		}
	}
	return slots
}

// Position converts a slot to the top-left corner of the card.
func (g *Generational) Position(s Slot) geometry.Point {
	return geometry.Pt(
		float64(s.Slot)*g.cfg.HorizontalSpacing+g.cfg.MarginX,
		float64(s.Generation)*g.cfg.VerticalSpacing+g.cfg.MarginY,
	)
}

// Layout returns the position of every person.
func (g *Generational) Layout(people []graph.Node) map[string]geometry.Point {
	slots := g.Slots(people)
	pos := make(map[string]geometry.Point, len(slots))
	for id, s := range slots {
		pos[id] = g.Position(s)
	}
	return pos
}
