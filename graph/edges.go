package graph

// EdgeKind tells where an edge came from.
type EdgeKind int

const (
	EdgeExplicit    EdgeKind = iota // Stored Relation record
	EdgeParentChild                 // Content.Parents on a person
	EdgeSpouse                      // Content.Spouse on a person
)

// String returns the edge kind name.
func (k EdgeKind) String() string {
	switch k {
	case EdgeExplicit:
		return "explicit"
	case EdgeParentChild:
		return "parent"
	case EdgeSpouse:
		return "spouse"
	default:
		return "unknown"
	}
}

// Edge is the unified view over explicit relations and structural links.
type Edge struct {
	From     string
	To       string
	Label    string
	Color    string
	Kind     EdgeKind
	Directed bool
}

// Touches reports whether the edge references id at either end.
func (e Edge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// Edges merges explicit relations and the structural parent/spouse links
// stored on nodes. References to nodes not in nodes are dangling and skipped.
// Explicit relations come first, then structural edges in node order; a spouse
// pair is emitted once no matter which side records it.
func Edges(nodes []Node, relations []Relation) []Edge {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	edges := make([]Edge, 0, len(relations))
	for _, r := range relations {
		if !present[r.FromID] || !present[r.ToID] {
			continue
		}
		edges = append(edges, Edge{
			From:     r.FromID,
			To:       r.ToID,
			Label:    r.Label,
			Color:    r.Color,
			Kind:     EdgeExplicit,
			Directed: r.Directed,
		})
	}

	spouses := make(map[[2]string]bool)
	for _, n := range nodes {
		for _, parent := range n.Content.Parents {
			if !present[parent] || parent == n.ID {
				continue
			}
			edges = append(edges, Edge{From: parent, To: n.ID, Kind: EdgeParentChild, Directed: true})
		}
		if s := n.Content.Spouse; s != "" && s != n.ID && present[s] {
			key := [2]string{n.ID, s}
			if s < n.ID {
				key = [2]string{s, n.ID}
			}
			if spouses[key] {
				continue
			}
			spouses[key] = true
			edges = append(edges, Edge{From: n.ID, To: s, Kind: EdgeSpouse})
		}
	}
	return edges
}

// Degree counts the edges touching each node id.
func Degree(edges []Edge) map[string]int {
	deg := make(map[string]int)
	for _, e := range edges {
		deg[e.From]++
		if e.To != e.From {
			deg[e.To]++
		}
	}
	return deg
}
