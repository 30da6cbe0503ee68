package importer

import (
	"fmt"
	"regexp"
	"strings"

	"graphboard/graph"
)

var (
	dotEdge  = regexp.MustCompile(`^\s*"?([^"\[\-]+?)"?\s*(->|--)\s*"?([^"\[;]+?)"?\s*(?:\[([^\]]*)\])?;?$`)
	dotNode  = regexp.MustCompile(`^\s*"?([^"\[]+?)"?\s*\[([^\]]*)\];?$`)
	dotAttrs = regexp.MustCompile(`(\w+)\s*=\s*("([^"]*)"|([^,\s\]]+))`)
)

// GraphvizImporter reads Graphviz DOT graphs. Nodes become evidence cards on
// the import grid; edges become relations, directed in a digraph.
type GraphvizImporter struct{}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{}
}

// CanImport checks if the content is a DOT graph.
func (g *GraphvizImporter) CanImport(content string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	first = strings.TrimPrefix(strings.TrimSpace(first), "strict ")
	return (strings.HasPrefix(first, "digraph") || strings.HasPrefix(first, "graph")) &&
		strings.Contains(content, "{")
}

// Import converts DOT content into a document.
func (g *GraphvizImporter) Import(content string) (*graph.Document, error) {
	if !g.CanImport(content) {
		return nil, fmt.Errorf("not a Graphviz graph")
	}
	doc := &graph.Document{Metadata: graph.Metadata{Board: graph.KindEvidence}}
	index := make(map[string]int)
	subgraph := ""

	node := func(name string) *graph.Node {
		if i, ok := index[name]; ok {
			return &doc.Nodes[i]
		}
		n := card(name, name, len(doc.Nodes))
		if subgraph != "" {
			n.Tags = append(n.Tags, subgraph)
		}
		index[name] = len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, n)
		return &doc.Nodes[len(doc.Nodes)-1]
	}

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if i == 0 || line == "" || line == "{" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "rankdir") || strings.HasPrefix(line, "node ") ||
			strings.HasPrefix(line, "edge ") || strings.HasPrefix(line, "graph ") {
			continue
		}
		if strings.HasPrefix(line, "subgraph") {
			if parts := strings.Fields(line); len(parts) >= 2 {
				subgraph = strings.TrimPrefix(strings.Trim(parts[1], "{"), "cluster_")
			}
			continue
		}
		if line == "}" {
			subgraph = ""
			continue
		}

		if match := dotEdge.FindStringSubmatch(line); match != nil {
			from, to := strings.TrimSpace(match[1]), strings.TrimSpace(match[3])
			node(from)
			node(to)
			rel := graph.Relation{
				ID:       fmt.Sprintf("r%d", len(doc.Relations)+1),
				FromID:   from,
				ToID:     to,
				Directed: match[2] == "->",
			}
			attrs := parseDOTAttributes(match[4])
			rel.Label = attrs["label"]
			rel.Color = normalizeDOTColor(attrs["color"])
			if attrs["dir"] == "both" || attrs["dir"] == "none" {
				rel.Directed = false
			}
			doc.Relations = append(doc.Relations, rel)
			continue
		}

		if match := dotNode.FindStringSubmatch(line); match != nil {
			n := node(strings.TrimSpace(match[1]))
			attrs := parseDOTAttributes(match[2])
			if label := attrs["label"]; label != "" {
				title, desc, _ := strings.Cut(label, `\n`)
				n.Title = title
				if desc != "" {
					n.Content.Description = strings.ReplaceAll(desc, `\n`, " ")
				}
			}
			if tip := attrs["tooltip"]; tip != "" {
				n.Content.Description = tip
			}
			if c := normalizeDOTColor(attrs["fillcolor"]); c != "" {
				n.Content.Fill = c
			}
			if c := normalizeDOTColor(attrs["color"]); c != "" {
				n.Content.Stroke = c
			}
			if class := attrs["class"]; class != "" {
				n.Content.EvidenceType = class
			}
		}
	}

	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes found in Graphviz diagram")
	}
	if err := check(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseDOTAttributes parses `key=value, key="value"` lists.
func parseDOTAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, match := range dotAttrs.FindAllStringSubmatch(s, -1) {
		value := match[3]
		if value == "" {
			value = match[4]
		}
		attrs[match[1]] = value
	}
	return attrs
}

var dotColorNames = map[string]string{
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
}

// normalizeDOTColor turns DOT colour names and bare hex into #rrggbb.
func normalizeDOTColor(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return ""
	}
	if hex, ok := dotColorNames[c]; ok {
		return hex
	}
	if !strings.HasPrefix(c, "#") && len(c) == 6 {
		return "#" + c
	}
	return c
}

// Name returns the format name
func (g *GraphvizImporter) Name() string {
	return "Graphviz"
}

// Extensions returns common file extensions
func (g *GraphvizImporter) Extensions() []string {
	return []string{".dot", ".gv"}
}
