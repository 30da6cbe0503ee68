package export

import (
	"fmt"
	"strings"

	"graphboard/graph"
)

// GraphvizExporter writes a DOT digraph.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the document to Graphviz DOT syntax
func (e *GraphvizExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("document has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n\n")

	ids := make(map[string]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		id := fmt.Sprintf("N%d", i+1)
		ids[n.ID] = id
		attrs := []string{fmt.Sprintf(`label="%s"`, escapeDOT(label(n)))}
		attrs = append(attrs, nodeAttributes(n)...)
		fmt.Fprintf(&sb, "  %s [%s];\n", id, strings.Join(attrs, ", "))
	}

	edges := graph.Edges(doc.Nodes, doc.Relations)
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		var attrs []string
		if edge.Label != "" {
			attrs = append(attrs, fmt.Sprintf(`label="%s"`, escapeDOT(edge.Label)))
		}
		if edge.Color != "" {
			attrs = append(attrs, fmt.Sprintf(`color="%s"`, edge.Color))
		}
		if edge.Kind == graph.EdgeSpouse {
			attrs = append(attrs, "style=dashed")
		}
		if !edge.Directed {
			attrs = append(attrs, "dir=none")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "  %s -> %s [%s];\n", ids[edge.From], ids[edge.To], strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", ids[edge.From], ids[edge.To])
		}
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

// nodeAttributes maps kind and content colours to DOT attributes.
func nodeAttributes(n graph.Node) []string {
	var attrs []string
	switch n.Kind {
	case graph.KindEllipse:
		attrs = append(attrs, "shape=ellipse")
	case graph.KindText:
		attrs = append(attrs, "shape=plaintext")
	case graph.KindPath:
		attrs = append(attrs, "shape=point")
	case graph.KindPerson:
		attrs = append(attrs, `style="rounded"`)
	}
	if n.Content.Fill != "" && n.Kind != graph.KindPerson {
		attrs = append(attrs, fmt.Sprintf(`fillcolor="%s"`, n.Content.Fill), `style="filled"`)
	}
	if n.Content.EvidenceType != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, escapeDOT(n.Content.EvidenceType)))
	}
	if n.Content.Description != "" {
		attrs = append(attrs, fmt.Sprintf(`tooltip="%s"`, escapeDOT(n.Content.Description)))
	}
	return attrs
}

// escapeDOT escapes quotes and backslashes in labels
func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Extension returns the recommended file extension
func (e *GraphvizExporter) Extension() string {
	return ".dot"
}

// Name returns the format name
func (e *GraphvizExporter) Name() string {
	return "Graphviz"
}
