package export

import (
	"fmt"
	"strings"

	"graphboard/graph"
)

// MermaidExporter writes a Mermaid flowchart. Evidence types become node
// classes so the Mermaid importer restores them.
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the document to Mermaid syntax
func (e *MermaidExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("document has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	ids := make(map[string]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		id := fmt.Sprintf("N%d", i+1)
		ids[n.ID] = id
		sb.WriteString("    " + id + shape(n.Kind, label(n)))
		if n.Content.EvidenceType != "" {
			sb.WriteString(":::" + n.Content.EvidenceType)
		}
		sb.WriteByte('\n')
	}

	edges := graph.Edges(doc.Nodes, doc.Relations)
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		arrow := "-->"
		switch {
		case edge.Kind == graph.EdgeSpouse:
			arrow = "-.-"
		case !edge.Directed:
			arrow = "---"
		}
		if edge.Label != "" {
			fmt.Fprintf(&sb, "    %s %s|%s| %s\n", ids[edge.From], arrow, escapeMermaid(edge.Label), ids[edge.To])
		} else {
			fmt.Fprintf(&sb, "    %s %s %s\n", ids[edge.From], arrow, ids[edge.To])
		}
	}
	return []byte(sb.String()), nil
}

// label is the text shown for a node: its title, else its text, else its kind.
func label(n graph.Node) string {
	switch {
	case n.Title != "":
		return n.Title
	case n.Content.Text != "":
		return n.Content.Text
	default:
		return string(n.Kind)
	}
}

// shape wraps text in the Mermaid bracket pair that fits kind.
func shape(kind graph.Kind, text string) string {
	text = `"` + escapeMermaid(text) + `"`
	switch kind {
	case graph.KindEllipse:
		return "((" + text + "))"
	case graph.KindText:
		return ">" + text + "]"
	case graph.KindPerson:
		return "([" + text + "])"
	case graph.KindPath:
		return "{{" + text + "}}"
	default:
		return "[" + text + "]"
	}
}

func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "|", "#124;")
	return strings.ReplaceAll(s, "\n", " ")
}

// Extension returns the recommended file extension
func (e *MermaidExporter) Extension() string {
	return ".mmd"
}

// Name returns the format name
func (e *MermaidExporter) Name() string {
	return "Mermaid"
}
