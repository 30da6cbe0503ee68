package importer

import (
	"fmt"
	"regexp"
	"strings"

	"graphboard/graph"
)

// Colour given to dotted Mermaid links.
const dottedColor = "#9aa0a6"

var (
	// ID followed by one of the flowchart shapes and an optional :::class.
	mermaidNode = regexp.MustCompile(`([A-Za-z0-9_]+)(\(\([^)]*\)\)|\[\[[^\]]*\]\]|\[\([^)]*\)\]|\(\[[^\]]*\]\)|\{\{[^}]*\}\}|\[[^\]]*\]|\([^)]*\)|\{[^}]*\}|>[^\]]*\])(?::::([A-Za-z0-9_-]+))?`)
	// Bare ID with a :::class suffix.
	mermaidClassSuffix = regexp.MustCompile(`([A-Za-z0-9_]+):::([A-Za-z0-9_-]+)`)
	// One link of a chain: from, arrow, optional |label|, to.
	mermaidLink = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*(<-->|-\.->|-\.-|==>|===|-->|---|--o|--x)\s*(?:\|([^|]*)\|)?\s*([A-Za-z0-9_]+)`)
	mermaidClass    = regexp.MustCompile(`^class\s+([A-Za-z0-9_,\s]+?)\s+([A-Za-z0-9_-]+)$`)
	mermaidSubgraph = regexp.MustCompile(`^subgraph\s+([A-Za-z0-9_]+)`)
)

var mermaidEntities = strings.NewReplacer("#quot;", `"`, "#124;", "|")

// MermaidImporter reads Mermaid flowcharts. Every node becomes an evidence
// card on the import grid and every link becomes a relation. A node's class
// (`A[Letter]:::document` or `class A document`) sets its evidence type and
// subgraph membership becomes a tag.
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid flowchart.
func (m *MermaidImporter) CanImport(content string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	first = strings.TrimSpace(first)
	if strings.Contains(first, "{") {
		return false
	}
	return strings.HasPrefix(first, "graph") || strings.HasPrefix(first, "flowchart")
}

// mermaidBuilder accumulates the document while lines are parsed.
type mermaidBuilder struct {
	doc      *graph.Document
	index    map[string]int
	subgraph string
}

func (b *mermaidBuilder) node(id string) *graph.Node {
	if i, ok := b.index[id]; ok {
		return &b.doc.Nodes[i]
	}
	n := card(id, id, len(b.doc.Nodes))
	if b.subgraph != "" {
		n.Tags = append(n.Tags, b.subgraph)
	}
	b.index[id] = len(b.doc.Nodes)
	b.doc.Nodes = append(b.doc.Nodes, n)
	return &b.doc.Nodes[len(b.doc.Nodes)-1]
}

// Import converts a Mermaid flowchart into a document.
func (m *MermaidImporter) Import(content string) (*graph.Document, error) {
	if !m.CanImport(content) {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}
	b := &mermaidBuilder{
		doc:   &graph.Document{Metadata: graph.Metadata{Board: graph.KindEvidence}},
		index: make(map[string]int),
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	for _, line := range lines[1:] {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "classDef ") || strings.HasPrefix(line, "style ") ||
			strings.HasPrefix(line, "linkStyle ") || strings.HasPrefix(line, "direction "):
			continue
		case line == "end":
			b.subgraph = ""
			continue
		}
		if match := mermaidSubgraph.FindStringSubmatch(line); match != nil {
			b.subgraph = match[1]
			continue
		}
		if match := mermaidClass.FindStringSubmatch(line); match != nil {
			for _, id := range strings.Split(match[1], ",") {
				if id = strings.TrimSpace(id); id != "" {
					b.node(id).Content.EvidenceType = match[2]
				}
			}
			continue
		}
		b.statement(line)
	}

	if len(b.doc.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes found in Mermaid diagram")
	}
	if err := check(b.doc); err != nil {
		return nil, err
	}
	return b.doc, nil
}

// statement registers the node declarations on a line and then its links.
func (b *mermaidBuilder) statement(line string) {
	line = mermaidNode.ReplaceAllStringFunc(line, func(decl string) string {
		match := mermaidNode.FindStringSubmatch(decl)
		n := b.node(match[1])
		text := strings.Trim(match[2], "[](){}>")
		if text = strings.Trim(strings.TrimSpace(text), `"`); text != "" {
			n.Title = mermaidEntities.Replace(text)
		}
		if match[3] != "" {
			n.Content.EvidenceType = match[3]
		}
		return match[1]
	})
	line = mermaidClassSuffix.ReplaceAllStringFunc(line, func(decl string) string {
		match := mermaidClassSuffix.FindStringSubmatch(decl)
		b.node(match[1]).Content.EvidenceType = match[2]
		return match[1]
	})

	rest := line
	linked := false
	for {
		loc := mermaidLink.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		from := rest[loc[2]:loc[3]]
		arrow := rest[loc[4]:loc[5]]
		label := ""
		if loc[6] >= 0 {
			label = strings.TrimSpace(rest[loc[6]:loc[7]])
		}
		to := rest[loc[8]:loc[9]]
		b.link(from, to, arrow, label)
		linked = true
		// Continue the chain from the target node.
		rest = rest[loc[8]:]
	}
	if !linked {
		for _, id := range strings.FieldsFunc(line, func(r rune) bool { return r == '&' || r == ' ' }) {
			if isMermaidID(id) {
				b.node(id)
			}
		}
	}
}

func (b *mermaidBuilder) link(from, to, arrow, label string) {
	b.node(from)
	b.node(to)
	rel := graph.Relation{
		ID:       fmt.Sprintf("r%d", len(b.doc.Relations)+1),
		FromID:   from,
		ToID:     to,
		Label:    label,
		Directed: true,
	}
	switch arrow {
	case "---", "===", "-.-", "<-->":
		rel.Directed = false
	}
	if strings.HasPrefix(arrow, "-.") {
		rel.Color = dottedColor
	}
	b.doc.Relations = append(b.doc.Relations, rel)
}

func isMermaidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Name returns the format name
func (m *MermaidImporter) Name() string {
	return "Mermaid"
}

// Extensions returns common file extensions
func (m *MermaidImporter) Extensions() []string {
	return []string{".mmd", ".mermaid"}
}
