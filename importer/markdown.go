package importer

import (
	"fmt"

	"graphboard/graph"
	"graphboard/markdown"
)

// MarkdownImporter imports a fenced mermaid or dot block from a markdown
// document through the other importers.
type MarkdownImporter struct {
	formats *Registry
	// Block selects the block, 0-based. Zero takes the first one.
	Block int
}

// NewMarkdownImporter creates a markdown importer delegating to formats.
func NewMarkdownImporter(formats *Registry) *MarkdownImporter {
	return &MarkdownImporter{formats: formats}
}

// CanImport reports whether content holds at least one graph block.
func (m *MarkdownImporter) CanImport(content string) bool {
	return len(markdown.Scan(content)) > 0
}

// Import converts the selected block.
func (m *MarkdownImporter) Import(content string) (*graph.Document, error) {
	blocks := markdown.Scan(content)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no mermaid or dot block found")
	}
	if m.Block < 0 || m.Block >= len(blocks) {
		return nil, fmt.Errorf("block %d out of range: document has %d graph blocks", m.Block+1, len(blocks))
	}
	b := blocks[m.Block]
	doc, err := m.formats.ImportWithFormat(b.Content, b.Format())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", markdown.Describe(b, m.Block), err)
	}
	return doc, nil
}

func (m *MarkdownImporter) Name() string {
	return "Markdown"
}

func (m *MarkdownImporter) Extensions() []string {
	return []string{".md", ".markdown"}
}
