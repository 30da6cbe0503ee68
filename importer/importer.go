// Package importer reads graph documents from text formats.
package importer

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"graphboard/geometry"
	"graphboard/graph"
)

// Importer reads one document format.
type Importer interface {
	// CanImport checks if the given content looks like this format
	CanImport(content string) bool

	// Import converts the content into a document. Node ids are local to the
	// document; store.Import maps them to store ids.
	Import(content string) (*graph.Document, error)

	// Name returns the format name
	Name() string

	// Extensions returns common file extensions for this format
	Extensions() []string
}

// Registry manages the available importers.
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with every built-in importer, in detection
// order.
func NewRegistry() *Registry {
	r := &Registry{
		importers: []Importer{
			NewJSONImporter(),
			NewMermaidImporter(),
			NewGraphvizImporter(),
		},
	}
	r.Register(NewMarkdownImporter(r))
	r.Register(NewYAMLImporter())
	return r
}

// Register adds an importer to the registry
func (r *Registry) Register(imp Importer) {
	r.importers = append(r.importers, imp)
}

// Detect returns the first importer that accepts content.
func (r *Registry) Detect(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import imports content using auto-detection.
func (r *Registry) Import(content string) (*graph.Document, error) {
	imp, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}

// ImportWithFormat imports content with the named format.
func (r *Registry) ImportWithFormat(content, format string) (*graph.Document, error) {
	for _, imp := range r.importers {
		if strings.EqualFold(imp.Name(), format) {
			return imp.Import(content)
		}
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// ForFile returns the importer registered for the file's extension.
func (r *Registry) ForFile(path string) (Importer, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, imp := range r.importers {
		if slices.Contains(imp.Extensions(), ext) {
			return imp, true
		}
	}
	return nil, false
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.Name()
	}
	return formats
}

// Card grid used for formats that carry no positions.
const (
	GridColumns = 4
	GridGap     = 60
	GridMargin  = 40
)

// GridSlot returns the top-left corner of the i-th card on the import grid.
func GridSlot(i int) geometry.Point {
	col, row := i%GridColumns, i/GridColumns
	return geometry.Pt(
		GridMargin+float64(col)*(graph.EvidenceWidth+GridGap),
		GridMargin+float64(row)*(graph.EvidenceHeight+GridGap),
	)
}

// card returns an evidence card titled title in the i-th grid slot.
func card(id, title string, i int) graph.Node {
	d := graph.NewDraft(graph.KindEvidence, GridSlot(i))
	d.Title = title
	return d.Node(id)
}

// check validates every node and relation of an imported document.
func check(doc *graph.Document) error {
	seen := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %q has no id", n.Title)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if err := graph.DraftOf(n).Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, rel := range doc.Relations {
		if err := rel.Validate(); err != nil {
			return err
		}
	}
	return nil
}
