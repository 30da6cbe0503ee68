// Package export writes graph documents to data and image formats.
package export

import (
	"fmt"
	"strings"

	"graphboard/graph"
)

// Format represents an export format
type Format string

const (
	// FormatJSON is the native document format
	FormatJSON Format = "json"
	// FormatYAML is the native document format as YAML
	FormatYAML Format = "yaml"
	// FormatSVG renders the board as an SVG image
	FormatSVG Format = "svg"
	// FormatPNG renders the board as a PNG image
	FormatPNG Format = "png"
	// FormatASCII renders the board as box-drawing text
	FormatASCII Format = "ascii"
	// FormatMermaid writes a Mermaid flowchart
	FormatMermaid Format = "mermaid"
	// FormatGraphviz writes a Graphviz DOT graph
	FormatGraphviz Format = "dot"
)

// Exporter writes a document in one format.
type Exporter interface {
	// Export converts a document to the target format
	Export(doc *graph.Document) ([]byte, error)
	// Extension returns the recommended file extension for this format
	Extension() string
	// Name returns a human-readable name for this format
	Name() string
}

// NewExporter creates an exporter for the specified format. opts only
// affects the image formats.
func NewExporter(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatSVG:
		return NewSVGExporter(opts), nil
	case FormatPNG:
		return NewPNGExporter(opts), nil
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatGraphviz, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// Formats returns every available export format
func Formats() []Format {
	return []Format{
		FormatJSON,
		FormatYAML,
		FormatSVG,
		FormatPNG,
		FormatASCII,
		FormatMermaid,
		FormatGraphviz,
	}
}

// Descriptions returns human-readable descriptions of all formats
func Descriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "Native document (JSON)",
		FormatYAML:     "Native document (YAML)",
		FormatSVG:      "SVG image",
		FormatPNG:      "PNG image",
		FormatASCII:    "Unicode box drawing",
		FormatMermaid:  "Mermaid flowchart (for Markdown)",
		FormatGraphviz: "Graphviz DOT graph",
	}
}
