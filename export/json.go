package export

import (
	"encoding/json"
	"fmt"

	"graphboard/graph"

	"gopkg.in/yaml.v3"
)

// JSONExporter writes the native JSON document.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a document to indented JSON
func (e *JSONExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON
func (e *JSONExporter) Extension() string {
	return ".json"
}

// Name returns the format name
func (e *JSONExporter) Name() string {
	return "JSON"
}

// YAMLExporter writes the native document as YAML.
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export converts a document to YAML
func (e *YAMLExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	return yaml.Marshal(doc)
}

// Extension returns the file extension for YAML
func (e *YAMLExporter) Extension() string {
	return ".yaml"
}

// Name returns the format name
func (e *YAMLExporter) Name() string {
	return "YAML"
}
