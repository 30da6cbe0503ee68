package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"graphboard/graph"
)

// JSONImporter reads documents written by the JSON exporter.
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport checks for a JSON object with a nodes key.
func (j *JSONImporter) CanImport(content string) bool {
	content = strings.TrimSpace(content)
	return strings.HasPrefix(content, "{") && strings.Contains(content, `"nodes"`)
}

// Import decodes a JSON document.
func (j *JSONImporter) Import(content string) (*graph.Document, error) {
	var doc graph.Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Name returns the format name
func (j *JSONImporter) Name() string {
	return "JSON"
}

// Extensions returns common file extensions
func (j *JSONImporter) Extensions() []string {
	return []string{".json"}
}
