package importer

import (
	"fmt"
	"regexp"

	"graphboard/graph"

	"gopkg.in/yaml.v3"
)

var yamlNodesKey = regexp.MustCompile(`(?m)^nodes:`)

// YAMLImporter reads documents written by the YAML exporter.
type YAMLImporter struct{}

// NewYAMLImporter creates a new YAML importer
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport checks for a top-level nodes key.
func (y *YAMLImporter) CanImport(content string) bool {
	return yamlNodesKey.MatchString(content)
}

// Import decodes a YAML document.
func (y *YAMLImporter) Import(content string) (*graph.Document, error) {
	var doc graph.Document
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Name returns the format name
func (y *YAMLImporter) Name() string {
	return "YAML"
}

// Extensions returns common file extensions
func (y *YAMLImporter) Extensions() []string {
	return []string{".yaml", ".yml"}
}
