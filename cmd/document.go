package cmd

import (
	"fmt"
	"io"
	"os"

	"graphboard/graph"
	"graphboard/importer"
)

// readDocument imports path ("-" is stdin). An explicit format wins, then the
// file extension, then content detection.
func readDocument(path, format string, block int, stdin io.Reader) (*graph.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	reg := importer.NewRegistry()
	md := importer.NewMarkdownImporter(reg)
	md.Block = block

	var imp importer.Importer
	switch {
	case format == "markdown" || format == "md":
		imp = md
	case format != "":
		return reg.ImportWithFormat(content, format)
	default:
		var ok bool
		if imp, ok = reg.ForFile(path); !ok {
			if imp, err = reg.Detect(content); err != nil {
				return nil, err
			}
		}
	}
	if imp.Name() == md.Name() {
		imp = md
	}
	return imp.Import(content)
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
