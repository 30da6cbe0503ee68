package export

import (
	"bytes"
	"fmt"
	"math"

	"graphboard/canvas"
	"graphboard/graph"
	"graphboard/render/raster"
	"graphboard/render/svg"
)

// SVGExporter renders the board into an SVG document.
type SVGExporter struct {
	opts Options
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter(opts Options) *SVGExporter {
	return &SVGExporter{opts: opts}
}

// Export renders the document as SVG
func (e *SVGExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	f := NewFrame(doc, e.opts)
	s := svg.New(f.Width, f.Height)
	f.Draw(s, e.opts)
	return s.Bytes(), nil
}

// Extension returns the file extension for SVG
func (e *SVGExporter) Extension() string {
	return ".svg"
}

// Name returns the format name
func (e *SVGExporter) Name() string {
	return "SVG"
}

// PNGExporter rasterises the board.
type PNGExporter struct {
	opts Options
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter(opts Options) *PNGExporter {
	return &PNGExporter{opts: opts}
}

// Export renders the document as PNG
func (e *PNGExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	f := NewFrame(doc, e.opts)
	s, err := raster.New(int(f.Width), int(f.Height))
	if err != nil {
		return nil, err
	}
	f.Draw(s, e.opts)
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PNG
func (e *PNGExporter) Extension() string {
	return ".png"
}

// Name returns the format name
func (e *PNGExporter) Name() string {
	return "PNG"
}

// ASCIIExporter renders the board onto a character grid.
type ASCIIExporter struct {
	opts Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(opts Options) *ASCIIExporter {
	opts.GridSpacing = 0
	return &ASCIIExporter{opts: opts}
}

// Export renders the document as box drawing in the configured charset
func (e *ASCIIExporter) Export(doc *graph.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	f := NewFrame(doc, e.opts)
	cols := int(math.Ceil(f.Width / canvas.DefaultCellWidth))
	rows := int(math.Ceil(f.Height / canvas.DefaultCellHeight))
	s, err := canvas.NewSurface(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render diagram: %w", err)
	}
	f.Draw(s, e.opts)
	return []byte(s.Grid.Text(e.opts.Charset) + "\n"), nil
}

// Extension returns the recommended file extension
func (e *ASCIIExporter) Extension() string {
	return ".txt"
}

// Name returns the format name
func (e *ASCIIExporter) Name() string {
	return "ASCII/Unicode Art"
}
