package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"graphboard/canvas"
	"graphboard/export"
	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/importer"
)

func caseBoard() *graph.Document {
	letter := graph.NewDraft(graph.KindEvidence, geometry.Pt(0, 0))
	letter.Title = "Letter"
	letter.Content.EvidenceType = "document"
	letter.Content.Description = "found in the desk"
	safe := graph.NewDraft(graph.KindEvidence, geometry.Pt(300, 0))
	safe.Title = `The "safe"`
	return &graph.Document{
		Nodes: []graph.Node{letter.Node("a"), safe.Node("b")},
		Relations: []graph.Relation{
			{ID: "r1", FromID: "a", ToID: "b", Label: "opens", Directed: true},
		},
		Metadata: graph.Metadata{Name: "case", Board: graph.KindEvidence},
	}
}

func familyTree() *graph.Document {
	ann := graph.Draft{Kind: graph.KindPerson, Title: "Ann", Content: graph.Defaults(graph.KindPerson)}
	bob := graph.Draft{Kind: graph.KindPerson, Title: "Bob", Content: graph.Defaults(graph.KindPerson)}
	bob.Content.Spouse = "ann"
	cid := graph.Draft{Kind: graph.KindPerson, Title: "Cid", Content: graph.Defaults(graph.KindPerson)}
	cid.Content.Parents = []string{"ann", "bob"}
	return &graph.Document{Nodes: []graph.Node{ann.Node("ann"), bob.Node("bob"), cid.Node("cid")}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"json", export.FormatJSON, false},
		{"yml", export.FormatYAML, false},
		{"SVG", export.FormatSVG, false},
		{"png", export.FormatPNG, false},
		{"txt", export.FormatASCII, false},
		{"mmd", export.FormatMermaid, false},
		{"graphviz", export.FormatGraphviz, false},
		{"plantuml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEveryFormatExports(t *testing.T) {
	for _, format := range export.Formats() {
		t.Run(string(format), func(t *testing.T) {
			exporter, err := export.NewExporter(format, export.DefaultOptions())
			if err != nil {
				t.Fatalf("NewExporter(%v): %v", format, err)
			}
			out, err := exporter.Export(caseBoard())
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
			if _, err := exporter.Export(nil); err == nil {
				t.Errorf("%s exporter should reject a nil document", exporter.Name())
			}
			if _, ok := export.Descriptions()[format]; !ok {
				t.Errorf("no description for %s", format)
			}
		})
	}

	if _, err := export.NewExporter("invalid", export.DefaultOptions()); err == nil {
		t.Error("NewExporter with invalid format should return error")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := export.NewJSONExporter().Export(caseBoard())
	if err != nil {
		t.Fatal(err)
	}
	var doc graph.Document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Content.EvidenceType != "document" {
		t.Errorf("decoded %+v", doc.Nodes)
	}

	back, err := importer.NewRegistry().Import(string(out))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if back.Metadata.Name != "case" || len(back.Relations) != 1 {
		t.Errorf("re-imported %+v", back)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := export.NewYAMLExporter().Export(caseBoard())
	if err != nil {
		t.Fatal(err)
	}
	back, err := importer.NewRegistry().Import(string(out))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if back.Nodes[1].Title != `The "safe"` {
		t.Errorf("title = %q", back.Nodes[1].Title)
	}
}

func TestMermaidExporter(t *testing.T) {
	out, err := export.NewMermaidExporter().Export(caseBoard())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	expectedParts := []string{
		"flowchart LR",
		`N1["Letter"]:::document`,
		`N2["The #quot;safe#quot;"]`,
		"N1 -->|opens| N2",
	}
	for _, part := range expectedParts {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain %q, but it didn't.\nGot:\n%s", part, result)
		}
	}

	back, err := importer.NewMermaidImporter().Import(result)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if back.Nodes[1].Title != `The "safe"` || back.Nodes[0].Content.EvidenceType != "document" {
		t.Errorf("re-imported nodes %+v", back.Nodes)
	}
	if len(back.Relations) != 1 || back.Relations[0].Label != "opens" {
		t.Errorf("re-imported relations %+v", back.Relations)
	}
}

func TestMermaidFamilyEdges(t *testing.T) {
	out, err := export.NewMermaidExporter().Export(familyTree())
	if err != nil {
		t.Fatal(err)
	}
	result := string(out)
	for _, part := range []string{`N1(["Ann"])`, "N1 --> N3", "N2 --> N3", "N2 -.- N1"} {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain %q.\nGot:\n%s", part, result)
		}
	}
}

func TestGraphvizExporter(t *testing.T) {
	out, err := export.NewGraphvizExporter().Export(caseBoard())
	if err != nil {
		t.Fatal(err)
	}
	result := string(out)
	for _, part := range []string{
		"digraph G {",
		`N1 [label="Letter"`,
		`class="document"`,
		`tooltip="found in the desk"`,
		`label="The \"safe\""`,
		`N1 -> N2 [label="opens"];`,
	} {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain %q.\nGot:\n%s", part, result)
		}
	}

	back, err := importer.NewGraphvizImporter().Import(result)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(back.Nodes) != 2 || len(back.Relations) != 1 {
		t.Errorf("re-imported %d nodes, %d relations", len(back.Nodes), len(back.Relations))
	}
}

func TestFrameFitsBoard(t *testing.T) {
	f := export.NewFrame(caseBoard(), export.DefaultOptions())
	// Cards span x 0..500 and y 0..100, plus a 40 margin on each side.
	if f.Width != 580 || f.Height != 180 {
		t.Errorf("frame = %gx%g, want 580x180", f.Width, f.Height)
	}
	if got := f.View.ToScreen(geometry.Pt(0, 0)); got != geometry.Pt(40, 40) {
		t.Errorf("origin maps to %v", got)
	}
}

func TestFramePlacesPeople(t *testing.T) {
	f := export.NewFrame(familyTree(), export.DefaultOptions())
	box, ok := f.Scene.Bounds("cid")
	if !ok {
		t.Fatal("cid missing")
	}
	// Ann and Bob are roots in slots 0 and 3; Cid is placed under Ann.
	if box.Y != 250 || box.X != 100 {
		t.Errorf("cid at %v", box)
	}
}

func TestImageFormats(t *testing.T) {
	opts := export.DefaultOptions()

	svg, err := export.NewSVGExporter(opts).Export(caseBoard())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Letter")) {
		t.Errorf("unexpected svg:\n%s", svg)
	}

	png, err := export.NewPNGExporter(opts).Export(caseBoard())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png output lacks PNG signature")
	}

	empty, err := export.NewPNGExporter(opts).Export(&graph.Document{})
	if err != nil || len(empty) == 0 {
		t.Errorf("empty board: %v", err)
	}
}

func TestASCIIExporter(t *testing.T) {
	out, err := export.NewASCIIExporter(export.DefaultOptions()).Export(caseBoard())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)
	if !strings.Contains(result, "Letter") {
		t.Errorf("Expected result to contain Letter.\nGot:\n%s", result)
	}
	if !strings.ContainsAny(result, "┌┐└┘") {
		t.Errorf("Expected box corners.\nGot:\n%s", result)
	}

	opts := export.DefaultOptions()
	opts.Charset = canvas.ASCII
	out, err = export.NewASCIIExporter(opts).Export(caseBoard())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result = string(out)
	if strings.ContainsAny(result, "┌┐└┘─│") {
		t.Errorf("ascii charset kept box drawing:\n%s", result)
	}
	if !strings.Contains(result, "+") || !strings.Contains(result, "Letter") {
		t.Errorf("ascii charset output:\n%s", result)
	}
}

func TestExporterFileExtensions(t *testing.T) {
	tests := []struct {
		format export.Format
		ext    string
	}{
		{export.FormatJSON, ".json"},
		{export.FormatYAML, ".yaml"},
		{export.FormatSVG, ".svg"},
		{export.FormatPNG, ".png"},
		{export.FormatASCII, ".txt"},
		{export.FormatMermaid, ".mmd"},
		{export.FormatGraphviz, ".dot"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			exporter, err := export.NewExporter(tt.format, export.DefaultOptions())
			if err != nil {
				t.Fatalf("Failed to create exporter: %v", err)
			}
			if got := exporter.Extension(); got != tt.ext {
				t.Errorf("Extension() = %v, want %v", got, tt.ext)
			}
		})
	}
}
