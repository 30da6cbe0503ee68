package importer_test

import (
	"context"
	"testing"

	"graphboard/graph"
	"graphboard/importer"
	"graphboard/store"
)

const evidenceFlow = `flowchart LR
    %% case board
    A[Signed letter]:::document --> |mentions| B(Warehouse)
    B -.-> C((Night guard))
    C --- D
    class B,C location
    subgraph alibi
        D[Receipt]
    end
`

func TestMermaidFlowchart(t *testing.T) {
	doc, err := importer.NewMermaidImporter().Import(evidenceFlow)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if len(doc.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(doc.Nodes))
	}
	want := []struct {
		id, title, evidenceType string
	}{
		{"A", "Signed letter", "document"},
		{"B", "Warehouse", "location"},
		{"C", "Night guard", "location"},
		{"D", "Receipt", ""},
	}
	for i, w := range want {
		n := doc.Nodes[i]
		if n.ID != w.id || n.Title != w.title || n.Content.EvidenceType != w.evidenceType {
			t.Errorf("node %d = {%s %q %q}, want {%s %q %q}", i, n.ID, n.Title, n.Content.EvidenceType, w.id, w.title, w.evidenceType)
		}
		if n.Kind != graph.KindEvidence {
			t.Errorf("node %s kind = %s, want evidence", n.ID, n.Kind)
		}
	}

	if got := doc.Nodes[1].Content.Bounds().Min(); got != importer.GridSlot(1) {
		t.Errorf("B placed at %v, want %v", got, importer.GridSlot(1))
	}

	if len(doc.Relations) != 3 {
		t.Fatalf("got %d relations, want 3", len(doc.Relations))
	}
	first := doc.Relations[0]
	if first.FromID != "A" || first.ToID != "B" || first.Label != "mentions" || !first.Directed {
		t.Errorf("first relation = %+v", first)
	}
	if doc.Relations[1].Color == "" {
		t.Errorf("dotted link should be coloured")
	}
	if doc.Relations[2].Directed {
		t.Errorf("--- link should be undirected")
	}
}

func TestMermaidChainAndSubgraphTags(t *testing.T) {
	doc, err := importer.NewMermaidImporter().Import("graph TD\nsubgraph s1\nX --> Y --> Z\nend\n")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(doc.Relations) != 2 {
		t.Fatalf("got %d relations, want 2", len(doc.Relations))
	}
	if doc.Relations[1].FromID != "Y" || doc.Relations[1].ToID != "Z" {
		t.Errorf("second link = %s -> %s", doc.Relations[1].FromID, doc.Relations[1].ToID)
	}
	for _, n := range doc.Nodes {
		if !n.HasTag("s1") {
			t.Errorf("node %s missing subgraph tag", n.ID)
		}
	}
}

func TestGraphviz(t *testing.T) {
	src := `digraph case {
  rankdir=LR;
  letter [label="Letter\nfound in desk", fillcolor=yellow, class=document];
  letter -> safe [label="opens"];
  "safe" -> vault;
}`
	doc, err := importer.NewGraphvizImporter().Import(src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(doc.Nodes))
	}
	letter := doc.Nodes[0]
	if letter.Title != "Letter" || letter.Content.Description != "found in desk" {
		t.Errorf("letter = %q / %q", letter.Title, letter.Content.Description)
	}
	if letter.Content.Fill != "#ffff00" || letter.Content.EvidenceType != "document" {
		t.Errorf("letter style = %q %q", letter.Content.Fill, letter.Content.EvidenceType)
	}
	if len(doc.Relations) != 2 || doc.Relations[0].Label != "opens" || !doc.Relations[0].Directed {
		t.Errorf("relations = %+v", doc.Relations)
	}
}

func TestDetect(t *testing.T) {
	reg := importer.NewRegistry()
	tests := []struct {
		content string
		want    string
	}{
		{`{"nodes": [], "relations": []}`, "JSON"},
		{"graph TD\nA --> B", "Mermaid"},
		{"flowchart LR\nA --> B", "Mermaid"},
		{"digraph G {\nA -> B\n}", "Graphviz"},
		{"graph G {\nA -- B\n}", "Graphviz"},
		{"nodes:\n  - id: a\n    kind: rect\n", "YAML"},
		{"# Board\n\n```mermaid\nflowchart LR\nA --> B\n```\n", "Markdown"},
	}
	for _, tt := range tests {
		imp, err := reg.Detect(tt.content)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.content, err)
			continue
		}
		if imp.Name() != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.content, imp.Name(), tt.want)
		}
	}
	if _, err := reg.Detect("hello"); err == nil {
		t.Error("expected detection failure")
	}
}

func TestForFile(t *testing.T) {
	reg := importer.NewRegistry()
	imp, ok := reg.ForFile("board.MMD")
	if !ok || imp.Name() != "Mermaid" {
		t.Errorf("ForFile(board.MMD) = %v, %v", imp, ok)
	}
	if _, ok := reg.ForFile("board.pdf"); ok {
		t.Error("pdf should not match")
	}
}

func TestDocumentsRejectInvalidNodes(t *testing.T) {
	_, err := importer.NewJSONImporter().Import(`{"nodes": [{"id": "a", "kind": "hexagon"}]}`)
	if err == nil {
		t.Error("unknown kind accepted")
	}
	_, err = importer.NewYAMLImporter().Import("nodes:\n  - id: a\n    kind: rect\n  - id: a\n    kind: rect\n")
	if err == nil {
		t.Error("duplicate id accepted")
	}
}

func TestMermaidImportCreatesRelations(t *testing.T) {
	doc, err := importer.NewRegistry().Import(evidenceFlow)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	s := store.NewMemory()
	ids, err := store.Import(context.Background(), s, doc)
	if err != nil {
		t.Fatalf("store.Import: %v", err)
	}
	rels, err := s.ListRelations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rels) != 3 {
		t.Fatalf("stored %d relations, want 3", len(rels))
	}
	if rels[0].FromID != ids["A"] || rels[0].ToID != ids["B"] {
		t.Errorf("relation endpoints not remapped: %+v", rels[0])
	}
}

const notes = "# Case\n\n```mermaid\nflowchart LR\n  A[Letter] --> B[Guard]\n```\n\n```dot\ndigraph G {\n  x -> y\n  y -> z\n}\n```\n"

func TestMarkdownImportsFencedBlocks(t *testing.T) {
	reg := importer.NewRegistry()
	doc, err := reg.Import(notes)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[0].Title != "Letter" {
		t.Errorf("first block nodes = %+v", doc.Nodes)
	}

	md := importer.NewMarkdownImporter(reg)
	md.Block = 1
	doc, err = md.Import(notes)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 3 || len(doc.Relations) != 2 {
		t.Errorf("dot block: %d nodes, %d relations", len(doc.Nodes), len(doc.Relations))
	}

	md.Block = 2
	if _, err := md.Import(notes); err == nil {
		t.Error("out of range block accepted")
	}
	if imp, ok := reg.ForFile("README.md"); !ok || imp.Name() != "Markdown" {
		t.Errorf("ForFile(README.md) = %v, %v", imp, ok)
	}
}
