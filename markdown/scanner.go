// Package markdown finds graph blocks in markdown documents and rewrites them
// in place.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Block is a fenced code block holding a graph.
type Block struct {
	Lang    string // mermaid, dot, json or yaml
	Content string
	Start   int // line of the opening fence, 0-based
	End     int // line of the closing fence
	Indent  string
	Hash    string // sha256 of Content when scanned
}

// Languages maps fence info strings to importer format names.
var Languages = map[string]string{
	"mermaid":  "mermaid",
	"mmd":      "mermaid",
	"dot":      "graphviz",
	"graphviz": "graphviz",
	"gv":       "graphviz",
}

// Format is the importer format name of the block's language.
func (b Block) Format() string { return Languages[b.Lang] }

// Scan returns every graph block in content, in document order. Blocks left
// open at the end of the document are ignored.
func Scan(content string) []Block {
	var (
		blocks []Block
		cur    *Block
		body   []string
	)
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if cur == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			if _, ok := Languages[lang]; ok {
				cur = &Block{Lang: lang, Start: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			cur.End = i
			cur.Content = strings.Join(body, "\n")
			cur.Hash = hash(cur.Content)
			blocks = append(blocks, *cur)
			cur = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, cur.Indent))
	}
	return blocks
}

// Replace swaps the body of b for body and returns the new document. It
// refuses when the fences moved or the block was edited since it was scanned.
func Replace(content string, b Block, body string) (string, error) {
	lines := strings.Split(content, "\n")
	if b.Start < 0 || b.End >= len(lines) || b.Start >= b.End {
		return "", fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			b.Start, b.End, len(lines))
	}
	open := strings.TrimLeft(lines[b.Start], " \t")
	if !strings.HasPrefix(strings.ToLower(open), "```"+b.Lang) {
		return "", fmt.Errorf("block start moved from line %d", b.Start+1)
	}
	if !strings.HasPrefix(strings.TrimLeft(lines[b.End], " \t"), "```") {
		return "", fmt.Errorf("block end moved from line %d", b.End+1)
	}

	current := make([]string, 0, b.End-b.Start-1)
	for _, line := range lines[b.Start+1 : b.End] {
		current = append(current, strings.TrimPrefix(line, b.Indent))
	}
	if hash(strings.Join(current, "\n")) != b.Hash {
		return "", fmt.Errorf("block at line %d was modified since it was read", b.Start+1)
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:b.Start+1]...)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		out = append(out, b.Indent+line)
	}
	out = append(out, lines[b.End:]...)
	return strings.Join(out, "\n"), nil
}

// Describe is a one-line summary of the block for pickers and errors.
func Describe(b Block, index int) string {
	preview := ""
	for _, line := range strings.Split(b.Content, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			preview = t
			break
		}
	}
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, b.Lang, b.Start+1, preview)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
