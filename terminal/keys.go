package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Binding is one line of the key help.
type Binding struct {
	Keys   string
	Action string
}

// Section groups bindings under a heading.
type Section struct {
	Name     string
	Bindings []Binding
}

// Keymap lists every binding of the host.
var Keymap = []Section{
	{"Tools", []Binding{
		{"s", "select and move"},
		{"r", "rectangle"},
		{"e", "ellipse"},
		{"t", "text box"},
		{"p", "pen"},
	}},
	{"Board", []Binding{
		{"drag", "draw with the tool, or move the selection"},
		{"double-click", "add a node"},
		{"f", "jump to a node by its label"},
		{"x, Delete", "delete the selected node"},
		{"u", "undo a move or resize"},
		{"U, Ctrl-R", "redo"},
	}},
	{"View", []Binding{
		{"arrows", "pan"},
		{"+, -", "zoom"},
		{"wheel", "zoom at the cursor"},
		{"0", "reset the view"},
	}},
	{"", []Binding{
		{"?", "show or hide this help"},
		{"q, Esc", "quit"},
	}},
}

// HelpText renders the keymap as plain text.
func HelpText() string {
	width := 0
	for _, sec := range Keymap {
		for _, b := range sec.Bindings {
			width = max(width, runewidth.StringWidth(b.Keys))
		}
	}
	var sb strings.Builder
	for i, sec := range Keymap {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if sec.Name != "" {
			sb.WriteString(sec.Name + "\n")
		}
		for _, b := range sec.Bindings {
			fmt.Fprintf(&sb, "  %s  %s\n", runewidth.FillRight(b.Keys, width), b.Action)
		}
	}
	return sb.String()
}

// drawHelp shows the keymap in a box over the board.
func (h *Host) drawHelp() {
	var lines []string
	for l := range strings.Lines(HelpText()) {
		if l = strings.TrimRight(l, "\n"); l != "" {
			lines = append(lines, l)
		}
	}
	inner := 0
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}
	w, ht := h.screen.Size()
	bw, bh := inner+4, len(lines)+2
	x0, y0 := max((w-bw)/2, 0), max((ht-1-bh)/2, 0)

	style := tcell.StyleDefault.Reverse(true)
	put := func(x, y int, r rune) {
		h.screen.SetContent(x, y, h.charset.Rune(r), nil, style)
	}
	for y := y0; y < y0+bh; y++ {
		for x := x0; x < x0+bw; x++ {
			put(x, y, ' ')
		}
	}
	for x := x0 + 1; x < x0+bw-1; x++ {
		put(x, y0, '─')
		put(x, y0+bh-1, '─')
	}
	for y := y0 + 1; y < y0+bh-1; y++ {
		put(x0, y, '│')
		put(x0+bw-1, y, '│')
	}
	put(x0, y0, '┌')
	put(x0+bw-1, y0, '┐')
	put(x0, y0+bh-1, '└')
	put(x0+bw-1, y0+bh-1, '┘')
	for i, l := range lines {
		x := x0 + 2
		for _, r := range l {
			h.screen.SetContent(x, y0+1+i, r, nil, style)
			x += runewidth.RuneWidth(r)
		}
	}
}
