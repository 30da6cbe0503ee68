package canvas

import (
	"fmt"
	"strings"
)

// Charset selects the runes a grid is shown with.
type Charset int

const (
	// Unicode shows box drawing and geometric shapes as drawn.
	Unicode Charset = iota
	// ASCII replaces them with +, -, | and friends for terminals and files
	// that cannot show them.
	ASCII
)

func (c Charset) String() string {
	if c == ASCII {
		return "ascii"
	}
	return "unicode"
}

// ModeEnv forces the charset of the terminal host.
const ModeEnv = "GRAPHBOARD_TERMINAL_MODE"

// ParseCharset reads "unicode" or "ascii". "auto" and "" detect from the
// environment.
func ParseCharset(s string, getenv func(string) string) (Charset, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectCharset(getenv), nil
	case "unicode", "utf8", "utf-8":
		return Unicode, nil
	case "ascii":
		return ASCII, nil
	}
	return Unicode, fmt.Errorf("unknown charset %q", s)
}

// DetectCharset picks ASCII for the Linux console, dumb terminals and
// locales that are set but not UTF-8.
func DetectCharset(getenv func(string) string) Charset {
	switch strings.ToLower(getenv(ModeEnv)) {
	case "ascii":
		return ASCII
	case "unicode":
		return Unicode
	}
	if term := getenv("TERM"); term == "linux" || term == "dumb" {
		return ASCII
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := getenv(key)
		if value == "" {
			continue
		}
		_, enc, _ := strings.Cut(value, ".")
		enc, _, _ = strings.Cut(enc, "@")
		if strings.EqualFold(enc, "UTF-8") || strings.EqualFold(enc, "UTF8") {
			return Unicode
		}
		return ASCII
	}
	return Unicode
}

var asciiRunes = map[rune]rune{
	'─': '-', '━': '-', '┄': '-', '═': '=',
	'│': '|', '┃': '|', '┆': ':', '║': '|',
	'┌': '+', '┐': '+', '└': '+', '┘': '+',
	'╭': '+', '╮': '+', '╰': '+', '╯': '+',
	'┏': '+', '┓': '+', '┗': '+', '┛': '+',
	'├': '+', '┤': '+', '┬': '+', '┴': '+', '┼': '+',
	'╱': '/', '╲': '\\', '·': '.',
	'▶': '>', '◀': '<', '▲': '^', '▼': 'v',
	'■': '#', '□': 'o', '●': 'o', '…': '~',
}

// Rune maps r into the charset.
func (c Charset) Rune(r rune) rune {
	if c == ASCII {
		if a, ok := asciiRunes[r]; ok {
			return a
		}
	}
	return r
}
