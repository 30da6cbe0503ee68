package render

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Style describes how a primitive is painted. Colours are hex strings; an
// empty colour means "none".
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
	FontSize    float64
	Bold        bool
}

// Theme holds the colours the renderer uses for chrome.
type Theme struct {
	Background string `koanf:"background"`
	Grid       string `koanf:"grid"`
	Edge       string `koanf:"edge"`
	Text       string `koanf:"text"`
	Muted      string `koanf:"muted"`
	Selection  string `koanf:"selection"`
	Badge      string `koanf:"badge"`
}

// DefaultTheme is a light theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fafafa",
		Grid:       "#e6e6e6",
		Edge:       "#5f6368",
		Text:       "#202124",
		Muted:      "#80868b",
		Selection:  "#1a73e8",
		Badge:      "#d93025",
	}
}

var evidencePalette = map[string]string{
	"document":  "#4285f4",
	"photo":     "#a142f4",
	"testimony": "#f29900",
	"physical":  "#188038",
	"digital":   "#12b5cb",
	"location":  "#e52592",
}

// EvidenceColor returns the swatch colour for an evidence type. Unknown types
// get a stable hue derived from their name.
func EvidenceColor(evidenceType string) string {
	key := strings.ToLower(strings.TrimSpace(evidenceType))
	if c, ok := evidencePalette[key]; ok {
		return c
	}
	if key == "" {
		return "#9aa0a6"
	}
	hue := float64(xxhash.Sum64String(key)%360) // degrees
	return colorful.Hsv(hue, 0.55, 0.85).Hex()
}

// Tint blends base toward over by t in Lab space. Unparseable colours
// return base unchanged.
func Tint(base, over string, t float64) string {
	b, err := colorful.Hex(base)
	if err != nil {
		return base
	}
	o, err := colorful.Hex(over)
	if err != nil {
		return base
	}
	return b.BlendLab(o, t).Clamped().Hex()
}

// ParseColor parses a hex colour. ok is false for empty or malformed input.
func ParseColor(hex string) (c colorful.Color, ok bool) {
	if hex == "" {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
