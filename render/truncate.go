package render

import "github.com/mattn/go-runewidth"

// Ellipsis is appended to truncated strings.
const Ellipsis = "…"

// Character budgets for card text.
const (
	TitleBudget       = 20
	DescriptionBudget = 30
	TagBudget         = 24
)

var widths = &runewidth.Condition{EastAsianWidth: false}

// Truncate cuts s to at most budget display columns, ending in an ellipsis
// when anything was removed. Truncating an already truncated string returns
// it unchanged.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	return widths.Truncate(s, budget, Ellipsis)
}

// Width returns the display width of s in columns.
func Width(s string) int {
	return widths.StringWidth(s)
}
