package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status colours.
var (
	Brand  = color.New(color.FgHiBlue, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Good   = color.New(color.FgGreen)
	Warn   = color.New(color.FgYellow)
	Bad    = color.New(color.FgRed)
)

// done prints a success line.
func done(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Good.Sprint("✓"), fmt.Sprintf(format, args...))
}
