package cmd

import (
	"os"

	"graphboard/canvas"
	"graphboard/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func renderCmd(a *app) *cobra.Command {
	var (
		inputFormat string
		format      string
		output      string
		block       int
		grid        bool
		charset     string
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a board file without touching the store",
		Long: "Render reads a JSON, YAML, Mermaid, DOT or markdown file and writes it\n" +
			"in another format. The default is a box drawing preview on stdout.",
		Example: "  graphboard render board.json\n" +
			"  graphboard render case.mmd -f svg -o case.svg\n" +
			"  graphboard render README.md --block 2 -f png -o tree.png",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], inputFormat, block-1, cmd.InOrStdin())
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			opts, err := a.exportOptions(grid, charset)
			if err != nil {
				return err
			}
			exp, err := export.NewExporter(f, opts)
			if err != nil {
				return err
			}
			data, err := exp.Export(doc)
			if err != nil {
				return err
			}
			a.logger.Debug("rendered",
				zap.String("input", args[0]),
				zap.String("format", string(f)),
				zap.Int("nodes", len(doc.Nodes)),
				zap.Int("bytes", len(data)))
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "" && output != "-" {
				done(cmd.ErrOrStderr(), "Wrote %s %s", exp.Name(), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "Input format (json, yaml, mermaid, graphviz, markdown); detected when empty")
	cmd.Flags().StringVarP(&format, "format", "f", "ascii", "Output format (json, yaml, svg, png, ascii, mermaid, dot)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&block, "block", 1, "Markdown block to read, 1-based")
	cmd.Flags().BoolVar(&grid, "grid", false, "Draw the board grid in image formats")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset of the ascii format: unicode, ascii or auto")
	return cmd
}

// exportOptions builds image export options from the configuration. An
// empty charset falls back to terminal.charset.
func (a *app) exportOptions(grid bool, charset string) (export.Options, error) {
	opts := export.DefaultOptions()
	opts.Theme = a.cfg.Theme
	opts.Layout = a.cfg.Layout
	if grid {
		opts.GridSpacing = a.cfg.GridSpacing()
	}
	if charset == "" {
		charset = a.cfg.Terminal.Charset
	}
	cs, err := canvas.ParseCharset(charset, os.Getenv)
	if err != nil {
		return opts, err
	}
	opts.Charset = cs
	return opts, nil
}
