package cmd

import (
	"context"
	"fmt"
	"os"

	"graphboard/export"
	"graphboard/graph"
	"graphboard/markdown"
	"graphboard/store"

	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var (
		format  string
		output  string
		doc     string
		block   int
		grid    bool
		charset string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored board",
		Example: "  graphboard export -f svg -o board.svg\n" +
			"  graphboard export -f yaml > backup.yaml\n" +
			"  graphboard export --markdown README.md --block 1",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Store.Timeout)
			defer cancel()

			s, closeStore, err := a.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer closeStore()
			board, err := store.Load(ctx, s)
			if err != nil {
				return err
			}

			if doc != "" {
				return a.exportToMarkdown(cmd, board, doc, block-1, format)
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
			data, err := exp.Export(board)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "" && output != "-" {
				done(cmd.ErrOrStderr(), "Exported %d nodes to %s", len(board.Nodes), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, svg, png, ascii, mermaid, dot)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&doc, "markdown", "", "Rewrite a mermaid or dot block of this markdown file")
	cmd.Flags().IntVar(&block, "block", 1, "Markdown block to rewrite, 1-based")
	cmd.Flags().BoolVar(&grid, "grid", false, "Draw the board grid in image formats")
	cmd.Flags().StringVar(&charset, "charset", "", "Charset of the ascii format: unicode, ascii or auto")
	return cmd
}

// exportToMarkdown replaces one graph block of path with the board, written
// in the block's language.
func (a *app) exportToMarkdown(cmd *cobra.Command, board *graph.Document, path string, index int, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	blocks := markdown.Scan(content)
	if index < 0 || index >= len(blocks) {
		return fmt.Errorf("%s has %d graph blocks, no block %d", path, len(blocks), index+1)
	}
	b := blocks[index]

	f := export.FormatMermaid
	if b.Format() == "graphviz" {
		f = export.FormatGraphviz
	}
	if cmd.Flags().Changed("format") {
		want, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		if want != f {
			return fmt.Errorf("block %d is %s; cannot write %s into it", index+1, b.Lang, want)
		}
	}
	exp, err := export.NewExporter(f, export.DefaultOptions())
	if err != nil {
		return err
	}
	body, err := exp.Export(board)
	if err != nil {
		return err
	}
	updated, err := markdown.Replace(content, b, string(body))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	done(cmd.OutOrStdout(), "Updated %s", markdown.Describe(b, index))
	return nil
}
