package cmd

import (
	"context"

	"graphboard/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd(a *app) *cobra.Command {
	var (
		format string
		block  int
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a board file into the configured store",
		Example: "  graphboard import case.mmd\n" +
			"  graphboard import --store postgres --dsn postgres://localhost/boards tree.yaml\n" +
			"  cat graph.dot | graphboard import -i graphviz -",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], format, block-1, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Store.Timeout)
			defer cancel()

			s, closeStore, err := a.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			ids, err := store.Import(ctx, s, doc)
			if err != nil {
				a.logger.Error("import failed", zap.Int("created", len(ids)), zap.Error(err))
				return err
			}
			done(cmd.OutOrStdout(), "Imported %d nodes and %d relations into %s",
				len(doc.Nodes), len(doc.Relations), Brand.Sprint(a.cfg.Store.Driver))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "input-format", "i", "", "Input format (json, yaml, mermaid, graphviz, markdown); detected when empty")
	cmd.Flags().IntVar(&block, "block", 1, "Markdown block to read, 1-based")
	return cmd
}
