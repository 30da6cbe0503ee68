package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"graphboard/demo"
	"graphboard/engine"
	"graphboard/model"
	"graphboard/render"
	"graphboard/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func tuiCmd(a *app) *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:     "tui",
		Aliases: []string{"edit"},
		Short:   "Edit the stored board in the terminal",
		Long:    "Opens the board in a full screen terminal editor.\n\n" + terminal.HelpText(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sc *demo.Script
			if script != "" {
				var err error
				if sc, err = demo.Load(script); err != nil {
					return err
				}
			}

			// Log lines on stderr would tear the screen.
			logger := a.logger
			if a.cfg.Log.File == "" {
				logger = zap.NewNop()
			}

			s, closeStore, err := a.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer closeStore()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initialising terminal: %w", err)
			}
			defer screen.Fini()

			host := terminal.NewHost(screen, a.cfg.Terminal, logger)
			surface, err := host.Surface()
			if err != nil {
				return err
			}
			kind, _ := a.cfg.DefaultKind()
			m := model.New(s, model.Options{Logger: logger, Wake: host.Wake, Timeout: a.cfg.Store.Timeout})
			e := engine.New(m, surface, engine.Options{
				Layout:      a.cfg.Layout,
				Renderer:    render.Options{GridSpacing: a.cfg.GridSpacing(), Theme: a.cfg.Theme},
				DefaultKind: kind,
				MinZoom:     a.cfg.View.MinZoom,
				MaxZoom:     a.cfg.View.MaxZoom,
				Logger:      logger,
			})
			if err := e.Load(ctx); err != nil {
				return err
			}

			if sc != nil {
				go func() {
					if err := demo.NewPlayer(screen).Play(ctx, sc); err != nil && !errors.Is(err, context.Canceled) {
						logger.Warn("demo stopped", zap.Error(err))
					}
				}()
			}

			runErr := host.Run(ctx, e)

			// Let writes issued just before quitting reach the store.
			settleCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Settle(settleCtx); err != nil {
				logger.Warn("unsaved changes", zap.Int("pending", m.Pending()), zap.Error(err))
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&script, "demo", "", "Replay a YAML input script")
	return cmd
}
