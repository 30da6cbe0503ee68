// Package cmd implements the graphboard command line.
package cmd

import (
	"fmt"

	"graphboard/config"
	"graphboard/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

// app is the state shared by every subcommand, filled in before each run.
type app struct {
	configPath string
	driver     string
	dsn        string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the graphboard command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "graphboard",
		Short: "graphboard, an interactive node and relation board",
		Long: Brand.Sprint("graphboard") + " draws free-form canvases, evidence boards and family trees\n" +
			Subtle.Sprint("Edit boards in the terminal, serve them over HTTP, import and export them"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate("graphboard {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "graphboard.yaml", "Configuration file")
	flags.StringVar(&a.driver, "store", "", "Store driver: memory, sqlite, postgres, remote")
	flags.StringVar(&a.dsn, "dsn", "", "Store location: sqlite path, postgres DSN or server URL")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		renderCmd(a),
		tuiCmd(a),
		serveCmd(a),
		importCmd(a),
		exportCmd(a),
		versionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.dsn != "" {
		if cfg.Store.Driver == config.DriverRemote {
			cfg.Store.URL = a.dsn
		} else {
			cfg.Store.DSN = a.dsn
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		Bad.Fprintf(root.ErrOrStderr(), "graphboard: %v\n", err)
		return err
	}
	return nil
}
