// Package config loads graphboard settings from a YAML file and GRAPHBOARD_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"graphboard/canvas"
	"graphboard/graph"
	"graphboard/layout"
	"graphboard/logging"
	"graphboard/render"
	"graphboard/server"
	"graphboard/store"
	"graphboard/terminal"
	"graphboard/viewport"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nesting levels: GRAPHBOARD_STORE__DRIVER sets store.driver.
const EnvPrefix = "GRAPHBOARD_"

// Board styles.
const (
	BoardCanvas   = "canvas"
	BoardEvidence = "evidence"
	BoardFamily   = "family"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRemote   = "remote"
)

// StoreConfig selects and tunes the node store.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	// DSN is the sqlite path or postgres connection string.
	DSN string `koanf:"dsn"`
	// URL is the base URL of a graphboard server for the remote driver.
	URL     string              `koanf:"url"`
	Timeout time.Duration       `koanf:"timeout"`
	Breaker store.BreakerConfig `koanf:"breaker"`
}

// ViewConfig bounds the zoom factor.
type ViewConfig struct {
	MinZoom float64 `koanf:"min_zoom"`
	MaxZoom float64 `koanf:"max_zoom"`
}

// Config is the complete configuration.
type Config struct {
	Board    string          `koanf:"board"`
	Log      logging.Config  `koanf:"log"`
	Store    StoreConfig     `koanf:"store"`
	Server   server.Config   `koanf:"server"`
	Layout   layout.Config   `koanf:"layout"`
	View     ViewConfig      `koanf:"view"`
	Theme    render.Theme    `koanf:"theme"`
	Terminal terminal.Config `koanf:"terminal"`
	// MetricsNamespace prefixes every Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// Default returns a Config with the standard settings.
func Default() *Config {
	return &Config{
		Board: BoardCanvas,
		Store: StoreConfig{
			Driver:  DriverSQLite,
			DSN:     "graphboard.db",
			Timeout: 30 * time.Second,
			Breaker: store.DefaultBreakerConfig("store"),
		},
		Server:           server.Config{Addr: ":8080"},
		Layout:           layout.DefaultConfig(),
		View:             ViewConfig{MinZoom: viewport.DefaultMinZoom, MaxZoom: viewport.DefaultMaxZoom},
		Theme:            render.DefaultTheme(),
		Terminal:         terminal.DefaultConfig(),
		MetricsNamespace: "graphboard",
	}
}

// Load reads the YAML file at path, if it exists, over the defaults and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps GRAPHBOARD_STORE__DRIVER to store.driver.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validDrivers = map[string]bool{
	DriverMemory:   true,
	DriverSQLite:   true,
	DriverPostgres: true,
	DriverRemote:   true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if _, err := c.DefaultKind(); err != nil {
		return err
	}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store.driver %q: must be one of memory, sqlite, postgres, remote", c.Store.Driver)
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", c.Store.Driver)
		}
	case DriverRemote:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the remote driver")
		}
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("store.timeout must be non-negative")
	}
	if c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom {
		return fmt.Errorf("view zoom range [%g, %g] is invalid", c.View.MinZoom, c.View.MaxZoom)
	}
	if c.Layout.HorizontalSpacing <= 0 || c.Layout.VerticalSpacing <= 0 {
		return fmt.Errorf("layout spacing must be positive")
	}
	if c.Layout.FanOut < 1 {
		return fmt.Errorf("layout.fan_out must be at least 1")
	}
	if _, err := canvas.ParseCharset(c.Terminal.Charset, os.Getenv); err != nil {
		return fmt.Errorf("terminal.charset: %w", err)
	}
	for name, hex := range map[string]string{
		"background": c.Theme.Background,
		"edge":       c.Theme.Edge,
		"text":       c.Theme.Text,
		"selection":  c.Theme.Selection,
	} {
		if _, ok := render.ParseColor(hex); !ok {
			return fmt.Errorf("theme.%s: invalid colour %q", name, hex)
		}
	}
	return nil
}

// DefaultKind is the node kind created by double-clicking the board.
func (c *Config) DefaultKind() (graph.Kind, error) {
	switch c.Board {
	case BoardCanvas:
		return graph.KindRect, nil
	case BoardEvidence:
		return graph.KindEvidence, nil
	case BoardFamily:
		return graph.KindPerson, nil
	default:
		return "", fmt.Errorf("invalid board %q: must be one of canvas, evidence, family", c.Board)
	}
}

// GridSpacing is the grid interval of the board style.
func (c *Config) GridSpacing() float64 {
	if c.Board == BoardCanvas {
		return render.CanvasGridSpacing
	}
	return render.BoardGridSpacing
}
