// Package cli implements the cm2kit command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cm2kit/pkg/buildinfo"
	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/pipeline"
	"github.com/matzehuels/cm2kit/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cm2kit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configFile overrides the default config location (--config).
	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cm2kit compiles circuit manifests into Circuit Maker 2 savestrings",
		Long: `cm2kit resolves declarative circuit manifests (blocks, arrays, wires,
buildings and generated modules) into Circuit Maker 2 savestrings, and decodes
savestrings back into inspectable graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/cm2kit/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.kindsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the config file selected by --config or the default path.
func (c *CLI) config() (Config, error) {
	path := c.configFile
	if path == "" {
		p, err := configPath()
		if err != nil {
			return defaultConfig(), nil
		}
		path = p
	}
	return loadConfig(path)
}

// =============================================================================
// Runner & Backend Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache picks Redis when a URL is configured and the file cache otherwise.
// A Redis outage falls back to the file cache with a warning.
func (c *CLI) newCache(ctx context.Context, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err == nil {
			c.Logger.Debug("using redis cache", "prefix", cfg.Cache.Prefix)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore picks MongoDB when a URI is configured and the file store otherwise.
func (c *CLI) newStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Store.MongoURI != "" {
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database, cfg.Store.Collection)
	}
	dir := cfg.Store.Dir
	if dir == "" {
		d, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return store.NewFileStore(dir)
}
