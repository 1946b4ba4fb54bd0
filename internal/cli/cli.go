// Package cli implements the casemap command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lexora/casemap/pkg/buildinfo"
	"github.com/lexora/casemap/pkg/cache"
	"github.com/lexora/casemap/pkg/config"
	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "casemap"

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

	// ConfigPath overrides config.DefaultPath when set (--config).
	ConfigPath string
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
		Use:          appName,
		Short:        "Casemap lays out and renders case mind maps",
		Long:         `Casemap places the nodes of a Lexora case mind map on a radial layout and renders the result to SVG, PNG, PDF, DOT or JSON. It can also browse a mind map in the terminal and serve the layout engine and viewport sessions over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $CASEMAP_CONFIG or the user config dir)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// configPath returns the --config value or the default location.
func (c *CLI) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and warns about keys it does not know.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath()
	cfg, unknown, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	for _, key := range unknown {
		c.Logger.Warn("unknown config key", "key", key, "file", path)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Log hooks are installed so
// --verbose shows stage timings and cache traffic.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Backend == config.CacheRedis {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if cfg.Cache.LayoutTTL > 0 {
		runner.LayoutTTL = cfg.Cache.LayoutTTL
	}
	if cfg.Cache.ArtifactTTL > 0 {
		runner.ArtifactTTL = cfg.Cache.ArtifactTTL
	}

	src, err := c.newSource(ctx, cfg.Source)
	if err != nil {
		runner.Close()
		return nil, err
	}
	runner.Source = src

	observability.NewLogHooks(c.Logger).Install()
	return runner, nil
}

// newCache opens the configured backend. A redis backend that cannot be
// reached falls back to the file cache rather than failing the command.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", cfg.RedisAddr, "err", err)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSource returns a MongoDB source when a URI is configured, a directory
// source when a dir is configured, and nil otherwise.
func (c *CLI) newSource(ctx context.Context, cfg config.SourceConfig) (source.Source, error) {
	switch {
	case cfg.MongoURI != "":
		src, err := source.NewMongoSource(ctx, source.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case cfg.Dir != "":
		return source.NewFileSource(cfg.Dir), nil
	}
	return nil, nil
}

// =============================================================================
// Inputs & Paths
// =============================================================================

// cacheDir returns the configured cache directory, else ~/.cache/casemap/.
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}

// loadGraph reads the mind map from a file argument or, with --case, from the
// configured source.
func loadGraph(ctx context.Context, runner *pipeline.Runner, args []string, caseID string) (*mindmap.Graph, error) {
	switch {
	case caseID != "" && len(args) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "pass either a file or --case, not both")
	case caseID != "":
		return runner.Load(ctx, caseID)
	case len(args) == 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "a mind map file or --case is required")
	}
	return mindmap.ReadFile(args[0])
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
