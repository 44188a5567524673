package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/buildinfo"
	"github.com/matzehuels/scenarioflow/pkg/cache"
	"github.com/matzehuels/scenarioflow/pkg/config"
	"github.com/matzehuels/scenarioflow/pkg/pipeline"
	"github.com/matzehuels/scenarioflow/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "scenarioflow"

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Scenarioflow lays out workflow scenarios as level diagrams",
		Long: `Scenarioflow reads workflow scenarios (states, roles and transitions) and
arranges them into hierarchical levels, rendering diagrams as SVG, Graphviz DOT,
Mermaid or JSON. It also serves scenarios and diagrams over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/scenarioflow/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	// Redis scopes by key prefix in openRedisCache; the file cache scopes keys here.
	if prefix := c.Config.Cache.Prefix; prefix != "" && c.Config.Cache.Backend != config.CacheRedis {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache that cannot
// be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Backend == config.CacheRedis {
		return c.openRedisCache(ctx)
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// openRedisCache connects to the configured Redis. A configured prefix
// narrows the key namespace, so clearing one deployment leaves others on
// the same server untouched.
func (c *CLI) openRedisCache(ctx context.Context) (*cache.RedisCache, error) {
	cfg := c.Config.Cache
	var opts []cache.RedisOption
	if cfg.Prefix != "" {
		opts = append(opts, cache.WithRedisPrefix(cache.DefaultRedisPrefix+cfg.Prefix))
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect redis cache: %w", err)
	}
	return rc, nil
}

// newStore opens the configured scenario store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreMongo:
		return store.NewMongo(ctx, cfg.MongoURI, cfg.Database)
	default:
		return store.NewFile(cfg.Dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/scenarioflow/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/scenarioflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath returns where an artifact of format should be written.
// With a single format an explicit output is used verbatim; otherwise it
// is treated as a base path and the format extension is appended.
func outputPath(input, output, format string, single bool) string {
	ext := "." + pipeline.Extension(format)
	if output != "" {
		if single {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
