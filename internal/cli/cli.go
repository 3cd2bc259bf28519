package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlsync/pkg/buildinfo"
	"github.com/matzehuels/umlsync/pkg/cache"
	"github.com/matzehuels/umlsync/pkg/config"
	"github.com/matzehuels/umlsync/pkg/observability"
	"github.com/matzehuels/umlsync/pkg/pipeline"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "umlsync"

	// stdinPath selects standard input or output in file arguments.
	stdinPath = "-"
)

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

	configPath string
	config     *config.Config
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
		Use:   "umlsync",
		Short: "umlsync keeps PlantUML text and a drawn layout in sync",
		Long: `umlsync keeps a PlantUML document and a freely arranged canvas of its
entities in sync. Moving entities on the canvas is written back into the
document as hidden layout links, so the PlantUML renderer reproduces the
arrangement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: nearest umlsync.toml)")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.entitiesCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.constraintsCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.urlCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())

	registerCompletions(root)
	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves umlsync.toml once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}
	cfg, err := config.Resolve(c.configPath, ".")
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = &cfg
	return cfg, nil
}

// baseOptions returns pipeline options derived from the config.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Layout:  cfg.SynthesisOptions(),
		Grid:    cfg.GridOptions(),
		Formats: []string{string(cfg.Format())},
		Logger:  c.Logger,
	}, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	observability.NewLogHooks(c.Logger).Register()

	client := plantuml.NewClient(cfg.Render.ServerURL,
		plantuml.WithHTTPClient(&http.Client{Timeout: cfg.Render.Timeout}))
	runner := pipeline.NewRunner(store, nil, client, c.Logger)
	if cfg.Cache.TTL > 0 {
		runner.ArtifactTTL = cfg.Cache.TTL
	}
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	opts := cfg.CacheOptions(dir)
	if (opts.Backend == "" || opts.Backend == cache.BackendFile) && opts.Dir == "" {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", opts.Backend, err)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/umlsync/).
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
// Documents
// =============================================================================

// readDocument reads a PlantUML document from path, or stdin for "-".
func readDocument(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeDocument writes text to path, or stdout for "" and "-". Existing
// files keep their permissions.
func writeDocument(path, text string) error {
	if path == "" || path == stdinPath {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// positionsPath returns the default positions file for a document:
// diagram.puml → diagram.layout.json.
func positionsPath(doc string) string {
	if doc == stdinPath {
		return "layout.json"
	}
	return strings.TrimSuffix(doc, filepath.Ext(doc)) + ".layout.json"
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
