// Package config loads umlsync.toml.
//
// The file is looked up from the working directory upward, so a config at a
// repository root applies to every diagram below it. All settings are
// optional; missing values keep their defaults.
//
//	[layout]
//	min_gap = 10.0
//	grid_columns = 3
//	grid_spacing_x = 250.0
//	grid_spacing_y = 150.0
//	grid_origin = [50.0, 50.0]
//
//	[render]
//	server_url = "https://www.plantuml.com/plantuml"
//	format = "svg"
//	timeout = "30s"
//
//	[cache]
//	backend = "file"        # file, redis, mongo or none
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/umlsync/pkg/cache"
	uerrors "github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// FileName is the config file looked up by [Find].
const FileName = "umlsync.toml"

// Config is the decoded configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `toml:"-"`
}

// LayoutConfig holds synthesizer and grid seeding settings.
type LayoutConfig struct {
	MinGap         float64    `toml:"min_gap"`
	KeepTransitive bool       `toml:"keep_transitive"`
	GridColumns    int        `toml:"grid_columns"`
	GridSpacingX   float64    `toml:"grid_spacing_x"`
	GridSpacingY   float64    `toml:"grid_spacing_y"`
	GridOrigin     [2]float64 `toml:"grid_origin"`
}

// RenderConfig holds PlantUML server settings.
type RenderConfig struct {
	ServerURL string        `toml:"server_url"`
	Format    string        `toml:"format"`
	Timeout   time.Duration `toml:"timeout"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	TTL           time.Duration `toml:"ttl"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	MCPPath string `toml:"mcp_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	grid := layout.DefaultGridOptions()
	return Config{
		Layout: LayoutConfig{
			MinGap:       layout.DefaultMinGap,
			GridColumns:  grid.Columns,
			GridSpacingX: grid.SpacingX,
			GridSpacingY: grid.SpacingY,
			GridOrigin:   [2]float64{grid.Origin.X, grid.Origin.Y},
		},
		Render: RenderConfig{
			ServerURL: plantuml.DefaultServer,
			Format:    string(plantuml.SVG),
			Timeout:   plantuml.DefaultTimeout,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     cache.TTLArtifact,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			MCPPath: "/mcp",
		},
	}
}

// Find looks for FileName in startDir and its parents. It returns the path
// and true when found.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes the file at path on top of the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, uerrors.Wrap(uerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, uerrors.Wrap(uerrors.ErrCodeInvalidConfig, err, "%s: parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, uerrors.New(uerrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the first umlsync.toml found
// from startDir upward, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return uerrors.New(uerrors.ErrCodeInvalidConfig, format, args...)
	}
	if c.Layout.MinGap < 0 {
		return invalid("layout.min_gap must not be negative")
	}
	if c.Layout.GridColumns < 0 {
		return invalid("layout.grid_columns must not be negative")
	}
	if c.Layout.GridSpacingX < 0 || c.Layout.GridSpacingY < 0 {
		return invalid("layout.grid_spacing_x and grid_spacing_y must not be negative")
	}
	if _, err := plantuml.ParseFormat(c.Render.Format); err != nil {
		return invalid("render.format: %s", uerrors.UserMessage(err))
	}
	if err := uerrors.ValidateURL(c.Render.ServerURL); err != nil {
		return invalid("render.server_url: %s", uerrors.UserMessage(err))
	}
	if c.Render.Timeout < 0 {
		return invalid("render.timeout must not be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return invalid("cache.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("cache.backend %q (must be file, redis, mongo or none)", c.Cache.Backend)
	}
	return nil
}

// SynthesisOptions returns the synthesizer options.
func (c Config) SynthesisOptions() layout.Options {
	return layout.Options{MinGap: c.Layout.MinGap, KeepTransitive: c.Layout.KeepTransitive}
}

// GridOptions returns the seeding options.
func (c Config) GridOptions() layout.GridOptions {
	return layout.GridOptions{
		Columns:  c.Layout.GridColumns,
		SpacingX: c.Layout.GridSpacingX,
		SpacingY: c.Layout.GridSpacingY,
		Origin:   &layout.Position{X: c.Layout.GridOrigin[0], Y: c.Layout.GridOrigin[1]},
	}.WithDefaults()
}

// CacheOptions returns the cache options. defaultDir is used by the file
// backend when cache.dir is unset.
func (c Config) CacheOptions(defaultDir string) cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      dir,
		RedisURL: c.Cache.RedisAddr,
		MongoURI: c.Cache.MongoURI,
		MongoDB:  c.Cache.MongoDatabase,
	}
}

// Format returns the configured render format.
func (c Config) Format() plantuml.Format {
	f, _ := plantuml.ParseFormat(c.Render.Format)
	return f
}
