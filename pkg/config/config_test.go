package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/umlsync/pkg/cache"
	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Layout.MinGap != layout.DefaultMinGap {
		t.Errorf("MinGap = %v, want %v", cfg.Layout.MinGap, layout.DefaultMinGap)
	}
	if cfg.GridOptions() != layout.DefaultGridOptions() {
		t.Errorf("GridOptions() = %+v, want defaults", cfg.GridOptions())
	}
	if cfg.Format() != plantuml.SVG {
		t.Errorf("Format() = %q, want svg", cfg.Format())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[layout]
min_gap = 25.0
grid_columns = 4
grid_origin = [0.0, 10.0]

[render]
server_url = "http://localhost:8081"
format = "png"
timeout = "5s"

[cache]
backend = "none"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Layout.MinGap != 25 || cfg.Layout.GridColumns != 4 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	// Unset keys keep their defaults.
	if cfg.Layout.GridSpacingX != layout.DefaultGridOptions().SpacingX {
		t.Errorf("GridSpacingX = %v, want default", cfg.Layout.GridSpacingX)
	}
	if got := *cfg.GridOptions().Origin; got != (layout.Position{X: 0, Y: 10}) {
		t.Errorf("Origin = %+v", got)
	}
	if cfg.Format() != plantuml.PNG {
		t.Errorf("Format() = %q, want png", cfg.Format())
	}
	if cfg.Render.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Render.Timeout)
	}
	if got := cfg.SynthesisOptions().MinGap; got != 25 {
		t.Errorf("SynthesisOptions().MinGap = %v", got)
	}
	if got := cfg.CacheOptions("/tmp/x"); got.Backend != cache.BackendNone || got.Dir != "/tmp/x" {
		t.Errorf("CacheOptions() = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[layout\nmin_gap = 1"},
		{"unknown key", "[layout]\nmin_gapp = 1"},
		{"negative gap", "[layout]\nmin_gap = -1.0"},
		{"bad format", "[render]\nformat = \"pdf\""},
		{"bad server", "[render]\nserver_url = \"ftp://x\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want invalid config", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want file not found", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "[layout]\nmin_gap = 3.0\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find() = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}

	cfg, err := Resolve("", nested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Layout.MinGap != 3 {
		t.Errorf("MinGap = %v, want 3", cfg.Layout.MinGap)
	}
}

func TestResolveExplicitWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[layout]\nmin_gap = 3.0\n")
	other := filepath.Join(t.TempDir(), "other.toml")
	if err := os.WriteFile(other, []byte("[layout]\nmin_gap = 7.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(other, root)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.MinGap != 7 {
		t.Errorf("MinGap = %v, want 7", cfg.Layout.MinGap)
	}
}
