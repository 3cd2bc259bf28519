package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlsync/pkg/cache"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/observability"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP API and the MCP server all use it so the layout and
// caching logic exists once.
//
// The Runner is stateless except for its collaborators - it doesn't store
// documents or snapshots. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Client *plantuml.Client
	Logger *log.Logger

	// ArtifactTTL is how long rendered diagrams stay cached.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If client is nil, a client for the public PlantUML server is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, client *plantuml.Client, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if client == nil {
		client = plantuml.NewClient(plantuml.DefaultServer)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Client:      client,
		Logger:      logger,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// InitializeFromText extracts the entities of text and seeds a position for
// each on the default grid.
func (r *Runner) InitializeFromText(ctx context.Context, text string, opts Options) (*Seed, error) {
	return r.Reseed(ctx, text, layout.Snapshot{}, opts)
}

// Reseed is InitializeFromText that keeps the positions already in known.
// Entities that disappeared from the text are dropped.
func (r *Runner) Reseed(ctx context.Context, text string, known layout.Snapshot, opts Options) (*Seed, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	src := opts.Source(text)
	ex, _ := Parse(ctx, src, opts)
	seed := &Seed{
		Nodes:       SeedLayout(ex.Entities, known, opts),
		Stored:      StoredConstraints(src),
		Dropped:     StalePositions(known, ex.Entities),
		Diagnostics: ex.Diagnostics,
	}
	r.Logger.Debug("seeded layout",
		"entities", len(seed.Nodes),
		"kept", known.Len()-len(seed.Dropped),
		"stored", len(seed.Stored))
	if len(seed.Dropped) > 0 {
		r.Logger.Info("dropped positions of removed entities", "ids", seed.Dropped)
	}
	return seed, nil
}

// ApplyLayout runs the layout-to-text pipeline: it extracts the entities of
// text, synthesizes constraints from snap and writes them into the
// document's constraint region.
//
// Structural problems in the document are reported as warnings on the
// result. The only error besides invalid options is an
// errors.ErrCodeInvariant failure, in which case text is left untouched.
func (r *Runner) ApplyLayout(ctx context.Context, text string, snap layout.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := opts.Source(text)
	result := &Result{}

	// Stage 1: Extract
	ex, extractTime := Parse(ctx, src, opts)
	result.Entities = ex.Entities
	result.Diagnostics = ex.Diagnostics
	result.Stats.ExtractTime = extractTime

	// Stage 2: Synthesize
	syn, synthTime, err := GenerateConstraints(ctx, ex.Entities, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	result.Constraints = syn.Constraints
	result.Stats.Stats = syn.Stats
	result.Stats.SynthesizeTime = synthTime

	// Stage 3: Patch
	patched, patchTime := PatchDocument(ctx, src, syn.Constraints, opts)
	result.Text = patched.Text
	result.Changed = patched.Text != text
	result.Warnings = patched.Warnings
	result.Stats.PatchTime = patchTime

	r.Logger.Info("applied layout",
		"entities", len(ex.Entities),
		"constraints", len(syn.Constraints),
		"changed", result.Changed,
		"duration", extractTime+synthTime+patchTime)

	return result, nil
}

// RenderWithCacheInfo renders text on the PlantUML server in every
// requested format and reports whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, text string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	src := opts.Source(text)
	docHash := cache.HashString(src)
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format, r.Client.Server()))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderDiagram(ctx, r.Client, src, opts.Formats)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format, r.Client.Server()))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered diagram",
		"formats", opts.Formats,
		"duration", time.Since(start))
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, text string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, text, opts)
	return artifacts, err
}

// PreviewWithCacheInfo draws the entities of text at the positions in snap
// together with the synthesized constraints. Entities missing from snap
// are drawn at their grid slot. Only the first requested format is used.
func (r *Runner) PreviewWithCacheInfo(ctx context.Context, text string, snap layout.Snapshot, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	src := opts.Source(text)
	format := opts.Formats[0]

	snapData, err := json.Marshal(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	key := r.Keyer.PreviewKey(cache.Hash(append([]byte(src), snapData...)), opts.PreviewKeyOpts(format))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "preview")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "preview")
	}

	ex, _ := Parse(ctx, src, opts)
	syn, _, err := GenerateConstraints(ctx, ex.Entities, snap, opts)
	if err != nil {
		return nil, false, err
	}
	nodes := layout.Place(ex.Entities, snap, opts.Grid)

	data, err := RenderPreview(ctx, nodes, syn.Constraints, format)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLPreview); err == nil {
		observability.Cache().OnCacheSet(ctx, "preview", len(data))
	}
	return data, false, nil
}

// Preview is a convenience wrapper that calls PreviewWithCacheInfo and discards the cache hit info.
func (r *Runner) Preview(ctx context.Context, text string, snap layout.Snapshot, opts Options) ([]byte, error) {
	data, _, err := r.PreviewWithCacheInfo(ctx, text, snap, opts)
	return data, err
}

// URL returns the PlantUML server URL of text in format.
func (r *Runner) URL(text string, format string, opts Options) (string, error) {
	f, err := plantuml.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return r.Client.URL(opts.Source(text), f), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
