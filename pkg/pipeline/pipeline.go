// Package pipeline provides the text↔layout synchronization pipeline for
// umlsync.
//
// This package wires the pure core packages (diagram, layout, patch) to the
// I/O-bound collaborators (PlantUML server, preview renderer, artifact
// cache) so that the CLI, the HTTP API and the MCP server share one
// implementation.
//
// # Architecture
//
// Text to layout:
//
//  1. Extract: find the entities declared in the document
//  2. Seed: place entities on the default grid (or keep known positions)
//
// Layout to text:
//
//  1. Extract: find the entities declared in the document
//  2. Synthesize: derive minimal ordering constraints from the snapshot
//  3. Validate: check the constraint set invariants
//  4. Patch: rewrite the constraint region of the document
//
// Rendering goes through the PlantUML server for the final diagram and
// through Graphviz for the constraint preview; both are cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, client, logger)
//	seed, err := runner.InitializeFromText(ctx, text, pipeline.Options{})
//	// ... user moves nodes ...
//	res, err := runner.ApplyLayout(ctx, text, layout.SnapshotOf(nodes), pipeline.Options{})
//	fmt.Print(res.Text)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlsync/pkg/cache"
	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/patch"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and MCP
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG = string(plantuml.SVG)
	FormatPNG = string(plantuml.PNG)
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout layout.Options     `json:"layout"`
	Grid   layout.GridOptions `json:"grid"`

	// FromAnswer treats the input as free-form text (for example an AI
	// answer) and operates on the PlantUML block found in it.
	FromAnswer bool `json:"from_answer,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // Bypass the cache for reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Seed is the result of [Runner.InitializeFromText].
type Seed struct {
	Nodes []layout.Node `json:"nodes"`

	// Stored are the constraints already written into the document.
	Stored []layout.Constraint `json:"stored,omitempty"`

	// Dropped lists known positions whose entity is no longer declared.
	Dropped []string `json:"dropped,omitempty"`

	Diagnostics []diagram.Diagnostic `json:"diagnostics,omitempty"`
}

// Result contains the outputs of a layout-to-text run.
type Result struct {
	// Text is the patched document.
	Text string `json:"text"`

	// Changed reports whether Text differs from the input.
	Changed bool `json:"changed"`

	// Constraints is the synthesized, sorted constraint set.
	Constraints []layout.Constraint `json:"constraints"`

	// Entities are the entities found in the input.
	Entities []diagram.Entity `json:"entities"`

	// Warnings are structural problems found while patching.
	Warnings []patch.Warning `json:"warnings,omitempty"`

	// Diagnostics are extraction notes (unrecognized or duplicate lines).
	Diagnostics []diagram.Diagnostic `json:"diagnostics,omitempty"`

	// Stats contains synthesis counters and timings.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	layout.Stats
	ExtractTime    time.Duration `json:"extract_time"`
	SynthesizeTime time.Duration `json:"synthesize_time"`
	PatchTime      time.Duration `json:"patch_time"`
}

// CacheInfo tracks cache hits for the render stages.
type CacheInfo struct {
	RenderHit  bool // Whether all artifacts came from cache
	PreviewHit bool // Whether the preview came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := CheckOptions(*o); err != nil {
		return err
	}
	if o.Layout.MinGap == 0 {
		o.Layout.MinGap = layout.DefaultMinGap
	}
	o.Grid = o.Grid.WithDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for a server-rendered artifact.
func (o *Options) ArtifactKeyOpts(format, server string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Server: server}
}

// PreviewKeyOpts returns cache key options for a constraint preview.
func (o *Options) PreviewKeyOpts(format string) cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{Format: format, MinGap: o.Layout.MinGap}
}

// Source returns the PlantUML text the pipeline operates on: text itself,
// or the block extracted from it when FromAnswer is set.
func (o *Options) Source(text string) string {
	if !o.FromAnswer {
		return text
	}
	code, _ := diagram.ExtractCode(text)
	return code
}
