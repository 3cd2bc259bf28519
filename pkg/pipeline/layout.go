package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/observability"
	"github.com/matzehuels/umlsync/pkg/patch"
)

// =============================================================================
// Text to Layout
// =============================================================================

// SeedLayout places entities on the canvas. Entities with a position in
// known keep it; the rest get their grid slot. Pass an empty snapshot to
// reset the canvas to the default grid.
func SeedLayout(entities []diagram.Entity, known layout.Snapshot, opts Options) []layout.Node {
	if known.Len() == 0 {
		return layout.Grid(entities, opts.Grid)
	}
	return layout.Place(entities, known, opts.Grid)
}

// StoredConstraints returns the constraints the layout region of text
// already holds, as written by an earlier apply.
func StoredConstraints(text string) []layout.Constraint {
	return patch.Read(text)
}

// StalePositions returns the ids positioned in known that entities no
// longer declares, in lexical order.
func StalePositions(known layout.Snapshot, entities []diagram.Entity) []string {
	declared := diagram.IDs(entities)
	var stale []string
	for _, id := range known.IDs() {
		if !slices.Contains(declared, id) {
			stale = append(stale, id)
		}
	}
	return stale
}

// =============================================================================
// Layout to Text
// =============================================================================

// GenerateConstraints synthesizes and validates the constraint set for
// entities at the positions in snap.
//
// A validation failure means the synthesizer broke one of its own
// guarantees; it is returned as an errors.ErrCodeInvariant error and the
// document must not be patched.
func GenerateConstraints(ctx context.Context, entities []diagram.Entity, snap layout.Snapshot, opts Options) (layout.Synthesis, time.Duration, error) {
	start := time.Now()
	syn := layout.Synthesize(entities, snap, opts.Layout)
	elapsed := time.Since(start)
	observability.Pipeline().OnSynthesize(ctx, syn.Stats.Positioned, len(syn.Constraints), elapsed)

	if err := layout.Validate(entities, syn.Constraints); err != nil {
		return layout.Synthesis{}, elapsed, err
	}

	if opts.Logger != nil {
		if syn.Stats.CycleEdges > 0 {
			opts.Logger.Warn("dropped contradictory relations", "count", syn.Stats.CycleEdges)
		}
		opts.Logger.Debug("synthesized constraints",
			"positioned", syn.Stats.Positioned,
			"constraints", len(syn.Constraints),
			"suppressed", syn.Stats.Suppressed,
			"transitive", syn.Stats.TransitiveEdges)
	}
	return syn, elapsed, nil
}

// PatchDocument writes cs into text.
func PatchDocument(ctx context.Context, text string, cs []layout.Constraint, opts Options) (patch.Result, time.Duration) {
	start := time.Now()
	res := patch.Apply(text, cs)
	elapsed := time.Since(start)
	observability.Pipeline().OnPatch(ctx, len(res.Warnings), res.Changed)

	if opts.Logger != nil {
		for _, w := range res.Warnings {
			opts.Logger.Warn(w.Message, "code", w.Code, "line", w.Line)
		}
	}
	return res, elapsed
}
