// Package layout turns canvas positions into relative-ordering constraints.
//
// PlantUML computes its own layout and has no notion of absolute
// coordinates. What it does honour are hidden links such as
//
//	A -[hidden]right-> B
//
// which nudge B to the right of A without drawing anything. This package
// derives the smallest set of such relations that reproduces an arrangement
// the user made on a canvas.
//
// # Snapshots
//
// A [Snapshot] is an immutable copy of id→[Position]. Canvases keep their
// own mutable state and hand a snapshot to [Synthesize]; nothing in this
// package holds on to caller maps.
//
// # Synthesis
//
// [Synthesize] classifies every pair of positioned entities by its dominant
// displacement and keeps one ordering graph per axis. Each graph is made
// acyclic by dropping the relation with the smallest pixel margin on every
// cycle, then reduced transitively, so "A before B" and "B before C" never
// come with a redundant "A before C".
//
// # Seeding
//
// [Grid] assigns default positions to freshly extracted entities: three per
// row, 250px apart horizontally and 150px vertically.
//
// # Validation
//
// [Validate] checks constraints produced elsewhere (API callers, stored
// documents) against an entity set before they are written to a document.
package layout
