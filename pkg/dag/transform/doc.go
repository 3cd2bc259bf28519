// Package transform provides graph transformations that turn a dense set of
// pairwise ordering relations into a minimal, satisfiable one.
//
// # Overview
//
// Comparing every pair of entities on the canvas produces O(n²) relations
// per axis. Most of them are implied by others, and a relation set that
// contains a cycle cannot be honoured by any layout. This package provides
// the two steps that fix both problems; [Minimize] applies them in the
// correct order.
//
// # Cycle Breaking
//
// [BreakCycles] removes, for each cycle found, the edge with the smallest
// weight. Weights are geometric margins, so the least confident relation is
// dropped. The choice is deterministic.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant and removed. The
// result keeps the reachability of the input with the fewest edges, which
// keeps the generated hidden links few and readable.
package transform
