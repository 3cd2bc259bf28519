package transform

import "github.com/matzehuels/umlsync/pkg/dag"

// Result contains metrics about the transformations applied to an ordering
// graph by [Minimize].
type Result struct {
	// CycleEdges are the edges removed to make the graph acyclic.
	// Empty when the input was already acyclic.
	CycleEdges []dag.Edge

	// TransitiveEdges are the redundant edges removed by transitive
	// reduction.
	TransitiveEdges []dag.Edge
}

// Options configures which transformations are applied by [Minimize].
//
// The zero value applies all transformations.
type Options struct {
	// SkipTransitiveReduction keeps implied edges. The output is still
	// acyclic but no longer minimal.
	SkipTransitiveReduction bool
}

// Minimize turns a dense ordering graph into a minimal DAG: it breaks
// cycles by dropping the least confident edges, then removes every edge
// implied by a longer path.
func Minimize(g *dag.DAG, opts Options) Result {
	var r Result
	r.CycleEdges = BreakCycles(g)
	if !opts.SkipTransitiveReduction {
		r.TransitiveEdges = TransitiveReduction(g)
	}
	return r
}
