package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/umlsync/pkg/dag"
)

// BreakCycles removes edges from the graph until it is a valid directed
// acyclic graph (DAG), and returns the removed edges in removal order.
//
// # Algorithm
//
// BreakCycles repeatedly asks [dag.DAG.FindCycle] for a cycle and removes the
// edge on it with the smallest [dag.Edge.Weight]. In umlsync the weight is
// the pixel margin that produced the ordering relation, so the relation the
// canvas expressed least clearly is the one sacrificed. Ties are broken by
// (From, To) so that the result does not depend on map iteration.
//
// Every iteration removes at least one edge, so the loop terminates after at
// most E iterations.
//
// # Edge Selection
//
// Removing the weakest edge of each discovered cycle is a greedy heuristic.
// It does not guarantee a minimum-weight feedback arc set across overlapping
// cycles; it guarantees a deterministic, acyclic result.
//
// # Nil Handling
//
// BreakCycles panics if g is nil. If g is empty (zero nodes), it returns nil.
//
// # Performance
//
// Time complexity is O(E·(V + E)) in the worst case. Ordering graphs derived
// from a single canvas snapshot are acyclic by construction, in which case a
// single O(V + E) search is performed.
func BreakCycles(g *dag.DAG) []dag.Edge {
	var removed []dag.Edge
	for {
		cycle := g.FindCycle()
		if len(cycle) == 0 {
			return removed
		}
		weakest := slices.MinFunc(cycle, compareConfidence)
		g.RemoveEdge(weakest.From, weakest.To)
		removed = append(removed, weakest)
	}
}

// compareConfidence orders edges by ascending weight, then by endpoints.
func compareConfidence(a, b dag.Edge) int {
	if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
		return c
	}
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}
