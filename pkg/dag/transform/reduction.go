package transform

import "github.com/matzehuels/umlsync/pkg/dag"

// TransitiveReduction removes redundant edges from the graph and returns the
// removed edges in insertion order.
//
// TransitiveReduction removes any edge (u, v) where there exists an alternate
// path from u to v through at least one intermediate node. For example, if
// A is left of B, B is left of C, and A is left of C, then "A left of C"
// adds nothing and is removed because A reaches C via B.
//
// The graph must be acyclic; call [BreakCycles] first. On a DAG the
// transitive reduction is unique, so the result does not depend on the order
// in which edges are examined.
//
// # Algorithm
//
// TransitiveReduction computes full transitive closure using DFS-based
// reachability, then removes any edge (u, v) where u can reach v through an
// intermediate node w (where u→w and w reaches v).
//
// # Nil Handling
//
// TransitiveReduction panics if g is nil. If g is empty (zero nodes), the
// function returns immediately.
//
// # Performance
//
// Time complexity is O(V·(V + E)) for the closure plus O(E·V) for the edge
// checks. Space complexity is O(V²) for the reachability matrix, which is
// negligible for diagram-sized graphs.
//
// # Edge Weights
//
// Edges that survive keep their weight.
func TransitiveReduction(g *dag.DAG) []dag.Edge {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	nodeIndex := dag.NodePosMap(nodes)
	adjacency := make([][]int, len(nodes))
	for i, n := range nodes {
		for _, child := range g.Children(n.ID) {
			adjacency[i] = append(adjacency[i], nodeIndex[child])
		}
	}

	reachability := computeReachability(adjacency)

	var removed []dag.Edge
	for _, e := range g.Edges() {
		src, dst := nodeIndex[e.From], nodeIndex[e.To]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachability[intermediate][dst] {
				g.RemoveEdge(e.From, e.To)
				removed = append(removed, e)
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
