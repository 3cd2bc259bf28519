// Package dag provides the directed graph that holds relative-ordering
// relations between diagram entities along one layout axis.
//
// # Overview
//
// When the user arranges entities on the canvas, every pair of entities that
// is clearly separated along an axis yields an "A is before B" relation on
// that axis. Those relations form a directed graph per axis; the graph must
// be acyclic for the resulting PlantUML hidden links to be satisfiable.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and weighted
// edges with [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "A"})
//	g.AddNode(dag.Node{ID: "B"})
//	g.AddEdge(dag.Edge{From: "A", To: "B", Weight: 300})
//
// Query the graph with [DAG.Children], [DAG.Edges] and [DAG.HasEdge].
// [DAG.Validate] reports dangling edges and cycles;
// [DAG.FindCycle] returns the edges of a cycle so it can be broken.
//
// # Determinism
//
// Nodes, edges and adjacency lists keep insertion order. Callers that insert
// in a stable order (umlsync inserts entities in declaration order) get
// byte-identical results from every algorithm in this package and in
// [github.com/matzehuels/umlsync/pkg/dag/transform].
//
// # Edge Weights
//
// [Edge.Weight] carries the pixel margin behind a relation. It is the
// confidence signal used when contradictory relations have to be dropped.
package dag
