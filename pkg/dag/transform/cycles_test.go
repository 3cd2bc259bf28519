package transform

import (
	"testing"

	"github.com/matzehuels/umlsync/pkg/dag"
)

func newGraph(ids ...string) *dag.DAG {
	g := dag.New()
	for _, id := range ids {
		_ = g.AddNode(dag.Node{ID: id})
	}
	return g
}

func TestBreakCycles_NoCycles(t *testing.T) {
	g := newGraph("a", "b", "c")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 10})
	g.AddEdge(dag.Edge{From: "b", To: "c", Weight: 10})

	removed := BreakCycles(g)

	if len(removed) != 0 {
		t.Errorf("BreakCycles() removed %d edges, want 0", len(removed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	g := newGraph("a", "b")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 40})
	g.AddEdge(dag.Edge{From: "b", To: "a", Weight: 15})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Fatalf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if removed[0].From != "b" || removed[0].To != "a" {
		t.Errorf("removed %s→%s, want the weaker b→a", removed[0].From, removed[0].To)
	}
	if !g.HasEdge("a", "b") {
		t.Error("stronger edge a→b should survive")
	}
}

func TestBreakCycles_TriangleDropsWeakest(t *testing.T) {
	g := newGraph("a", "b", "c")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 300})
	g.AddEdge(dag.Edge{From: "b", To: "c", Weight: 20})
	g.AddEdge(dag.Edge{From: "c", To: "a", Weight: 150})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Fatalf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if removed[0].From != "b" || removed[0].To != "c" {
		t.Errorf("removed %s→%s, want b→c", removed[0].From, removed[0].To)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_TieBreaksByEndpoints(t *testing.T) {
	g := newGraph("c", "b", "a")
	g.AddEdge(dag.Edge{From: "c", To: "b", Weight: 50})
	g.AddEdge(dag.Edge{From: "b", To: "a", Weight: 50})
	g.AddEdge(dag.Edge{From: "a", To: "c", Weight: 50})

	removed := BreakCycles(g)

	if len(removed) != 1 || removed[0].From != "a" || removed[0].To != "c" {
		t.Errorf("BreakCycles() removed %v, want [a→c]", removed)
	}
}

func TestBreakCycles_MultipleCycles(t *testing.T) {
	// Two separate cycles: a↔b and c↔d
	g := newGraph("a", "b", "c", "d")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 1})
	g.AddEdge(dag.Edge{From: "b", To: "a", Weight: 2})
	g.AddEdge(dag.Edge{From: "c", To: "d", Weight: 2})
	g.AddEdge(dag.Edge{From: "d", To: "c", Weight: 1})

	removed := BreakCycles(g)

	if len(removed) != 2 {
		t.Errorf("BreakCycles() removed %d edges, want 2", len(removed))
	}
	if !g.HasEdge("b", "a") || !g.HasEdge("c", "d") {
		t.Error("stronger edges of each cycle should survive")
	}
}

func TestBreakCycles_SelfLoop(t *testing.T) {
	g := newGraph("a")
	g.AddEdge(dag.Edge{From: "a", To: "a"})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Errorf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestBreakCycles_OverlappingCycles(t *testing.T) {
	// a→b→c→a and a→b→d→a share a→b.
	g := newGraph("a", "b", "c", "d")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 5})
	g.AddEdge(dag.Edge{From: "b", To: "c", Weight: 50})
	g.AddEdge(dag.Edge{From: "c", To: "a", Weight: 50})
	g.AddEdge(dag.Edge{From: "b", To: "d", Weight: 50})
	g.AddEdge(dag.Edge{From: "d", To: "a", Weight: 50})

	removed := BreakCycles(g)

	if len(removed) != 1 || removed[0].From != "a" || removed[0].To != "b" {
		t.Errorf("BreakCycles() removed %v, want only the shared weak edge a→b", removed)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after BreakCycles = %v", err)
	}
}

func TestTransitiveReduction(t *testing.T) {
	tests := []struct {
		name        string
		edges       [][2]string
		wantRemoved int
		wantEdges   int
	}{
		{"chain with shortcut", [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}}, 1, 2},
		{"diamond with shortcut", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"}}, 1, 4},
		{"total order of four", [][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}}, 3, 3},
		{"independent fan-in", [][2]string{{"a", "c"}, {"b", "c"}}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph("a", "b", "c", "d")
			for _, e := range tt.edges {
				g.AddEdge(dag.Edge{From: e[0], To: e[1]})
			}

			removed := TransitiveReduction(g)

			if len(removed) != tt.wantRemoved {
				t.Errorf("TransitiveReduction() removed %d edges, want %d", len(removed), tt.wantRemoved)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
		})
	}
}

func TestTransitiveReduction_Empty(t *testing.T) {
	if removed := TransitiveReduction(dag.New()); removed != nil {
		t.Errorf("TransitiveReduction(empty) = %v, want nil", removed)
	}
}

func TestMinimize(t *testing.T) {
	g := newGraph("a", "b", "c")
	g.AddEdge(dag.Edge{From: "a", To: "b", Weight: 100})
	g.AddEdge(dag.Edge{From: "b", To: "c", Weight: 100})
	g.AddEdge(dag.Edge{From: "a", To: "c", Weight: 200})
	g.AddEdge(dag.Edge{From: "c", To: "a", Weight: 10})

	r := Minimize(g, Options{})

	if len(r.CycleEdges) != 1 {
		t.Errorf("CycleEdges = %v, want 1 edge", r.CycleEdges)
	}
	if len(r.TransitiveEdges) != 1 {
		t.Errorf("TransitiveEdges = %v, want 1 edge", r.TransitiveEdges)
	}
	if g.EdgeCount() != 2 || !g.HasEdge("a", "b") || !g.HasEdge("b", "c") {
		t.Errorf("Minimize() left edges %v, want a→b and b→c", g.Edges())
	}
}
