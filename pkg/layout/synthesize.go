package layout

import (
	"math"

	"github.com/matzehuels/umlsync/pkg/dag"
	"github.com/matzehuels/umlsync/pkg/dag/transform"
	"github.com/matzehuels/umlsync/pkg/diagram"
)

// DefaultMinGap is the displacement, in pixels, below which two entities are
// considered aligned and no ordering is derived between them.
const DefaultMinGap = 10.0

// Options configures [Synthesize].
type Options struct {
	// MinGap is the dead-zone threshold in pixels. Zero or negative values
	// select DefaultMinGap.
	MinGap float64 `json:"min_gap" toml:"min_gap"`

	// KeepTransitive skips transitive reduction. The result is still
	// acyclic per axis but may contain implied constraints.
	KeepTransitive bool `json:"keep_transitive,omitempty" toml:"keep_transitive"`
}

func (o Options) minGap() float64 {
	if o.MinGap <= 0 {
		return DefaultMinGap
	}
	return o.MinGap
}

// Stats describes what a synthesis considered and discarded.
type Stats struct {
	Positioned      int `json:"positioned"`       // Entities with a known position
	Pairs           int `json:"pairs"`            // Unordered pairs examined
	Suppressed      int `json:"suppressed"`       // Pairs inside the dead zone
	CycleEdges      int `json:"cycle_edges"`      // Relations dropped to break cycles
	TransitiveEdges int `json:"transitive_edges"` // Relations implied by others
}

// Synthesis is the result of [Synthesize].
type Synthesis struct {
	Constraints []Constraint `json:"constraints"`
	Stats       Stats        `json:"stats"`
}

// Synthesize derives a minimal set of relative-ordering constraints that
// reproduces the arrangement of entities in s.
//
// Every unordered pair of positioned entities is classified by its dominant
// displacement: horizontal when |dx| > |dy| and |dx| > MinGap, vertical when
// |dy| >= |dx| and |dy| > MinGap, nothing otherwise. The sign of the
// displacement decides which entity comes first, so every relation is
// emitted as a [Before] constraint from the left or upper entity.
//
// Relations are collected in one graph per axis, weighted by their margin.
// Cycles are broken by dropping the smallest-margin relation of each cycle
// and implied relations are then removed by transitive reduction. The
// result is sorted with [Compare].
//
// Entities without a position in s are ignored. Synthesize is a pure
// function; it never fails.
func Synthesize(entities []diagram.Entity, s Snapshot, opts Options) Synthesis {
	var out Synthesis
	gap := opts.minGap()

	type placed struct {
		id  string
		pos Position
	}
	var nodes []placed
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		p, ok := s.Position(e.ID)
		if !ok || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		nodes = append(nodes, placed{e.ID, p})
	}
	out.Stats.Positioned = len(nodes)
	if len(nodes) < 2 {
		return out
	}

	axes := [...]*dag.DAG{Horizontal: dag.New(), Vertical: dag.New()}
	for _, g := range axes {
		for _, n := range nodes {
			_ = g.AddNode(dag.Node{ID: n.id})
		}
	}

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			out.Stats.Pairs++
			a, b := nodes[i], nodes[j]
			dx := b.pos.X - a.pos.X
			dy := b.pos.Y - a.pos.Y
			adx, ady := math.Abs(dx), math.Abs(dy)

			var axis Axis
			var d float64
			switch {
			case adx > ady && adx > gap:
				axis, d = Horizontal, dx
			case ady >= adx && ady > gap:
				axis, d = Vertical, dy
			default:
				out.Stats.Suppressed++
				continue
			}

			from, to := a.id, b.id
			if d < 0 {
				from, to = to, from
			}
			_ = axes[axis].AddEdge(dag.Edge{From: from, To: to, Weight: math.Abs(d)})
		}
	}

	for axis, g := range axes {
		r := transform.Minimize(g, transform.Options{SkipTransitiveReduction: opts.KeepTransitive})
		out.Stats.CycleEdges += len(r.CycleEdges)
		out.Stats.TransitiveEdges += len(r.TransitiveEdges)
		for _, e := range g.Edges() {
			out.Constraints = append(out.Constraints, Constraint{
				From:      e.From,
				To:        e.To,
				Axis:      Axis(axis),
				Direction: Before,
			})
		}
	}
	Sort(out.Constraints)
	return out
}
