package layout

import (
	"github.com/matzehuels/umlsync/pkg/dag"
	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/errors"
)

// Validate checks that every constraint references declared entities, that
// no constraint relates an entity to itself, and that the set contains no
// contradiction on either axis. After constraints count as the reversed
// Before relation.
//
// A violation is a programming error in whatever produced the constraints;
// it is reported with [errors.ErrCodeInvariant].
func Validate(entities []diagram.Entity, cs []Constraint) error {
	axes := [...]*dag.DAG{Horizontal: dag.New(), Vertical: dag.New()}
	for _, e := range entities {
		for _, g := range axes {
			_ = g.AddNode(dag.Node{ID: e.ID})
		}
	}

	for _, c := range cs {
		if c.Axis > Vertical || c.Direction > After {
			return errors.New(errors.ErrCodeInvariant, "constraint %s: invalid axis or direction", c)
		}
		g := axes[c.Axis]
		if _, ok := g.Node(c.From); !ok {
			return errors.New(errors.ErrCodeInvariant, "constraint %s: unknown entity %q", c, c.From)
		}
		if _, ok := g.Node(c.To); !ok {
			return errors.New(errors.ErrCodeInvariant, "constraint %s: unknown entity %q", c, c.To)
		}
		if c.From == c.To {
			return errors.New(errors.ErrCodeInvariant, "constraint %s: entity ordered against itself", c)
		}
		from, to := c.From, c.To
		if c.Direction == After {
			from, to = to, from
		}
		if err := g.AddEdge(dag.Edge{From: from, To: to}); err != nil && err != dag.ErrDuplicateEdge {
			return errors.Wrap(errors.ErrCodeInvariant, err, "constraint %s", c)
		}
	}

	for axis, g := range axes {
		if cycle := g.FindCycle(); cycle != nil {
			return errors.New(errors.ErrCodeInvariant, "contradictory %s constraints between %s and %s",
				Axis(axis), cycle[0].From, cycle[0].To)
		}
	}
	return nil
}
