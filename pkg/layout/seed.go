package layout

import "github.com/matzehuels/umlsync/pkg/diagram"

// Node is an entity placed on the canvas.
type Node struct {
	diagram.Entity
	Position
}

// GridOptions controls the initial placement of entities.
type GridOptions struct {
	Columns  int      `json:"columns" toml:"grid_columns"`
	SpacingX float64  `json:"spacing_x" toml:"grid_spacing_x"`
	SpacingY float64  `json:"spacing_y" toml:"grid_spacing_y"`
	// Origin is the position of the first entity. Nil means (50, 50); set
	// it explicitly to seed from another corner, (0, 0) included.
	Origin *Position `json:"origin,omitempty" toml:"grid_origin"`
}

// DefaultGridOptions places three entities per row, 250px apart horizontally
// and 150px vertically, starting at (50, 50).
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Columns:  3,
		SpacingX: 250,
		SpacingY: 150,
		Origin:   &Position{X: 50, Y: 50},
	}
}

// WithDefaults fills unset fields (zero or negative counts and spacings, a
// nil Origin) from [DefaultGridOptions].
func (o GridOptions) WithDefaults() GridOptions {
	d := DefaultGridOptions()
	if o.Origin == nil {
		o.Origin = d.Origin
	}
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.SpacingX <= 0 {
		o.SpacingX = d.SpacingX
	}
	if o.SpacingY <= 0 {
		o.SpacingY = d.SpacingY
	}
	return o
}

// Grid seeds a position for every entity in row-major order.
// Entity i goes to column i mod Columns and row i div Columns.
func Grid(entities []diagram.Entity, opts GridOptions) []Node {
	opts = opts.WithDefaults()
	nodes := make([]Node, len(entities))
	for i, e := range entities {
		col, row := i%opts.Columns, i/opts.Columns
		nodes[i] = Node{
			Entity: e,
			Position: Position{
				X: float64(col)*opts.SpacingX + opts.Origin.X,
				Y: float64(row)*opts.SpacingY + opts.Origin.Y,
			},
		}
	}
	return nodes
}

// SnapshotOf captures the positions of nodes.
func SnapshotOf(nodes []Node) Snapshot {
	m := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n.Position
	}
	return Snapshot{pos: m}
}

// Place returns the entities paired with their snapshot positions. Entities
// missing from s follow the positioned ones, at their own grid slot, so that
// a canvas can show everything the document declares.
func Place(entities []diagram.Entity, s Snapshot, opts GridOptions) []Node {
	nodes := make([]Node, 0, len(entities))
	var missing bool
	for _, e := range entities {
		if p, ok := s.Position(e.ID); ok {
			nodes = append(nodes, Node{Entity: e, Position: p})
			continue
		}
		missing = true
	}
	if !missing {
		return nodes
	}
	for _, n := range Grid(entities, opts) {
		if _, ok := s.Position(n.ID); !ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
