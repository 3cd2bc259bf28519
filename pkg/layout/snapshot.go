package layout

import (
	"encoding/json"
	"maps"
	"slices"
)

// Position is a point on the canvas, in pixels. X grows to the right and Y
// grows downward.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is an immutable point-in-time copy of entity positions.
//
// The zero value is an empty snapshot. Snapshots are safe for concurrent
// reads; every constructor copies its input so later changes to a canvas's
// own map cannot leak into a synthesis.
type Snapshot struct {
	pos map[string]Position
}

// NewSnapshot copies m into a new Snapshot.
func NewSnapshot(m map[string]Position) Snapshot {
	return Snapshot{pos: maps.Clone(m)}
}

// Position returns the position of id and whether it is known.
func (s Snapshot) Position(id string) (Position, bool) {
	p, ok := s.pos[id]
	return p, ok
}

// Len returns the number of positioned ids.
func (s Snapshot) Len() int { return len(s.pos) }

// IDs returns the positioned ids in lexical order.
func (s Snapshot) IDs() []string {
	return slices.Sorted(maps.Keys(s.pos))
}

// MarshalJSON encodes the snapshot as an object keyed by id.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.pos == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.pos)
}

// UnmarshalJSON decodes an object keyed by id.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var m map[string]Position
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	s.pos = m
	return nil
}
