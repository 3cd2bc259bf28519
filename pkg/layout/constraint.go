package layout

import (
	"cmp"
	"fmt"
	"slices"
)

// Axis is the canvas axis a constraint orders entities along.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// MarshalText encodes the axis by name.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes "horizontal" or "vertical".
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "horizontal":
		*a = Horizontal
	case "vertical":
		*a = Vertical
	default:
		return fmt.Errorf("unknown axis %q", b)
	}
	return nil
}

// Direction says whether From is placed before or after To on the axis.
// Before means left of (horizontal) or above (vertical).
type Direction uint8

const (
	Before Direction = iota
	After
)

func (d Direction) String() string {
	switch d {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes "before" or "after".
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "before":
		*d = Before
	case "after":
		*d = After
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Constraint is a relative-ordering relation between two entities.
type Constraint struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Axis      Axis      `json:"axis"`
	Direction Direction `json:"direction"`
}

// Arrow returns the hidden-link direction keyword for c.
func (c Constraint) Arrow() string {
	switch {
	case c.Axis == Horizontal && c.Direction == Before:
		return "right"
	case c.Axis == Horizontal:
		return "left"
	case c.Direction == Before:
		return "down"
	default:
		return "up"
	}
}

// Statement renders c as a PlantUML hidden link, e.g. "A -[hidden]right-> B".
func (c Constraint) Statement() string {
	return c.From + " -[hidden]" + c.Arrow() + "-> " + c.To
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s (%s)", c.From, c.Direction, c.To, c.Axis)
}

// Compare orders constraints by (From, To, Axis), the order they are
// written to a document in.
func Compare(a, b Constraint) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	if c := cmp.Compare(a.To, b.To); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Axis, b.Axis); c != 0 {
		return c
	}
	return cmp.Compare(a.Direction, b.Direction)
}

// Sort sorts cs in place with [Compare].
func Sort(cs []Constraint) {
	slices.SortFunc(cs, Compare)
}
