package layout

import (
	"encoding/json"
	"math/rand/v2"
	"reflect"
	"strconv"
	"testing"

	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/errors"
)

func classes(ids ...string) []diagram.Entity {
	out := make([]diagram.Entity, len(ids))
	for i, id := range ids {
		out[i] = diagram.Entity{ID: id, Label: id, Kind: diagram.KindClass}
	}
	return out
}

func TestSynthesizeDirection(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want []Constraint
	}{
		{"right", Position{0, 0}, Position{200, 0}, []Constraint{{"A", "B", Horizontal, Before}}},
		{"left", Position{200, 0}, Position{0, 0}, []Constraint{{"B", "A", Horizontal, Before}}},
		{"below", Position{0, 0}, Position{5, 100}, []Constraint{{"A", "B", Vertical, Before}}},
		{"above", Position{0, 100}, Position{5, 0}, []Constraint{{"B", "A", Vertical, Before}}},
		{"diagonal tie goes vertical", Position{0, 0}, Position{50, 50}, []Constraint{{"A", "B", Vertical, Before}}},
		{"dead zone", Position{0, 0}, Position{2, 1}, nil},
		{"exactly min gap", Position{0, 0}, Position{10, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshot(map[string]Position{"A": tt.a, "B": tt.b})
			got := Synthesize(classes("A", "B"), s, Options{MinGap: 10})
			if !reflect.DeepEqual(got.Constraints, tt.want) {
				t.Errorf("constraints = %v, want %v", got.Constraints, tt.want)
			}
		})
	}
}

func TestSynthesizeThreeNodeScenario(t *testing.T) {
	s := NewSnapshot(map[string]Position{
		"A": {0, 0},
		"B": {300, 0},
		"C": {150, 300},
	})
	got := Synthesize(classes("A", "B", "C"), s, Options{})

	want := []Constraint{
		{"A", "B", Horizontal, Before},
		{"A", "C", Vertical, Before},
		{"B", "C", Vertical, Before},
	}
	if !reflect.DeepEqual(got.Constraints, want) {
		t.Errorf("constraints = %v, want %v", got.Constraints, want)
	}
	if got.Stats.Pairs != 3 || got.Stats.Positioned != 3 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestSynthesizeTransitiveReduction(t *testing.T) {
	s := NewSnapshot(map[string]Position{
		"A": {0, 0},
		"B": {200, 0},
		"C": {400, 0},
	})
	got := Synthesize(classes("A", "B", "C"), s, Options{})
	want := []Constraint{
		{"A", "B", Horizontal, Before},
		{"B", "C", Horizontal, Before},
	}
	if !reflect.DeepEqual(got.Constraints, want) {
		t.Errorf("constraints = %v, want %v", got.Constraints, want)
	}
	if got.Stats.TransitiveEdges != 1 {
		t.Errorf("transitive edges = %d, want 1", got.Stats.TransitiveEdges)
	}

	full := Synthesize(classes("A", "B", "C"), s, Options{KeepTransitive: true})
	if len(full.Constraints) != 3 {
		t.Errorf("KeepTransitive: got %v, want 3 constraints", full.Constraints)
	}
}

func TestSynthesizeMissingPositions(t *testing.T) {
	s := NewSnapshot(map[string]Position{
		"A":     {0, 0},
		"C":     {300, 0},
		"Ghost": {600, 0},
	})
	got := Synthesize(classes("A", "B", "C"), s, Options{})
	want := []Constraint{{"A", "C", Horizontal, Before}}
	if !reflect.DeepEqual(got.Constraints, want) {
		t.Errorf("constraints = %v, want %v", got.Constraints, want)
	}
}

func TestSynthesizeDegenerate(t *testing.T) {
	one := NewSnapshot(map[string]Position{"A": {0, 0}})
	if got := Synthesize(classes("A"), one, Options{}); len(got.Constraints) != 0 {
		t.Errorf("singleton: %v", got.Constraints)
	}
	if got := Synthesize(nil, Snapshot{}, Options{}); len(got.Constraints) != 0 {
		t.Errorf("empty: %v", got.Constraints)
	}
}

func TestSynthesizeAcyclicAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 50 {
		n := 2 + rng.IntN(12)
		ids := make([]string, n)
		m := make(map[string]Position, n)
		for i := range ids {
			ids[i] = "E" + strconv.Itoa(i)
			m[ids[i]] = Position{X: rng.Float64() * 1000, Y: rng.Float64() * 800}
		}
		entities := classes(ids...)
		s := NewSnapshot(m)

		first := Synthesize(entities, s, Options{})
		if err := Validate(entities, first.Constraints); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		second := Synthesize(entities, s, Options{})
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round %d: synthesis not deterministic", round)
		}
		for i := 1; i < len(first.Constraints); i++ {
			if Compare(first.Constraints[i-1], first.Constraints[i]) >= 0 {
				t.Fatalf("round %d: constraints not strictly sorted: %v", round, first.Constraints)
			}
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	m := map[string]Position{"A": {1, 2}}
	s := NewSnapshot(m)
	m["A"] = Position{9, 9}
	m["B"] = Position{0, 0}

	if p, _ := s.Position("A"); p != (Position{1, 2}) {
		t.Errorf("snapshot changed with source map: %v", p)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := NewSnapshot(map[string]Position{"B": {3, 4}, "A": {1, 2}})
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"A":{"x":1,"y":2},"B":{"x":3,"y":4}}` {
		t.Errorf("json = %s", b)
	}
	var back Snapshot
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.IDs(), []string{"A", "B"}) {
		t.Errorf("ids = %v", back.IDs())
	}
}

func TestStatement(t *testing.T) {
	tests := []struct {
		c    Constraint
		want string
	}{
		{Constraint{"A", "B", Horizontal, Before}, "A -[hidden]right-> B"},
		{Constraint{"A", "B", Horizontal, After}, "A -[hidden]left-> B"},
		{Constraint{"A", "B", Vertical, Before}, "A -[hidden]down-> B"},
		{Constraint{"A", "B", Vertical, After}, "A -[hidden]up-> B"},
	}
	for _, tt := range tests {
		if got := tt.c.Statement(); got != tt.want {
			t.Errorf("%v.Statement() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestConstraintJSON(t *testing.T) {
	in := `{"from":"A","to":"B","axis":"vertical","direction":"after"}`
	var c Constraint
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatal(err)
	}
	if c != (Constraint{"A", "B", Vertical, After}) {
		t.Errorf("decoded %+v", c)
	}
	if err := json.Unmarshal([]byte(`{"axis":"diagonal"}`), &c); err == nil {
		t.Error("expected error for unknown axis")
	}
}

func TestGrid(t *testing.T) {
	nodes := Grid(classes("A", "B", "C", "D", "E"), GridOptions{})
	want := []Position{{50, 50}, {300, 50}, {550, 50}, {50, 200}, {300, 200}}
	for i, n := range nodes {
		if n.Position != want[i] {
			t.Errorf("node %s at %v, want %v", n.ID, n.Position, want[i])
		}
	}

	custom := Grid(classes("A", "B", "C"), GridOptions{Columns: 2, SpacingX: 100, SpacingY: 100, Origin: &Position{0, 0}})
	if custom[2].Position != (Position{0, 100}) {
		t.Errorf("custom grid: %v", custom[2].Position)
	}
}

func TestGridOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts GridOptions
		want Position // position of the fifth entity
	}{
		{"zero value", GridOptions{}, Position{300, 200}},
		{"columns only", GridOptions{Columns: 2}, Position{50, 350}},
		{"spacing without origin", GridOptions{SpacingX: 100, SpacingY: 10}, Position{150, 60}},
		{"explicit zero origin", GridOptions{Origin: &Position{}}, Position{250, 150}},
		{"custom origin", GridOptions{Origin: &Position{10, 20}}, Position{260, 170}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := Grid(classes("A", "B", "C", "D", "E"), tt.opts)
			if got := nodes[4].Position; got != tt.want {
				t.Errorf("E at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeSeededGrid(t *testing.T) {
	entities := classes("A", "B", "C", "D")
	s := SnapshotOf(Grid(entities, DefaultGridOptions()))
	got := Synthesize(entities, s, Options{})

	// D sits below A and left of B and C; D before C is implied through B.
	want := []Constraint{
		{"A", "B", Horizontal, Before},
		{"A", "D", Vertical, Before},
		{"B", "C", Horizontal, Before},
		{"D", "B", Horizontal, Before},
	}
	if !reflect.DeepEqual(got.Constraints, want) {
		t.Errorf("constraints = %v, want %v", got.Constraints, want)
	}
	if got.Stats.TransitiveEdges != 2 {
		t.Errorf("transitive edges = %d, want 2", got.Stats.TransitiveEdges)
	}
}

func TestPlace(t *testing.T) {
	entities := classes("A", "B", "C")
	s := NewSnapshot(map[string]Position{"B": {10, 20}})
	nodes := Place(entities, s, DefaultGridOptions())
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	if nodes[0].ID != "B" || nodes[0].Position != (Position{10, 20}) {
		t.Errorf("first node = %+v", nodes[0])
	}
	if nodes[1].ID != "A" || nodes[1].Position != (Position{50, 50}) {
		t.Errorf("second node = %+v", nodes[1])
	}
	if nodes[2].ID != "C" || nodes[2].Position != (Position{550, 50}) {
		t.Errorf("third node = %+v", nodes[2])
	}
}

func TestNodeJSON(t *testing.T) {
	n := Node{Entity: diagram.Entity{ID: "A", Label: "Alpha", Kind: diagram.KindActor}, Position: Position{1, 2}}
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"A","label":"Alpha","kind":"actor","x":1,"y":2}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestValidate(t *testing.T) {
	entities := classes("A", "B", "C")
	tests := []struct {
		name string
		cs   []Constraint
		ok   bool
	}{
		{"empty", nil, true},
		{"valid", []Constraint{{"A", "B", Horizontal, Before}, {"B", "C", Vertical, After}}, true},
		{"unknown", []Constraint{{"A", "Z", Horizontal, Before}}, false},
		{"self", []Constraint{{"A", "A", Vertical, Before}}, false},
		{"contradiction", []Constraint{{"A", "B", Horizontal, Before}, {"B", "A", Horizontal, Before}}, false},
		{"contradiction via after", []Constraint{{"A", "B", Vertical, Before}, {"A", "B", Vertical, After}}, false},
		{"transitive contradiction", []Constraint{
			{"A", "B", Horizontal, Before},
			{"B", "C", Horizontal, Before},
			{"C", "A", Horizontal, Before},
		}, false},
		{"different axes are independent", []Constraint{{"A", "B", Horizontal, Before}, {"B", "A", Vertical, Before}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(entities, tt.cs)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, errors.ErrCodeInvariant) {
					t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvariant)
				}
			}
		})
	}
}
