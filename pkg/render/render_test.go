package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
)

func sample() ([]layout.Node, []layout.Constraint) {
	nodes := []layout.Node{
		{Entity: diagram.Entity{ID: "A", Label: "Alpha", Kind: diagram.KindClass}, Position: layout.Position{X: 0, Y: 0}},
		{Entity: diagram.Entity{ID: "B", Label: "Beta", Kind: diagram.KindClass}, Position: layout.Position{X: 300, Y: 0}},
		{Entity: diagram.Entity{ID: "C", Label: "Gamma", Kind: diagram.KindActor}, Position: layout.Position{X: 150, Y: 300}},
	}
	cs := []layout.Constraint{
		{From: "A", To: "B", Axis: layout.Horizontal, Direction: layout.Before},
		{From: "A", To: "C", Axis: layout.Vertical, Direction: layout.Before},
		{From: "X", To: "C", Axis: layout.Vertical, Direction: layout.Before},
	}
	return nodes, cs
}

func TestToDOT(t *testing.T) {
	nodes, cs := sample()
	dot := ToDOT(nodes, cs, Options{})

	for _, want := range []string{
		"digraph umlsync {",
		`"A" [label="A", pos="0.00,0.00!"]`,
		`"B" [label="B", pos="225.00,0.00!"]`,
		`"C" [label="C", pos="112.50,-225.00!"]`,
		`"A" -> "B" [color="#2563eb", fontcolor="#2563eb", label="right"]`,
		`"A" -> "C" [color="#ea580c", fontcolor="#ea580c", label="down"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"X"`) {
		t.Error("constraint with unknown endpoint was drawn")
	}
}

func TestToDOTLabels(t *testing.T) {
	nodes, _ := sample()
	dot := ToDOT(nodes, nil, Options{Labels: true, Title: "orders"})
	if !strings.Contains(dot, `label="actor: Gamma"`) {
		t.Errorf("missing display label:\n%s", dot)
	}
	if !strings.Contains(dot, `label="orders";`) {
		t.Errorf("missing title:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	nodes, cs := sample()
	svg, err := Render(context.Background(), ToDOT(nodes, cs, Options{}), FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), "digraph{}", "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalized = %s", out)
	}
}
