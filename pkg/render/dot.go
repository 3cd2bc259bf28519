package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/umlsync/pkg/layout"
)

// pointsPerPixel converts canvas pixels to Graphviz points.
const pointsPerPixel = 0.75

// Edge colours per axis.
const (
	horizontalColor = "#2563eb"
	verticalColor   = "#ea580c"
)

// Options configures DOT generation.
type Options struct {
	// Labels shows "kind: label" instead of the bare id.
	Labels bool

	// Title is drawn above the preview when set.
	Title string
}

// ToDOT converts positioned nodes and constraints to Graphviz DOT. Node
// positions are pinned; canvas Y grows downward, so it is negated.
// Constraints referencing unknown nodes are skipped.
func ToDOT(nodes []layout.Node, cs []layout.Constraint, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph umlsync {\n")
	b.WriteString("  bgcolor=\"transparent\";\n")
	b.WriteString("  splines=true;\n")
	if opts.Title != "" {
		fmt.Fprintf(&b, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=9, arrowsize=0.7];\n\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
		label := n.ID
		if opts.Labels {
			label = n.DisplayLabel()
		}
		fmt.Fprintf(&b, "  %q [label=%q, pos=\"%s,%s!\"];\n",
			n.ID, label, coord(n.X), coord(-n.Y))
	}

	b.WriteString("\n")
	for _, c := range cs {
		if !known[c.From] || !known[c.To] {
			continue
		}
		color := horizontalColor
		if c.Axis == layout.Vertical {
			color = verticalColor
		}
		fmt.Fprintf(&b, "  %q -> %q [color=%q, fontcolor=%q, label=%q];\n",
			c.From, c.To, color, color, c.Arrow())
	}
	b.WriteString("}\n")
	return b.String()
}

func coord(px float64) string {
	v := px * pointsPerPixel
	if v == 0 {
		v = 0 // no "-0.00"
	}
	return fmt.Sprintf("%.2f", v)
}
