// Package render draws a local preview of a layout: entities pinned at
// their canvas positions, with the synthesized ordering constraints drawn
// as arrows between them.
//
// The preview is independent of any PlantUML server. It shows what the
// synthesizer understood from the canvas, which is useful when the server's
// own layout does not match expectations.
//
//	dot := render.ToDOT(nodes, constraints, render.Options{})
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// Rendering uses Graphviz (via go-graphviz, no system installation needed)
// with the neato engine, so every node stays exactly where the canvas put
// it.
package render
