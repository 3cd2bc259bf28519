package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/plantuml"
	"github.com/matzehuels/umlsync/pkg/render"
)

// RenderDiagram fetches text from the PlantUML server in every requested
// format. Formats are fetched concurrently.
func RenderDiagram(ctx context.Context, client *plantuml.Client, text string, formats []string) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	for _, format := range formats {
		g.Go(func() error {
			f, err := plantuml.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := client.Fetch(ctx, text, f)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderPreview draws nodes and the constraints between them with
// Graphviz, keeping every node at its canvas position.
func RenderPreview(ctx context.Context, nodes []layout.Node, cs []layout.Constraint, format string) ([]byte, error) {
	dot := render.ToDOT(nodes, cs, render.Options{Labels: true})
	data, err := render.Render(ctx, dot, format)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", format, err)
	}
	return data, nil
}
