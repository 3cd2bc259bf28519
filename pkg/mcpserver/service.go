package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/patch"
	"github.com/matzehuels/umlsync/pkg/pipeline"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

// Service implements the MCP tools on top of a pipeline runner.
type Service struct {
	runner *pipeline.Runner
	base   pipeline.Options
}

// NewService creates a service. base carries the configured defaults.
func NewService(runner *pipeline.Runner, base pipeline.Options) *Service {
	return &Service{runner: runner, base: base}
}

// ExtractEntities lists the entities declared in a document.
func (s *Service) ExtractEntities(_ context.Context, _ *mcp.CallToolRequest, in ExtractEntitiesInput) (*mcp.CallToolResult, ExtractEntitiesOutput, error) {
	if err := errors.ValidateDocument(in.Text); err != nil {
		return nil, ExtractEntitiesOutput{}, err
	}
	text := in.Text
	if in.FromAnswer {
		text, _ = diagram.ExtractCode(text)
	}
	ex := diagram.Extract(text)

	out := ExtractEntitiesOutput{Entities: make([]Entity, len(ex.Entities))}
	for i, e := range ex.Entities {
		out.Entities[i] = Entity{ID: e.ID, Label: e.Label, Kind: string(e.Kind)}
	}
	for _, d := range ex.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Note{Line: d.Line, Kind: d.Severity.String(), Message: d.Message})
	}
	return nil, out, nil
}

// SeedLayout returns canvas positions for every entity of a document.
func (s *Service) SeedLayout(ctx context.Context, _ *mcp.CallToolRequest, in SeedLayoutInput) (*mcp.CallToolResult, SeedLayoutOutput, error) {
	if err := errors.ValidateDocument(in.Text); err != nil {
		return nil, SeedLayoutOutput{}, err
	}
	snap, err := snapshot(in.Positions)
	if err != nil {
		return nil, SeedLayoutOutput{}, err
	}
	seed, err := s.runner.Reseed(ctx, in.Text, snap, s.base)
	if err != nil {
		return nil, SeedLayoutOutput{}, err
	}

	out := SeedLayoutOutput{Nodes: make([]Node, len(seed.Nodes)), Dropped: seed.Dropped}
	for i, n := range seed.Nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, Kind: string(n.Kind), X: n.X, Y: n.Y}
	}
	for _, c := range seed.Stored {
		out.Stored = append(out.Stored, c.Statement())
	}
	return nil, out, nil
}

// ApplyLayout writes the ordering implied by positions into a document.
func (s *Service) ApplyLayout(ctx context.Context, _ *mcp.CallToolRequest, in ApplyLayoutInput) (*mcp.CallToolResult, ApplyLayoutOutput, error) {
	if err := errors.ValidateDocument(in.Text); err != nil {
		return nil, ApplyLayoutOutput{}, err
	}
	snap, err := snapshot(in.Positions)
	if err != nil {
		return nil, ApplyLayoutOutput{}, err
	}
	opts := s.base
	opts.FromAnswer = in.FromAnswer
	if in.MinGap != 0 {
		opts.Layout.MinGap = in.MinGap
	}

	res, err := s.runner.ApplyLayout(ctx, in.Text, snap, opts)
	if err != nil {
		return nil, ApplyLayoutOutput{}, err
	}

	out := ApplyLayoutOutput{
		Text:        res.Text,
		Changed:     res.Changed,
		Constraints: make([]string, len(res.Constraints)),
	}
	for i, c := range res.Constraints {
		out.Constraints[i] = c.Statement()
	}
	out.Warnings = notes(res.Warnings)
	return nil, out, nil
}

// DiagramURL returns the PlantUML server URL that renders a document.
func (s *Service) DiagramURL(_ context.Context, _ *mcp.CallToolRequest, in DiagramURLInput) (*mcp.CallToolResult, DiagramURLOutput, error) {
	if err := errors.ValidateDocument(in.Text); err != nil {
		return nil, DiagramURLOutput{}, err
	}
	url, err := s.runner.URL(in.Text, in.Format, s.base)
	if err != nil {
		return nil, DiagramURLOutput{}, err
	}
	return nil, DiagramURLOutput{URL: url}, nil
}

// RenderDiagram renders a document on the PlantUML server and returns the
// image as tool content, so a vision-capable client can review it.
func (s *Service) RenderDiagram(ctx context.Context, _ *mcp.CallToolRequest, in RenderDiagramInput) (*mcp.CallToolResult, RenderDiagramOutput, error) {
	if err := errors.ValidateDocument(in.Text); err != nil {
		return nil, RenderDiagramOutput{}, err
	}
	format := plantuml.PNG
	if in.Format != "" {
		f, err := plantuml.ParseFormat(in.Format)
		if err != nil {
			return nil, RenderDiagramOutput{}, err
		}
		format = f
	}

	opts := s.base
	opts.Formats = []string{string(format)}
	artifacts, err := s.runner.Render(ctx, in.Text, opts)
	if err != nil {
		return nil, RenderDiagramOutput{}, err
	}
	data := artifacts[string(format)]

	var content mcp.Content
	if format == plantuml.PNG {
		content = &mcp.ImageContent{Data: data, MIMEType: format.ContentType()}
	} else {
		content = &mcp.TextContent{Text: string(data)}
	}
	out := RenderDiagramOutput{Format: string(format), MIMEType: format.ContentType(), Size: len(data)}
	return &mcp.CallToolResult{Content: []mcp.Content{content}}, out, nil
}

func snapshot(positions map[string]Position) (layout.Snapshot, error) {
	m := make(map[string]layout.Position, len(positions))
	for id, p := range positions {
		m[id] = layout.Position{X: p.X, Y: p.Y}
	}
	return pipeline.SnapshotFromPositions(m)
}

func notes(warnings []patch.Warning) []Note {
	var out []Note
	for _, w := range warnings {
		out = append(out, Note{Line: w.Line, Kind: string(w.Code), Message: w.Message})
	}
	return out
}
