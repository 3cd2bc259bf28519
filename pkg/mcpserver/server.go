// Package mcpserver exposes the umlsync pipeline as Model Context Protocol
// tools, so an AI assistant can read a diagram's entities, propose a
// layout and write it back into the PlantUML source.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/umlsync/pkg/buildinfo"
)

// Tool names.
const (
	ToolExtractEntities = "extract_entities"
	ToolSeedLayout      = "seed_layout"
	ToolApplyLayout     = "apply_layout"
	ToolDiagramURL      = "diagram_url"
	ToolRenderDiagram   = "render_diagram"
)

// New creates an MCP server with all tools registered.
func New(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "umlsync",
		Version: buildinfo.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolExtractEntities,
		Description: "List the entities (actors, classes, participants, components, ...) declared in a PlantUML document, with their ids, labels and kinds.",
	}, svc.ExtractEntities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSeedLayout,
		Description: "Return a canvas position for every entity of a PlantUML document. Known positions are kept; the rest are placed on a grid.",
	}, svc.SeedLayout)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolApplyLayout,
		Description: "Write the relative arrangement of entities at the given canvas positions into the PlantUML document as hidden layout links. Returns the updated document.",
	}, svc.ApplyLayout)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDiagramURL,
		Description: "Build the PlantUML server URL that renders a document as SVG or PNG.",
	}, svc.DiagramURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolRenderDiagram,
		Description: "Render a PlantUML document on the PlantUML server and return the image, for visual review.",
	}, svc.RenderDiagram)

	return server
}

// RunStdio serves the tools over stdin/stdout until ctx is canceled or the
// client disconnects.
func RunStdio(ctx context.Context, svc *Service) error {
	return New(svc).Run(ctx, &mcp.StdioTransport{})
}

// Handler returns a streamable HTTP handler serving the tools.
func Handler(svc *Service) http.Handler {
	server := New(svc)
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}
