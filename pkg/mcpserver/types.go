package mcpserver

// --- MCP Tool Input/Output Types ---
// The MCP SDK derives each tool's JSON schema from these structs, so they
// only use plain JSON types.

// Position is a canvas coordinate pair.
type Position struct {
	X float64 `json:"x" jsonschema:"horizontal position in pixels, growing to the right"`
	Y float64 `json:"y" jsonschema:"vertical position in pixels, growing downward"`
}

// Entity is a declared diagram participant.
type Entity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Node is an entity with its canvas position.
type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Note is an extraction diagnostic or a patch warning.
type Note struct {
	Line    int    `json:"line,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ExtractEntitiesInput is the input for the extract_entities tool.
type ExtractEntitiesInput struct {
	Text       string `json:"text" jsonschema:"PlantUML source text"`
	FromAnswer bool   `json:"fromAnswer,omitempty" jsonschema:"treat text as a free-form answer and use the PlantUML block inside it"`
}

// ExtractEntitiesOutput is the result of the extract_entities tool.
type ExtractEntitiesOutput struct {
	Entities    []Entity `json:"entities"`
	Diagnostics []Note   `json:"diagnostics,omitempty"`
}

// SeedLayoutInput is the input for the seed_layout tool.
type SeedLayoutInput struct {
	Text      string              `json:"text" jsonschema:"PlantUML source text"`
	Positions map[string]Position `json:"positions,omitempty" jsonschema:"known positions by entity id; entities without one get their default grid slot"`
}

// SeedLayoutOutput is the result of the seed_layout tool.
type SeedLayoutOutput struct {
	Nodes   []Node   `json:"nodes"`
	Stored  []string `json:"stored,omitempty" jsonschema:"hidden-link statements already written into the document"`
	Dropped []string `json:"dropped,omitempty" jsonschema:"positioned ids the document no longer declares"`
}

// ApplyLayoutInput is the input for the apply_layout tool.
type ApplyLayoutInput struct {
	Text       string              `json:"text" jsonschema:"PlantUML source text"`
	Positions  map[string]Position `json:"positions" jsonschema:"canvas positions by entity id"`
	MinGap     float64             `json:"minGap,omitempty" jsonschema:"displacement in pixels below which two entities count as aligned (default: 10)"`
	FromAnswer bool                `json:"fromAnswer,omitempty" jsonschema:"treat text as a free-form answer and use the PlantUML block inside it"`
}

// ApplyLayoutOutput is the result of the apply_layout tool.
type ApplyLayoutOutput struct {
	Text        string   `json:"text"`
	Changed     bool     `json:"changed"`
	Constraints []string `json:"constraints"`
	Warnings    []Note   `json:"warnings,omitempty"`
}

// DiagramURLInput is the input for the diagram_url tool.
type DiagramURLInput struct {
	Text   string `json:"text" jsonschema:"PlantUML source text"`
	Format string `json:"format,omitempty" jsonschema:"svg or png (default: svg)"`
}

// DiagramURLOutput is the result of the diagram_url tool.
type DiagramURLOutput struct {
	URL string `json:"url"`
}

// RenderDiagramInput is the input for the render_diagram tool.
type RenderDiagramInput struct {
	Text   string `json:"text" jsonschema:"PlantUML source text"`
	Format string `json:"format,omitempty" jsonschema:"svg or png (default: png)"`
}

// RenderDiagramOutput is the result of the render_diagram tool.
type RenderDiagramOutput struct {
	Format   string `json:"format"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
}
