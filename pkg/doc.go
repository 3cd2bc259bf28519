// Package pkg provides the core libraries for umlsync.
//
// # Overview
//
// umlsync keeps two views of one diagram in sync: the PlantUML text and a
// canvas on which the diagram's entities are freely arranged. Moving entities
// on the canvas is translated into hidden layout links
// (A -[hidden]right-> B) written into a delimited region of the document, so
// the PlantUML renderer reproduces the arrangement. The pkg directory is
// organized into three areas:
//
//  1. Core - pure, side-effect-free text and layout logic
//  2. Infrastructure - caching, the PlantUML client, configuration
//  3. Surfaces - the pipeline and the HTTP and MCP servers built on it
//
// # Architecture
//
// The text-to-layout direction:
//
//	PlantUML document
//	         ↓
//	    [diagram] package (extract declared entities)
//	         ↓
//	    [layout] package (seed grid positions)
//	         ↓
//	    canvas snapshot
//
// The layout-to-text direction:
//
//	canvas snapshot
//	         ↓
//	    [layout] package (synthesize ordering constraints)
//	         ↓
//	    [dag] and [dag/transform] (break cycles, transitive reduction)
//	         ↓
//	    [patch] package (replace the constraint region)
//	         ↓
//	    patched PlantUML document
//
// # Quick Start
//
// Synthesize constraints from a snapshot and patch them into a document:
//
//	import (
//	    "github.com/matzehuels/umlsync/pkg/diagram"
//	    "github.com/matzehuels/umlsync/pkg/layout"
//	    "github.com/matzehuels/umlsync/pkg/patch"
//	)
//
//	entities := diagram.Entities(text)
//	snap := layout.NewSnapshot(map[string]layout.Position{
//	    "A": {X: 0, Y: 0},
//	    "B": {X: 200, Y: 0},
//	})
//	syn := layout.Synthesize(entities, snap, layout.Options{})
//	res := patch.Apply(text, syn.Constraints)
//	fmt.Print(res.Text)
//
// # Main Packages
//
// ## Core
//
// [diagram] - Entity extraction from PlantUML text and recovery of the
// PlantUML block from free-form text.
//
// [layout] - Positions, snapshots, grid seeding and constraint synthesis.
//
// [dag] - Insertion-ordered directed graph holding relations along one axis.
//
// [dag/transform] - Cycle breaking and transitive reduction.
//
// [patch] - Idempotent rewriting of the marked constraint region.
//
// ## Infrastructure
//
// [plantuml] - Hex URL encoding and an HTTP client for PlantUML servers.
//
// [render] - Graphviz previews of a canvas and its constraints.
//
// [cache] - Artifact caching with file, Redis and MongoDB backends.
//
// [config] - umlsync.toml discovery and validation.
//
// [errors] - Coded errors shared by the CLI, HTTP API and MCP tools.
//
// ## Surfaces
//
// [pipeline] - Orchestration (extract → synthesize → validate → patch, and
// rendering) used by the CLI, the HTTP API and the MCP server.
//
// [server] - JSON HTTP API.
//
// [mcpserver] - Model Context Protocol tools for assistants.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB cache tests run when UMLSYNC_TEST_REDIS or
// UMLSYNC_TEST_MONGO is set.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/diagram
// [layout]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/layout
// [dag]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/dag/transform
// [patch]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/patch
// [plantuml]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/plantuml
// [render]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/server
// [mcpserver]: https://pkg.go.dev/github.com/matzehuels/umlsync/pkg/mcpserver
package pkg
