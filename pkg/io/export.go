package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/umlsync/pkg/layout"
)

// File is the JSON document of a layout file.
type File struct {
	Nodes       []layout.Node       `json:"nodes"`
	Constraints []layout.Constraint `json:"constraints,omitempty"`
}

// WriteJSON encodes nodes and constraints as an indented layout file.
func WriteJSON(w io.Writer, nodes []layout.Node, cs []layout.Constraint) error {
	if nodes == nil {
		nodes = []layout.Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(File{Nodes: nodes, Constraints: cs}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout file to path.
func ExportJSON(path string, nodes []layout.Node, cs []layout.Constraint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, nodes, cs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
