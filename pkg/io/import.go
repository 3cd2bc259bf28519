package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
)

// ReadJSON decodes a layout file from r and returns its positions as a
// snapshot, together with the nodes as written (nil for a bare position
// map).
//
// ReadJSON fails with ErrCodeInvalidPositions when the JSON is malformed,
// a node has an empty or overlong id, or an id appears twice.
func ReadJSON(r io.Reader) (layout.Snapshot, []layout.Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return layout.Snapshot{}, nil, fmt.Errorf("read: %w", err)
	}

	if isDocument(raw) {
		var doc File
		if err := json.Unmarshal(raw, &doc); err != nil {
			return layout.Snapshot{}, nil, errors.Wrap(errors.ErrCodeInvalidPositions, err, "decode layout file")
		}
		m := make(map[string]layout.Position, len(doc.Nodes))
		for _, n := range doc.Nodes {
			if err := errors.ValidatePosition(n.ID, n.X, n.Y); err != nil {
				return layout.Snapshot{}, nil, err
			}
			if _, dup := m[n.ID]; dup {
				return layout.Snapshot{}, nil, errors.New(errors.ErrCodeInvalidPositions, "node %q listed twice", n.ID)
			}
			m[n.ID] = n.Position
		}
		return layout.NewSnapshot(m), doc.Nodes, nil
	}

	var m map[string]layout.Position
	if err := json.Unmarshal(raw, &m); err != nil {
		return layout.Snapshot{}, nil, errors.Wrap(errors.ErrCodeInvalidPositions, err, "decode position map")
	}
	for id, p := range m {
		if err := errors.ValidatePosition(id, p.X, p.Y); err != nil {
			return layout.Snapshot{}, nil, err
		}
	}
	return layout.NewSnapshot(m), nil, nil
}

// ImportJSON reads the layout file at path. See [ReadJSON].
func ImportJSON(path string) (layout.Snapshot, []layout.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Snapshot{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return layout.Snapshot{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// isDocument reports whether raw is the object form with a "nodes" array
// rather than a bare position map.
func isDocument(raw []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	nodes, ok := fields["nodes"]
	return ok && bytes.HasPrefix(bytes.TrimSpace(nodes), []byte("["))
}
