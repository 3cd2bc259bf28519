// Package io reads and writes layout files: the JSON form of a canvas.
//
// # Format
//
// A layout file lists placed entities and, optionally, the constraints last
// synthesized from them:
//
//	{
//	  "nodes": [
//	    {"id": "A", "label": "A", "kind": "class", "x": 50, "y": 50},
//	    {"id": "B", "label": "B", "kind": "class", "x": 300, "y": 50}
//	  ],
//	  "constraints": [
//	    {"from": "A", "to": "B", "axis": "horizontal", "direction": "before"}
//	  ]
//	}
//
// `umlsync seed` writes this form from a document; users (or other tools)
// move the nodes and feed the file back to `umlsync apply`. Only id, x and y
// are needed on input. Constraints are informational and ignored on read.
//
// A bare position map is accepted as well:
//
//	{"A": {"x": 50, "y": 50}, "B": {"x": 300, "y": 50}}
package io
