// Package plantuml talks to a PlantUML server: it builds diagram URLs and
// fetches rendered images.
//
// Documents are sent in the server's "~h" hex encoding (the UTF-8 bytes of
// the source as lowercase hex). It is longer than the deflate encoding but
// needs no compression and is accepted by every server version.
package plantuml

import (
	"encoding/hex"
	"strings"

	"github.com/matzehuels/umlsync/pkg/errors"
)

// DefaultServer is the public PlantUML server.
const DefaultServer = "https://www.plantuml.com/plantuml"

// Format is an image type the server can produce.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Formats lists the supported formats.
var Formats = []Format{SVG, PNG}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case SVG, PNG:
		return f, nil
	case "":
		return SVG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be svg or png)", s)
}

// ContentType returns the MIME type of images in format f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// EncodeHex returns text in the server's hex encoding, "~h" followed by the
// lowercase hex of its UTF-8 bytes.
func EncodeHex(text string) string {
	return "~h" + hex.EncodeToString([]byte(text))
}

// DiagramURL returns the URL rendering text as format on server. Blank text
// yields an empty URL; an empty server selects DefaultServer.
func DiagramURL(server string, text string, format Format) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if server == "" {
		server = DefaultServer
	}
	if format == "" {
		format = SVG
	}
	return strings.TrimRight(server, "/") + "/" + string(format) + "/" + EncodeHex(text)
}
