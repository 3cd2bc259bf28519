package errors

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MaxDocumentSize bounds the size of diagram text accepted over the network
// surfaces (HTTP API, MCP tools). The CLI reads local files without a limit.
const MaxDocumentSize = 1 << 20

// MaxEntityIDLength bounds a single entity identifier in a positions payload.
const MaxEntityIDLength = 256

// ValidateDocument checks diagram text received from an untrusted caller.
//
// The validation rules are intentionally conservative:
//   - No empty documents
//   - Valid UTF-8 only
//   - No NUL bytes
//   - At most MaxDocumentSize bytes
//
// Structural problems inside the text (malformed declarations, a missing
// @enduml) are not validation failures; the core recovers from those.
func ValidateDocument(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidDocument, "document cannot be empty")
	}
	if len(text) > MaxDocumentSize {
		return New(ErrCodeInvalidDocument, "document too large (max %d bytes)", MaxDocumentSize)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidDocument, "document is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidDocument, "document contains NUL bytes")
	}
	return nil
}

// ValidatePosition checks a single canvas coordinate pair for an entity.
// Coordinates must be finite; the id must be non-empty and reasonably short.
func ValidatePosition(id string, x, y float64) error {
	if id == "" {
		return New(ErrCodeInvalidPositions, "entity id cannot be empty")
	}
	if len(id) > MaxEntityIDLength {
		return New(ErrCodeInvalidPositions, "entity id too long (max %d characters)", MaxEntityIDLength)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return New(ErrCodeInvalidPositions, "position for %q is not finite", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
