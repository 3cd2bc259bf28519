package diagram

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for lines the extractor had to skip.
	SevWarning
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic describes a line the extractor could not use as-is. Diagnostics
// never abort extraction.
type Diagnostic struct {
	Line     int      `json:"line"` // 1-based
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Text     string   `json:"text"` // The offending line, without line terminator
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Severity, d.Message)
}

// MarshalText lets Severity serialize as its name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a severity name produced by MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "info":
		*s = SevInfo
	case "warning":
		*s = SevWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}
