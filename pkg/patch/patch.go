package patch

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/umlsync/pkg/layout"
)

// Sentinel comment lines delimiting the generated constraint region.
// PlantUML treats lines starting with a single quote as comments.
const (
	BeginMarker = "' umlsync:layout:begin"
	EndMarker   = "' umlsync:layout:end"
)

// WarningCode identifies a structural problem found while patching.
type WarningCode string

const (
	// WarnMissingClosingDirective: the document has no @end… line, so the
	// region was appended at the end of the text.
	WarnMissingClosingDirective WarningCode = "missing_closing_directive"

	// WarnUnterminatedRegion: a begin marker without a matching end marker.
	// The marker line was dropped; the lines after it were kept as body.
	WarnUnterminatedRegion WarningCode = "unterminated_region"

	// WarnOrphanEndMarker: an end marker without a preceding begin marker.
	// The marker line was dropped.
	WarnOrphanEndMarker WarningCode = "orphan_end_marker"

	// WarnDuplicateRegion: more than one complete region was found. All of
	// them were replaced by a single region at the position of the first.
	WarnDuplicateRegion WarningCode = "duplicate_region"
)

// Warning is a non-fatal structural problem. Line is 1-based and refers to
// the input text; it is zero when the warning concerns the whole document.
type Warning struct {
	Code    WarningCode `json:"code"`
	Line    int         `json:"line,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return w.Message + " (line " + strconv.Itoa(w.Line) + ")"
	}
	return w.Message
}

// Result is the outcome of [Apply].
type Result struct {
	Text     string    `json:"text"`
	Warnings []Warning `json:"warnings,omitempty"`
	Changed  bool      `json:"changed"`
}

// HasWarning reports whether r carries a warning with the given code.
func (r Result) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Apply writes cs into text as a constraint region and returns the new text.
//
// Any existing region is removed and the new one takes the place of the
// first. Without an existing region the new one goes directly before the
// last closing directive (@enduml or any other @end… line); a document with
// no closing directive gets the region appended and a
// [WarnMissingClosingDirective] warning. An empty cs writes no region.
//
// Every line outside the region is copied unchanged and in order. Region
// lines use the document's line ending, so CRLF documents stay CRLF. Apply
// is idempotent: patching its own output with the same constraints returns
// the same text.
//
// cs is treated as a set: constraints are written sorted by [layout.Compare]
// and duplicates are written once, so the order of cs never shows in the
// output.
func Apply(text string, cs []layout.Constraint) Result {
	doc := scan(text)
	var out Result
	out.Warnings = doc.warnings

	insertAt := -1
	switch {
	case len(doc.regions) > 0:
		insertAt = doc.regions[0].begin
	case doc.closing >= 0:
		insertAt = doc.closing
	}
	if doc.closing < 0 {
		out.Warnings = append(out.Warnings, Warning{
			Code:    WarnMissingClosingDirective,
			Message: "document has no closing directive",
		})
	}

	var region string
	if len(cs) > 0 {
		region = render(normalize(cs), doc.eol)
	}

	var b strings.Builder
	b.Grow(len(text) + len(region))
	for i, line := range doc.lines {
		if i == insertAt {
			b.WriteString(region)
		}
		if doc.drop[i] {
			continue
		}
		b.WriteString(line)
	}
	if insertAt < 0 && region != "" {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteString(doc.eol)
		}
		b.WriteString(region)
	}

	out.Text = b.String()
	out.Changed = out.Text != text
	return out
}

// normalize returns a sorted copy of cs without duplicates.
func normalize(cs []layout.Constraint) []layout.Constraint {
	out := slices.Clone(cs)
	layout.Sort(out)
	return slices.Compact(out)
}

func render(cs []layout.Constraint, eol string) string {
	var b strings.Builder
	b.WriteString(BeginMarker)
	b.WriteString(eol)
	for _, c := range cs {
		b.WriteString(c.Statement())
		b.WriteString(eol)
	}
	b.WriteString(EndMarker)
	b.WriteString(eol)
	return b.String()
}
