package patch

import "strings"

// span is a complete region: line indexes of its begin and end markers.
type span struct{ begin, end int }

// document is text split into lines with the region structure located.
type document struct {
	lines    []string // each line with its terminator; the last may have none
	eol      string
	regions  []span
	drop     []bool // lines removed before the new region is written
	closing  int    // index of the last closing directive outside regions, or -1
	warnings []Warning
}

func scan(text string) *document {
	d := &document{
		lines:   strings.SplitAfter(text, "\n"),
		eol:     lineEnding(text),
		closing: -1,
	}
	if n := len(d.lines); n > 0 && d.lines[n-1] == "" {
		d.lines = d.lines[:n-1]
	}
	d.drop = make([]bool, len(d.lines))

	open := -1
	for i, line := range d.lines {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			if open >= 0 {
				d.unterminated(open)
			}
			open = i
		case EndMarker:
			if open < 0 {
				d.drop[i] = true
				d.warnings = append(d.warnings, Warning{
					Code:    WarnOrphanEndMarker,
					Line:    i + 1,
					Message: "end marker without begin marker removed",
				})
				continue
			}
			d.regions = append(d.regions, span{open, i})
			for j := open; j <= i; j++ {
				d.drop[j] = true
			}
			open = -1
		}
	}
	if open >= 0 {
		d.unterminated(open)
	}

	if len(d.regions) > 1 {
		d.warnings = append(d.warnings, Warning{
			Code:    WarnDuplicateRegion,
			Line:    d.regions[1].begin + 1,
			Message: "additional constraint region merged into the first",
		})
	}

	for i, line := range d.lines {
		if !d.drop[i] && isClosingDirective(line) {
			d.closing = i
		}
	}
	return d
}

func (d *document) unterminated(i int) {
	d.drop[i] = true
	d.warnings = append(d.warnings, Warning{
		Code:    WarnUnterminatedRegion,
		Line:    i + 1,
		Message: "begin marker without end marker removed",
	})
}

// isClosingDirective matches @enduml, @endmindmap, @endgantt and friends.
func isClosingDirective(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(s, "@end") && len(s) > len("@end")
}

// lineEnding returns the terminator of the first line, defaulting to "\n".
func lineEnding(text string) string {
	i := strings.IndexByte(text, '\n')
	if i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
