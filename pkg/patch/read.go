package patch

import (
	"regexp"
	"strings"

	"github.com/matzehuels/umlsync/pkg/layout"
)

var statementRe = regexp.MustCompile(`^(\S+)\s+-\[hidden\](right|left|down|up)->\s+(\S+)$`)

var arrows = map[string]struct {
	axis layout.Axis
	dir  layout.Direction
}{
	"right": {layout.Horizontal, layout.Before},
	"left":  {layout.Horizontal, layout.After},
	"down":  {layout.Vertical, layout.Before},
	"up":    {layout.Vertical, layout.After},
}

// Read returns the constraints currently stored in the regions of text, in
// document order. Lines inside a region that are not hidden links are
// ignored.
func Read(text string) []layout.Constraint {
	doc := scan(text)
	var cs []layout.Constraint
	for _, r := range doc.regions {
		for _, line := range doc.lines[r.begin+1 : r.end] {
			m := statementRe.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			a := arrows[m[2]]
			cs = append(cs, layout.Constraint{From: m[1], To: m[3], Axis: a.axis, Direction: a.dir})
		}
	}
	return cs
}
