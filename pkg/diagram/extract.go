package diagram

import (
	"regexp"
	"strings"
)

// ident matches a PlantUML identifier. Unicode letters are accepted so that
// declarations such as "actor 用户" are recognized.
const ident = `[\p{L}\p{N}_]+`

// boundary ends an identifier: end of input or any non-identifier character
// (stereotypes, colours, an opening brace, ...).
const boundary = `(?:$|[^\p{L}\p{N}_])`

// keywordRe recognizes a candidate declaration and splits it into keyword
// and remainder. The keyword must be followed by whitespace.
var keywordRe = regexp.MustCompile(`^\s*(?i:(class|actor|participant|usecase|component|interface|object))\s+(.*)$`)

// quotedRe strips quoted text before operator detection so that labels such
// as "a -> b" do not hide a declaration.
var quotedRe = regexp.MustCompile(`"[^"]*"`)

// operatorTokens are the relation and constraint tokens whose presence marks
// a line as a relation rather than a declaration.
var operatorTokens = []string{"--", "->", "<-", "..", ".>", "<.", "-["}

// declarationForm is one way of writing a declaration. Forms are tried in
// order; the first one that matches decides id and label.
type declarationForm struct {
	name    string
	re      *regexp.Regexp
	idGroup int
	lbGroup int // 0 when the label equals the id
}

var declarationForms = []declarationForm{
	{
		name:    `kind "Label" as id`,
		re:      regexp.MustCompile(`^"([^"]+)"\s+(?i:as)\s+(` + ident + `)` + boundary),
		idGroup: 2,
		lbGroup: 1,
	},
	{
		name:    `kind id as "Label"`,
		re:      regexp.MustCompile(`^(` + ident + `)\s+(?i:as)\s+"([^"]+)"`),
		idGroup: 1,
		lbGroup: 2,
	},
	{
		name:    `kind Label as id`,
		re:      regexp.MustCompile(`^(` + ident + `)\s+(?i:as)\s+(` + ident + `)` + boundary),
		idGroup: 2,
		lbGroup: 1,
	},
	{
		name:    `kind id`,
		re:      regexp.MustCompile(`^(` + ident + `)` + boundary),
		idGroup: 1,
	},
}

// Extraction is the result of scanning a document for declarations.
type Extraction struct {
	// Entities in first-seen order.
	Entities []Entity `json:"entities"`

	// Diagnostics for skipped or ignored declaration lines.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Extract scans text line by line and returns the declared entities.
//
// A line is a candidate declaration when, after leading whitespace, it starts
// with a kind keyword (case-insensitive) followed by whitespace, and contains
// no relation or hidden-link operator outside quoted text. Candidates are
// classified by the forms below, first match wins:
//
//	class "Label" as id
//	class id as "Label"
//	class Label as id
//	class id
//
// A candidate that matches no form is skipped with a warning diagnostic; a
// repeated id is ignored with an info diagnostic (the first declaration
// wins). Extract never fails and has no side effects.
func Extract(text string) Extraction {
	var out Extraction
	seen := make(map[string]bool)

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		kind, rest, ok := candidate(line)
		if !ok {
			continue
		}

		e, ok := classify(kind, strings.TrimRight(rest, " \t"))
		if !ok {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Line:     i + 1,
				Severity: SevWarning,
				Message:  "unrecognized " + string(kind) + " declaration",
				Text:     line,
			})
			continue
		}

		if seen[e.ID] {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Line:     i + 1,
				Severity: SevInfo,
				Message:  "duplicate declaration of " + e.ID + " ignored",
				Text:     line,
			})
			continue
		}
		seen[e.ID] = true
		out.Entities = append(out.Entities, e)
	}
	return out
}

// Entities is Extract without diagnostics.
func Entities(text string) []Entity {
	return Extract(text).Entities
}

// candidate reports whether line is a declaration candidate and returns its
// kind and the text after the keyword.
func candidate(line string) (Kind, string, bool) {
	m := keywordRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	if hasOperator(line) {
		return "", "", false
	}
	return ParseKind(m[1]), m[2], true
}

func hasOperator(line string) bool {
	bare := quotedRe.ReplaceAllString(line, `""`)
	for _, tok := range operatorTokens {
		if strings.Contains(bare, tok) {
			return true
		}
	}
	return false
}

func classify(kind Kind, rest string) (Entity, bool) {
	for _, f := range declarationForms {
		m := f.re.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		e := Entity{ID: m[f.idGroup], Kind: kind}
		e.Label = e.ID
		if f.lbGroup > 0 {
			e.Label = m[f.lbGroup]
		}
		return e, true
	}
	return Entity{}, false
}
