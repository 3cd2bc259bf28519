package diagram

import (
	"regexp"
	"strings"
)

// fencedRe matches the first fenced code block, optionally tagged plantuml.
var fencedRe = regexp.MustCompile("(?s)```(?:plantuml|puml)?[ \\t]*\\r?\\n?(.*?)```")

const (
	startDirective = "@startuml"
	endDirective   = "@enduml"
)

// ExtractCode pulls a PlantUML document out of free-form text such as a
// chat answer. A fenced block wins; otherwise the @startuml..@enduml span is
// used. The second result is false when neither is present, in which case
// the input is returned trimmed so callers can still try it as a document.
func ExtractCode(text string) (string, bool) {
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		if code := strings.TrimSpace(m[1]); code != "" {
			return code, true
		}
	}

	start := strings.Index(text, startDirective)
	if start < 0 {
		return strings.TrimSpace(text), false
	}
	end := strings.Index(text[start:], endDirective)
	if end < 0 {
		return strings.TrimSpace(text), false
	}
	return text[start : start+end+len(endDirective)], true
}

// DefaultDocument is the sequence diagram new documents start from.
const DefaultDocument = `@startuml
skinparam monochrome true
skinparam shadowing false

actor 用户
participant "Diagram Service" as AI
participant "PlantUML Server" as Server

用户 -> AI : request (text/image)
activate AI
AI -> AI : analyse & generate
AI --> 用户 : PlantUML source
deactivate AI

用户 -> Server : render
activate Server
Server --> 用户 : SVG image
deactivate Server
@enduml
`
