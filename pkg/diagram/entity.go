package diagram

import "strings"

// Kind is the declaration keyword an entity was introduced with.
type Kind string

// Recognized entity kinds. KindUnknown is never produced by the extractor;
// it is what [ParseKind] returns for unrecognized input, e.g. entities that
// arrive from an API caller without a kind.
const (
	KindClass       Kind = "class"
	KindActor       Kind = "actor"
	KindParticipant Kind = "participant"
	KindUsecase     Kind = "usecase"
	KindComponent   Kind = "component"
	KindInterface   Kind = "interface"
	KindObject      Kind = "object"
	KindUnknown     Kind = "unknown"
)

// Kinds lists the declaration keywords the extractor recognizes, in the
// order they are documented.
var Kinds = []Kind{
	KindClass,
	KindActor,
	KindParticipant,
	KindUsecase,
	KindComponent,
	KindInterface,
	KindObject,
}

// ParseKind maps a keyword (case-insensitive) to its Kind.
// Unrecognized keywords map to KindUnknown.
func ParseKind(s string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k
		}
	}
	return KindUnknown
}

// String returns the keyword.
func (k Kind) String() string { return string(k) }

// Entity is a named diagram element declared in the source text.
type Entity struct {
	ID    string `json:"id"`    // Unique within a document
	Label string `json:"label"` // Display text; equals ID when not given separately
	Kind  Kind   `json:"kind"`
}

// DisplayLabel returns "kind: label", the caption the layout canvas shows.
func (e Entity) DisplayLabel() string {
	return string(e.Kind) + ": " + e.Label
}

// IDs returns the ids of the given entities in order.
func IDs(entities []Entity) []string {
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids
}
