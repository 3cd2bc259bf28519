// Package patch folds layout constraints back into PlantUML source text.
//
// Constraints live in a single generated region delimited by two comment
// lines:
//
//	' umlsync:layout:begin
//	A -[hidden]right-> B
//	A -[hidden]down-> C
//	' umlsync:layout:end
//
// [Apply] replaces that region wholesale and never touches any other line,
// so hand-written relations, notes and formatting survive every round trip.
// Problems with the region structure (missing closing directive, stray
// markers) are reported as [Warning] values rather than errors.
package patch
