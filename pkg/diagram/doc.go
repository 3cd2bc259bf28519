// Package diagram recognizes the entities declared in PlantUML source text.
//
// Only declaration statements get structural recognition. Every other line
// (relations, notes, skinparams, directives) is treated as opaque text that
// other packages must preserve byte for byte.
//
// # Declarations
//
// A declaration starts with one of the [Kinds] keywords followed by
// whitespace and takes one of these forms, tried in order:
//
//	class "Customer Account" as Account
//	class Account as "Customer Account"
//	participant Server as S
//	actor User <<human>> #pink
//
// A line containing a relation or hidden-link operator (--, ->, <-, ..,
// -[, .>, <.) outside quoted text is never a declaration, even when it starts
// with a keyword.
//
// # Diagnostics
//
// [Extract] never fails. Lines that look like declarations but match no form
// are reported as warnings; repeated ids are reported as info and ignored,
// the first declaration wins.
package diagram
