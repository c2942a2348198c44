// Package jsast parses JavaScript source with tree-sitter and reduces the
// concrete tree to the small, closed set of node variants that page object
// tooling needs.
//
// # Node model
//
// Every value of type Node is one of:
//
//	*Declaration  a top-level const/let/var binding (optionally exported)
//	*Object       an object literal
//	*Field        a key/value or shorthand property of an object literal
//	*Method       a method shorthand property (including get/set/async/generator)
//	*Function     a function or arrow function expression
//	*Other        anything else, tagged with its tree-sitter node type
//
// The set is sealed by an unexported method, so a type switch over these six
// cases is exhaustive.
//
// # Error tolerance
//
// Parse mirrors go/parser: when the source contains syntax errors it still
// returns the partial Program together with an error marked ErrSyntax. Callers
// that only need imports from a buffer being edited can use the partial
// result; callers that need a well-formed declaration treat the error as fatal.
package jsast
