// Package tcassert implements fatal invariant checks for the contraction
// engine's internal machinery. A failed assertion indicates a bug in the
// engine itself (communicator misuse, a broken loop invariant), not a
// user error, so it is not returned as an error value; it panics and is
// expected to bring the process down.
package tcassert

import "fmt"

// Assert panics with a formatted message if cond is false. Call sites
// are internal invariants only; user-facing validation belongs in the
// driver's error taxonomy instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("tcontract: internal invariant violated: "+format, args...))
	}
}
