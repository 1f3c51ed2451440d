// Package analysis finds IR variables that every solution forces equal and
// merges them.
//
// A Coalescer makes one sweep over a module's constraints. Each constraint
// kind has an inference rule that either records an equality between two
// variables of the same sort or narrows the domain of a subexpression,
// introducing temporary variables for the narrowed shapes. The equalities
// are kept in three union-find structures, one per sort. Once the sweep is
// done, every class of size two or more becomes one canonical variable and
// the module is rewritten over the canonical variables:
//
//	x := ir.Int("x", domain.Bound(0, 5))
//	y := ir.Int("y", domain.Bound(3, 10))
//	res, err := analysis.Coalesce(ir.NewModule(ir.Equal(x, y)))
//	// res.Ints maps both x and y to (x;y) over [3, 5].
//
// The sweep is not a fixpoint: a narrowing found by a later constraint is
// not fed back into the rules of earlier ones. Running the pass again on
// its own output may therefore find more.
//
// Contradictions are reported as *UnsatisfiableError, which matches
// ErrUnsatisfiable with errors.Is. No partial result is returned.
//
// Set GOKANIR_TRACE=1 to log every dispatched constraint at debug level.
package analysis
