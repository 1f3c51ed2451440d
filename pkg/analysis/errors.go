package analysis

import (
	"errors"
	"fmt"

	"github.com/gitrdm/gokanir/pkg/ir"
)

// ErrUnsatisfiable is matched by every error reporting that a module has no
// solutions.
var ErrUnsatisfiable = errors.New("model is unsatisfiable")

// UnsatisfiableError reports the constraint being processed when a domain
// became empty. Constraint is nil when the contradiction surfaced while
// merging equivalence classes.
type UnsatisfiableError struct {
	Reason     string
	Constraint ir.BoolExpr
}

func (e *UnsatisfiableError) Error() string {
	if e.Constraint == nil {
		return fmt.Sprintf("%v: %s", ErrUnsatisfiable, e.Reason)
	}
	return fmt.Sprintf("%v: %s (in %v)", ErrUnsatisfiable, e.Reason, e.Constraint)
}

// Is makes errors.Is(err, ErrUnsatisfiable) hold.
func (e *UnsatisfiableError) Is(target error) bool {
	return target == ErrUnsatisfiable
}

// unsat unwinds the pass. It never escapes the package.
type unsat struct {
	reason string
}

func fail(format string, args ...any) {
	panic(unsat{reason: fmt.Sprintf(format, args...)})
}

func failIf(cond bool, format string, args ...any) {
	if cond {
		fail(format, args...)
	}
}

// catch converts an unsat panic into an UnsatisfiableError stored in *err.
// Any other panic is re-raised.
func catch(err *error, constraint *ir.BoolExpr) {
	r := recover()
	if r == nil {
		return
	}
	u, ok := r.(unsat)
	if !ok {
		panic(r)
	}
	e := &UnsatisfiableError{Reason: u.reason}
	if constraint != nil {
		e.Constraint = *constraint
	}
	*err = e
}
