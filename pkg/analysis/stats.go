package analysis

import (
	"fmt"
	"time"
)

// Stats describes one coalescing pass.
type Stats struct {
	// Equivalence pass
	Constraints int // Constraints dispatched
	Narrowings  int // Domain narrowings recorded against a variable
	Unions      int // Unions that merged two distinct classes
	TempVars    int // Temporary variables created

	// Merged classes of more than one variable
	IntClasses    int
	SetClasses    int
	StringClasses int

	// Substitution sizes
	RenamedInts    int
	RenamedSets    int
	RenamedStrings int

	Duration time.Duration // Wall time of the whole pass
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"constraints=%d narrowings=%d unions=%d temps=%d classes(int=%d set=%d string=%d) renamed(int=%d set=%d string=%d) in %v",
		s.Constraints, s.Narrowings, s.Unions, s.TempVars,
		s.IntClasses, s.SetClasses, s.StringClasses,
		s.RenamedInts, s.RenamedSets, s.RenamedStrings, s.Duration)
}
