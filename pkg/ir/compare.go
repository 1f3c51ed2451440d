package ir

// Ordering is the statically known relation between two values.
type Ordering int

const (
	UNKNOWN Ordering = iota
	EQ
	LT
	LE
	GT
	GE
)

func (o Ordering) String() string {
	switch o {
	case EQ:
		return "EQ"
	case LT:
		return "LT"
	case LE:
		return "LE"
	case GT:
		return "GT"
	case GE:
		return "GE"
	}
	return "UNKNOWN"
}

// Order returns the relation between a and b that holds in every
// assignment, or UNKNOWN. An expression always equals itself.
func Order(a, b IntExpr) Ordering {
	if a == b {
		return EQ
	}
	da, db := a.Domain(), b.Domain()
	switch {
	case da.IsConstant() && db.IsConstant() && da.Low() == db.Low():
		return EQ
	case da.High() < db.Low():
		return LT
	case da.High() <= db.Low():
		return LE
	case da.Low() > db.High():
		return GT
	case da.Low() >= db.High():
		return GE
	}
	return UNKNOWN
}

// OrderStrings lexicographically compares the character arrays a and b
// from position from onwards. The shorter array is padded with the
// terminator.
func OrderStrings(a, b []IntExpr, from int) Ordering {
	n := max(len(a), len(b))
	for i := from; i < n; i++ {
		ai, bi := charAt(a, i), charAt(b, i)
		switch ord := Order(ai, bi); ord {
		case EQ:
			continue
		case LT, GT, UNKNOWN:
			return ord
		case LE:
			switch OrderStrings(a, b, i+1) {
			case EQ, LE:
				return LE
			case LT:
				return LT
			}
			return UNKNOWN
		case GE:
			switch OrderStrings(a, b, i+1) {
			case EQ, GE:
				return GE
			case GT:
				return GT
			}
			return UNKNOWN
		}
	}
	return EQ
}

func charAt(s []IntExpr, i int) IntExpr {
	if i < len(s) {
		return s[i]
	}
	return Zero
}
