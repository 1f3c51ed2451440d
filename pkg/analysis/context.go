package analysis

import (
	"log/slog"

	"github.com/gitrdm/gokanir/internal/disjoint"
	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// pass is the state of one coalescing call. Temporary ids are unique within
// a pass only, so concurrent passes never share anything.
type pass struct {
	log     *slog.Logger
	ints    *disjoint.Sets[*ir.IntVar]
	sets    *disjoint.Sets[*ir.SetVar]
	strings *disjoint.Sets[*ir.StringVar]
	nextID  int
	stats   Stats
}

func newPass(log *slog.Logger) *pass {
	return &pass{
		log:     log,
		ints:    disjoint.New[*ir.IntVar](),
		sets:    disjoint.New[*ir.SetVar](),
		strings: disjoint.New[*ir.StringVar](),
	}
}

func (p *pass) unionInt(a, b *ir.IntVar) {
	if p.ints.Union(a, b) {
		p.stats.Unions++
	}
}

func (p *pass) unionSet(a, b *ir.SetVar) {
	if p.sets.Union(a, b) {
		p.stats.Unions++
	}
}

func (p *pass) unionString(a, b *ir.StringVar) {
	if p.strings.Union(a, b) {
		p.stats.Unions++
	}
}

func (p *pass) id() int {
	id := p.nextID
	p.nextID++
	p.stats.TempVars++
	return id
}

// tint returns a temporary over d and fails if d is empty.
func (p *pass) tint(d domain.Domain) *ir.IntVar {
	failIf(d.IsEmpty(), "empty integer domain")
	v, err := ir.NewTempIntVar(p.id(), d)
	if err != nil {
		fail("%v", err)
	}
	return v
}

func (p *pass) tbound(low, high int) *ir.IntVar {
	failIf(low > high, "empty range [%d, %d]", low, high)
	return p.tint(domain.Bound(low, high))
}

func (p *pass) tset(env, ker, card domain.Domain) *ir.SetVar {
	failIf(!ker.IsSubsetOf(env), "kernel %v is not within envelope %v", ker, env)
	card = card.BoundBetween(ker.Size(), env.Size())
	failIf(card.IsEmpty(), "no cardinality between %d and %d", ker.Size(), env.Size())
	s, err := ir.NewTempSetVar(p.id(), env, ker, p.tint(card))
	if err != nil {
		fail("%v", err)
	}
	return s
}

func (p *pass) tstring(chars []*ir.IntVar, length *ir.IntVar) *ir.StringVar {
	s, err := ir.NewTempStringVar(p.id(), chars, length)
	if err != nil {
		fail("%v", err)
	}
	return s
}

// tstringOf is a temporary string over chars whose length is unconstrained.
func (p *pass) tstringOf(chars []*ir.IntVar) *ir.StringVar {
	return p.tstring(chars, p.tbound(0, len(chars)))
}

func (p *pass) boundLowLength(s *ir.StringVar, low int) *ir.StringVar {
	if low <= s.Length().Low() {
		return s
	}
	length := s.Length().BoundLow(low)
	failIf(length.IsEmpty(), "string length %v cannot reach %d", s.Length(), low)
	return p.tstring(s.CharVars(), p.tint(length))
}

func (p *pass) boundHighLength(s *ir.StringVar, high int) *ir.StringVar {
	if high >= s.Length().High() {
		return s
	}
	length := s.Length().BoundHigh(high)
	failIf(length.IsEmpty(), "string length %v cannot stay within %d", s.Length(), high)
	return p.tstring(s.CharVars(), p.tint(length))
}

// restricts reports whether the temporary t carries information about v
// that v does not already have.
func restricts(t, v *ir.StringVar) bool {
	tc, vc := t.Chars(), v.Chars()
	for i := range min(len(tc), len(vc)) {
		if !vc[i].IsSubsetOf(tc[i]) {
			return true
		}
	}
	return !v.Length().IsSubsetOf(t.Length())
}

// charVars returns the character variables of e, materializing temporaries
// for a non-variable expression.
func (p *pass) charVars(e ir.StringExpr) []*ir.IntVar {
	if s, ok := e.(*ir.StringVar); ok {
		return s.CharVars()
	}
	domains := e.Chars()
	vars := make([]*ir.IntVar, len(domains))
	for i, d := range domains {
		vars[i] = p.tint(d)
	}
	return vars
}

func (p *pass) charAt(e ir.StringExpr, i int) *ir.IntVar {
	if s, ok := e.(*ir.StringVar); ok {
		return s.CharVars()[i]
	}
	return p.tint(e.Chars()[i])
}

func (p *pass) asStringVar(e ir.StringExpr) *ir.StringVar {
	if s, ok := e.(*ir.StringVar); ok {
		return s
	}
	chars := p.charVars(e)
	return p.tstring(chars, p.tint(e.Length().BoundBetween(0, len(chars))))
}
