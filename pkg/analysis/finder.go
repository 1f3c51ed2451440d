package analysis

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/gokanir/internal/disjoint"
	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// findEquivalences runs the single sweep over the constraints. Each
// constraint is handled on its own; a narrowing derived from one constraint
// is not fed back into rules of earlier ones.
func (p *pass) findEquivalences(constraints []ir.BoolExpr, current *ir.BoolExpr) {
	for _, c := range constraints {
		*current = c
		p.stats.Constraints++
		p.log.Debug("dispatch", "constraint", c)
		p.visit(c)
	}
	*current = nil
}

// visit applies the inference rule of a constraint that must hold.
func (p *pass) visit(c ir.BoolExpr) {
	switch c := c.(type) {
	case ir.BoolVar:
		p.propagateInt(domain.TrueDomain, c)
	case *ir.Not:
		p.propagateInt(domain.FalseDomain, c.Operand())
	case *ir.And:
		for _, o := range c.Operands() {
			p.visit(o)
		}
	case *ir.Or:
		p.visitOr(c)
	case *ir.Implies:
		if ir.IsTrue(c.Antecedent()) {
			p.visit(c.Consequent())
		} else if ir.IsFalse(c.Consequent()) {
			p.propagateInt(domain.FalseDomain, c.Antecedent())
		}
	case *ir.IfOnlyIf:
		p.equalInt(c.Left(), c.Right())
	case *ir.Within:
		p.propagateInt(c.Range(), c.Value())
	case *ir.Compare:
		switch c.Op() {
		case ir.OpEqual:
			p.equalInt(c.Left(), c.Right())
		case ir.OpNotEqual:
			p.notEqualInt(c.Left(), c.Right())
		case ir.OpLessThan:
			p.lessThan(c.Left(), c.Right())
		case ir.OpLessThanEqual:
			p.lessThanEqual(c.Left(), c.Right())
		}
	case *ir.ArrayEquality:
		if c.Op() == ir.OpEqual {
			p.equalArrays(c.Left(), c.Right())
		}
	case *ir.SetEquality:
		if c.Op() == ir.OpEqual {
			p.equalSets(c.Left(), c.Right())
		}
	case *ir.StringCompare:
		p.visitStringCompare(c)
	case *ir.Member:
		p.visitMember(c)
	case *ir.NotMember:
		p.visitNotMember(c)
	case *ir.SubsetEq:
		sub, sup := c.Subset(), c.Superset()
		subCard := sub.Card().BoundHigh(sup.Card().High())
		supCard := sup.Card().BoundLow(sub.Card().Low())
		supEnv, subKer := sup.Env(), sub.Ker()
		p.propagateSet(newPartialSet(&supEnv, nil, &subCard), sub)
		p.propagateSet(newPartialSet(nil, &subKer, &supCard), sup)
	case *ir.BoolChannel:
		p.visitBoolChannel(c)
	case *ir.IntChannel:
		p.visitIntChannel(c)
	case *ir.SortStrings:
		strs := c.Strings()
		for i := 0; i+1 < len(strs); i++ {
			if c.IsStrict() {
				p.lessThanString(strs[i], strs[i+1], 0)
			} else {
				p.lessThanEqualString(strs[i], strs[i+1], 0)
			}
		}
	case *ir.SortSets:
		p.visitSortSets(c)
	case *ir.SortStringsChannel:
		p.visitSortStringsChannel(c)
	case *ir.AllDifferent:
		ops := c.Operands()
		for i := range ops {
			for j := i + 1; j < len(ops); j++ {
				p.notEqualInt(ops[i], ops[j])
			}
		}
	case *ir.SelectN:
		p.visitSelectN(c)
	case *ir.Prefix:
		p.propagatePrefix(c.Prefix(), c.Word())
	case *ir.Suffix:
		p.propagateSuffix(c.Suffix(), c.Word())
	default:
		panic(fmt.Sprintf("analysis: unhandled constraint %T", c))
	}
}

// visitOr forces the only operand of a disjunction that is not statically
// false.
func (p *pass) visitOr(c *ir.Or) {
	var open []ir.BoolExpr
	for _, o := range c.Operands() {
		if !ir.IsFalse(o) {
			open = append(open, o)
		}
	}
	failIf(len(open) == 0, "every disjunct is false")
	if len(open) == 1 {
		p.visit(open[0])
	}
}

func (p *pass) equalSets(left, right ir.SetExpr) {
	l, lok := left.(*ir.SetVar)
	r, rok := right.(*ir.SetVar)
	if lok && rok {
		p.unionSet(l, r)
		return
	}
	le, lk, lc := left.Env(), left.Ker(), left.Card()
	re, rk, rc := right.Env(), right.Ker(), right.Card()
	p.propagateSet(newPartialSet(&le, &lk, &lc), right)
	p.propagateSet(newPartialSet(&re, &rk, &rc), left)
}

func (p *pass) visitMember(c *ir.Member) {
	element, set := c.Element(), c.Set()
	p.propagateInt(set.Env(), element)
	if v, ok := ir.ConstantValue(element); ok {
		ker := set.Ker().Insert(v)
		card := set.Card().BoundLow(ker.Size())
		p.propagateSet(newPartialSet(nil, &ker, &card), set)
	} else {
		p.propagateCard(set.Card().BoundLow(1), set)
	}
}

func (p *pass) visitNotMember(c *ir.NotMember) {
	element, set := c.Element(), c.Set()
	p.propagateInt(element.Domain().Difference(set.Ker()), element)
	if v, ok := ir.ConstantValue(element); ok && set.Env().Contains(v) {
		p.propagateEnv(set.Env().Remove(v), set)
	}
}

func (p *pass) visitBoolChannel(c *ir.BoolChannel) {
	bools, set := c.Bools(), c.Set()
	env, ker := set.Env(), set.Ker()
	var trueIdx []int
	for i, b := range bools {
		if ir.IsTrue(b) {
			trueIdx = append(trueIdx, i)
		}
	}
	trues := domain.Enum(trueIdx...)
	notFalse := env.RemoveAll(func(i int) bool {
		return i < 0 || i >= len(bools) || ir.IsFalse(bools[i])
	})
	for i, b := range bools {
		v, ok := b.(ir.BoolVar)
		if !ok || v.IsConstant() {
			continue
		}
		if !env.Contains(i) {
			p.unionInt(v.Var(), ir.False.Var())
		} else if ker.Contains(i) {
			p.unionInt(v.Var(), ir.True.Var())
		}
	}
	p.propagateSet(newPartialSet(&notFalse, &trues, nil), set)
}

func (p *pass) visitIntChannel(c *ir.IntChannel) {
	ints, sets := c.Ints(), c.Sets()
	for i, e := range ints {
		var owners []int
		for j, s := range sets {
			if s.Env().Contains(i) {
				owners = append(owners, j)
			}
		}
		p.propagateInt(domain.Enum(owners...), e)
	}

	var kers domain.Domain
	lows, highs := 0, 0
	for _, s := range sets {
		kers = kers.Union(s.Ker())
		lows += s.Card().Low()
		highs += s.Card().High()
	}
	n := len(ints)
	for j, s := range sets {
		var members, fixed []int
		for i, e := range ints {
			if d := e.Domain(); d.Contains(j) {
				members = append(members, i)
				if d.IsConstant() {
					fixed = append(fixed, i)
				}
			}
		}
		env := domain.Enum(members...).Difference(kers).Union(s.Ker())
		ker := domain.Enum(fixed...)
		card := span(n-highs+s.Card().High(), n-lows+s.Card().Low())
		p.propagateSet(newPartialSet(&env, &ker, &card), s)
	}
}

func isZero(d domain.Domain) bool {
	return d.IsConstant() && d.Low() == 0
}

// visitSortSets derives the boundaries between consecutive sets: set i
// covers [boundary[i], boundary[i+1]).
func (p *pass) visitSortSets(c *ir.SortSets) {
	sets, bounds := c.Sets(), c.Bounds()
	boundary := make([]ir.IntExpr, len(sets)+1)
	boundary[0] = ir.Zero
	for i, s := range sets {
		switch {
		case isZero(boundary[i].Domain()):
			boundary[i+1] = ir.NewCard(s)
		case isZero(s.Card()):
			boundary[i+1] = boundary[i]
		default:
			boundary[i+1] = bounds[i]
			p.equalInt(ir.Sum(boundary[i], ir.NewCard(s)), boundary[i+1])
		}
		if boundary[i+1] != bounds[i] {
			p.equalInt(boundary[i+1], bounds[i])
		}
		if v, ok := ir.ConstantValue(boundary[i]); ok && s.Card().Low() > 0 && !s.Ker().Contains(v) {
			p.propagateKer(domain.Constant(v), s)
		}
		from, to := boundary[i].Domain(), boundary[i+1].Domain()
		var env, ker *domain.Domain
		if from.Low() < to.High() {
			e := domain.Bound(from.Low(), to.High()-1)
			env = &e
		}
		if from.High() < to.Low() {
			k := domain.Bound(from.High(), to.Low()-1)
			ker = &k
		}
		if env != nil || ker != nil {
			p.propagateSet(newPartialSet(env, ker, nil), s)
		}
	}
}

// visitSortStringsChannel relates the order of strings to the ranks in
// ints: equal strings share a rank and a rank never exceeds the number of
// distinct strings that may precede it.
func (p *pass) visitSortStringsChannel(c *ir.SortStringsChannel) {
	strs, ints := c.Strings(), c.Ints()
	classes := disjoint.New[int]()
	smaller := make([][]int, len(strs))
	for i := range strs {
		classes.Add(i)
	}
	for i := range strs {
		for j := i + 1; j < len(strs); j++ {
			switch ir.OrderStrings(strs[i], strs[j], 0) {
			case ir.EQ:
				p.equalInt(ints[i], ints[j])
				classes.Union(i, j)
			case ir.LT:
				p.lessThan(ints[i], ints[j])
				smaller[j] = append(smaller[j], i)
			case ir.LE:
				p.lessThanEqual(ints[i], ints[j])
				smaller[j] = append(smaller[j], i)
			case ir.GT:
				p.lessThan(ints[j], ints[i])
				smaller[i] = append(smaller[i], j)
			case ir.GE:
				p.lessThanEqual(ints[j], ints[i])
				smaller[i] = append(smaller[i], j)
			default:
				smaller[i] = append(smaller[i], j)
				smaller[j] = append(smaller[j], i)
			}
		}
	}
	for _, component := range classes.Components() {
		bound := len(strs)
		for _, i := range component {
			distinct := set.New[int](len(smaller[i]))
			for _, j := range smaller[i] {
				distinct.Insert(classes.Root(j))
			}
			bound = min(bound, distinct.Size())
		}
		for _, i := range component {
			p.propagateInt(ints[i].Domain().BoundHigh(bound), ints[i])
		}
	}
	for i := range ints {
		for j := i + 1; j < len(ints); j++ {
			switch ir.Order(ints[i], ints[j]) {
			case ir.EQ:
				p.equalString(strs[i], strs[j])
			case ir.LT:
				p.lessThanString(strs[i], strs[j], 0)
			case ir.LE:
				p.lessThanEqualString(strs[i], strs[j], 0)
			case ir.GT:
				p.lessThanString(strs[j], strs[i], 0)
			case ir.GE:
				p.lessThanEqualString(strs[j], strs[i], 0)
			}
		}
	}
}

func (p *pass) visitSelectN(c *ir.SelectN) {
	bools, n := c.Bools(), c.N()
	nd := n.Domain()
	for i, b := range bools {
		if ir.IsTrue(b) && i >= nd.Low() {
			p.propagateInt(span(i+1, len(bools)), n)
		} else if ir.IsFalse(b) && i < nd.High() {
			p.propagateInt(span(0, i), n)
		}
	}
	for i := 0; i < nd.Low() && i < len(bools); i++ {
		p.propagateInt(domain.TrueDomain, bools[i])
	}
	for i := max(nd.High(), 0); i < len(bools); i++ {
		p.propagateInt(domain.FalseDomain, bools[i])
	}
}
