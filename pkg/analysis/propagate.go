package analysis

import (
	"fmt"
	"slices"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// span is [low, high], or empty when low > high.
func span(low, high int) domain.Domain {
	if low > high {
		return domain.Empty()
	}
	return domain.Bound(low, high)
}

func (p *pass) equalInt(left, right ir.IntExpr) {
	l, lok := ir.AsIntVar(left)
	r, rok := ir.AsIntVar(right)
	if lok && rok {
		p.unionInt(l, r)
		return
	}
	p.propagateInt(left.Domain(), right)
	p.propagateInt(right.Domain(), left)
}

func (p *pass) notEqualInt(left, right ir.IntExpr) {
	if c, ok := ir.ConstantValue(left); ok {
		p.propagateInt(right.Domain().Remove(c), right)
	}
	if c, ok := ir.ConstantValue(right); ok {
		p.propagateInt(left.Domain().Remove(c), left)
	}
}

func (p *pass) lessThan(left, right ir.IntExpr) {
	failIf(left == right, "%v cannot be less than itself", left)
	ld, rd := left.Domain(), right.Domain()
	if ld.High() >= rd.High() {
		p.propagateInt(ld.BoundHigh(rd.High()-1), left)
	}
	if rd.Low() <= ld.Low() {
		p.propagateInt(rd.BoundLow(ld.Low()+1), right)
	}
}

func (p *pass) lessThanEqual(left, right ir.IntExpr) {
	ld, rd := left.Domain(), right.Domain()
	if ld.High() > rd.High() {
		p.propagateInt(ld.BoundHigh(rd.High()), left)
	}
	if rd.Low() < ld.Low() {
		p.propagateInt(rd.BoundLow(ld.Low()), right)
	}
}

// element returns array[i] when it is statically known.
func element(array ir.IntArrayExpr, i int) (ir.IntExpr, bool) {
	switch a := array.(type) {
	case *ir.IntArray:
		return a.Elems()[i], true
	case *ir.Subarray:
		if j, ok := ir.ConstantValue(a.Index()); ok {
			return element(a.Array(), j+i)
		}
		return nil, false
	}
	panic(fmt.Sprintf("analysis: unhandled int array %T", array))
}

func (p *pass) equalArrays(a, b ir.IntArrayExpr) {
	ad, bd := a.Domains(), b.Domains()
	for i := range a.Len() {
		ai, aok := element(a, i)
		bi, bok := element(b, i)
		switch {
		case aok && bok:
			p.equalInt(ai, bi)
		case aok:
			p.propagateInt(bd[i], ai)
		case bok:
			p.propagateInt(ad[i], bi)
		}
	}
}

// propagateInt records that right takes a value in left.
func (p *pass) propagateInt(left domain.Domain, right ir.IntExpr) {
	rd := right.Domain()
	if rd.IsSubsetOf(left) {
		return
	}
	failIf(!left.Intersects(rd), "%v cannot take a value in %v", right, left)

	switch r := right.(type) {
	case *ir.IntVar:
		p.narrowInt(left, r)
	case ir.BoolVar:
		p.narrowInt(left, r.Var())
	case *ir.Minus:
		p.propagateInt(left.Minus(), r.Operand())
	case *ir.Add:
		addends := r.Addends()
		if len(addends) == 1 {
			p.propagateInt(left.Offset(-r.Offset()), addends[0])
			return
		}
		for _, a := range addends {
			d := a.Domain()
			p.propagateInt(d.BoundBetween(
				left.Low()-rd.High()+d.High(),
				left.High()-rd.Low()+d.Low()), a)
		}
	case *ir.Card:
		p.propagateSet(cardOf(left), r.Set())
	case *ir.Element:
		domains := r.Array().Domains()
		index := r.Index().Domain().RetainAll(func(i int) bool {
			return i >= 0 && i < len(domains) && left.Intersects(domains[i])
		})
		p.propagateInt(index, r.Index())
	case *ir.Count:
		p.propagateCount(left, r)
	case *ir.Length:
		s := r.Of()
		p.propagateString(p.tstring(p.charVars(s), p.tint(left.Intersection(rd))), s)
	case *ir.Not:
		negated := left.RetainAll(func(v int) bool { return v == 0 || v == 1 }).Minus().Offset(1)
		p.propagateInt(negated, r.Operand())
	case ir.BoolExpr:
		// A constraint forced true holds like a top-level constraint.
		if !left.Contains(0) {
			p.visit(r)
		}
	default:
		panic(fmt.Sprintf("analysis: unhandled int expression %T", right))
	}
}

func (p *pass) narrowInt(left domain.Domain, v *ir.IntVar) {
	d := left.Intersection(v.Domain())
	failIf(d.IsEmpty(), "%v has no value in %v", v, left)
	p.stats.Narrowings++
	p.unionInt(v, p.tint(d))
}

func (p *pass) propagateCount(left domain.Domain, c *ir.Count) {
	value := c.Value()
	mandatory, possible := 0, 0
	for _, e := range c.Array() {
		if d := e.Domain(); d.Contains(value) {
			if d.IsConstant() {
				mandatory++
			} else {
				possible++
			}
		}
	}
	switch {
	case mandatory+possible <= left.Low():
		for _, e := range c.Array() {
			if d := e.Domain(); d.Contains(value) && d.Size() > 1 {
				p.propagateInt(domain.Constant(value), e)
			}
		}
	case mandatory >= left.High():
		for _, e := range c.Array() {
			if d := e.Domain(); d.Contains(value) && d.Size() > 1 {
				p.propagateInt(d.Remove(value), e)
			}
		}
	}
}

func (p *pass) propagateEnv(env domain.Domain, s ir.SetExpr)   { p.propagateSet(envOf(env), s) }
func (p *pass) propagateKer(ker domain.Domain, s ir.SetExpr)   { p.propagateSet(kerOf(ker), s) }
func (p *pass) propagateCard(card domain.Domain, s ir.SetExpr) { p.propagateSet(cardOf(card), s) }

// propagateSet records what left knows about right.
func (p *pass) propagateSet(left partialSet, right ir.SetExpr) {
	left = left.against(right)
	if left.mask == 0 {
		return
	}
	failIf(left.isEnv() && !right.Ker().IsSubsetOf(left.env),
		"%v must contain %v outside %v", right, right.Ker(), left.env)
	failIf(left.isKer() && !left.ker.IsSubsetOf(right.Env()),
		"%v cannot contain %v", right, left.ker)
	failIf(left.isCard() && !left.card.Intersects(right.Card()),
		"%v cannot have a cardinality in %v", right, left.card)

	switch r := right.(type) {
	case *ir.SetVar:
		p.propagateSetVar(left, r)
	case *ir.Singleton:
		p.propagateSingleton(left, r)
	case *ir.ArrayToSet:
		p.propagateArrayToSet(left, r)
	case *ir.SetElement:
		p.propagateSetElement(left, r)
	case *ir.JoinRelation:
		p.propagateJoinRelation(left, r)
	case *ir.JoinFunction:
		p.propagateJoinFunction(left, r)
	case *ir.SetUnion:
		p.propagateSetUnion(left, r)
	case *ir.SetIntersection:
		p.propagateSetIntersection(left, r)
	case *ir.SetDifference:
		p.propagateSetDifference(left, r)
	case *ir.SetOffset:
		p.propagateSetOffset(left, r)
	default:
		panic(fmt.Sprintf("analysis: unhandled set expression %T", right))
	}
}

func (p *pass) propagateSetVar(left partialSet, s *ir.SetVar) {
	env, ker, card := s.Env(), s.Ker(), s.Card()
	if left.isEnv() {
		env = left.env.Intersection(env)
	}
	if left.isKer() {
		ker = left.ker.Union(ker)
	}
	if left.isCard() {
		card = left.card.Intersection(card)
	}
	p.stats.Narrowings++
	p.unionSet(s, p.tset(env, ker, card))
}

func (p *pass) propagateSingleton(left partialSet, s *ir.Singleton) {
	failIf(left.isCard() && !left.card.Contains(1), "singleton %v cannot have cardinality %v", s, left.card)
	if left.isKer() {
		failIf(left.ker.Size() > 1, "singleton %v cannot contain %v", s, left.ker)
		p.propagateInt(left.ker, s.Value())
	}
	if left.isEnv() {
		p.propagateInt(left.env, s.Value())
	}
}

// findUnique returns the only index in candidates for which pred holds.
// It fails when there is none and returns -1 when there are several.
func findUnique(candidates []int, pred func(int) bool, what string) int {
	found := -1
	for _, i := range candidates {
		if !pred(i) {
			continue
		}
		if found >= 0 {
			return -1
		}
		found = i
	}
	failIf(found < 0, "no %s can provide a required member", what)
	return found
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (p *pass) propagateArrayToSet(left partialSet, s *ir.ArrayToSet) {
	array := s.Array()
	if left.isEnv() {
		for _, e := range array {
			p.propagateInt(left.env, e)
		}
	}
	if left.isKer() {
		for val := range left.ker.Difference(s.Ker()).All() {
			i := findUnique(indices(len(array)), func(i int) bool {
				return array[i].Domain().Contains(val)
			}, "array element")
			if i >= 0 {
				p.propagateInt(domain.Constant(val), array[i])
			}
		}
	}
	if left.isCard() && left.card.High() < s.Card().High() && left.card.High() == 1 {
		// At most one distinct value: every element takes it.
		for i := 1; i < len(array); i++ {
			p.equalInt(array[0], array[i])
		}
	}
}

func (p *pass) propagateSetElement(left partialSet, s *ir.SetElement) {
	array := s.Array()
	envs, kers, cards := array.Envs(), array.Kers(), array.Cards()
	index := s.Index().Domain().RetainAll(func(i int) bool {
		return i >= 0 && i < len(envs) &&
			(!left.isEnv() || kers[i].IsSubsetOf(left.env)) &&
			(!left.isKer() || left.ker.IsSubsetOf(envs[i])) &&
			(!left.isCard() || left.card.Intersects(cards[i]))
	})
	p.propagateInt(index, s.Index())
}

func (p *pass) propagateJoinRelation(left partialSet, j *ir.JoinRelation) {
	if !j.IsInjective() {
		return
	}
	take, children := j.Take(), j.Children()
	array, isArray := children.(*ir.SetArray)
	envs, cards := children.Envs(), children.Cards()

	if (left.isEnv() || left.isCard()) && isArray {
		var card *domain.Domain
		if left.isCard() {
			c := span(0, left.card.High())
			card = &c
		}
		child := newPartialSet(left.envOr(), nil, card)
		for i := range take.Ker().All() {
			if i >= 0 && i < array.Len() {
				p.propagateSet(child, array.Elems()[i])
			}
		}
	}
	if left.isKer() {
		for val := range left.ker.Difference(j.Ker()).All() {
			i := findUnique(take.Env().Values(), func(i int) bool {
				return i >= 0 && i < len(envs) && envs[i].Contains(val)
			}, "child set")
			if i >= 0 {
				p.propagateKer(domain.Constant(i), take)
				if isArray {
					p.propagateKer(domain.Constant(val), array.Elems()[i])
				}
			}
		}
	}
	if left.isCard() {
		lb, ub := left.card.Low(), left.card.High()
		var optLows, optHighs []int
		kerLow, kerHigh := 0, 0
		for i := range take.Env().All() {
			if i < 0 || i >= len(cards) {
				continue
			}
			if take.Ker().Contains(i) {
				kerLow += cards[i].Low()
				kerHigh += cards[i].High()
			} else {
				optLows = append(optLows, cards[i].Low())
				optHighs = append(optHighs, cards[i].High())
			}
		}
		envHigh := kerHigh
		for _, h := range optHighs {
			envHigh += h
		}
		slices.Sort(optLows)
		slices.Sort(optHighs)

		// Most children take can hold: add the smallest optional
		// children while the result can still stay within ub.
		sum, n := kerLow, 0
		for n < len(optLows) && (sum < ub || optLows[n] == 0) {
			sum += optLows[n]
			n++
		}
		high := n + take.Ker().Size()
		// Fewest children take can hold: add the largest optional
		// children until the result can reach lb.
		sum, n = kerHigh, 0
		for n < len(optHighs) && sum < lb {
			sum += optHighs[len(optHighs)-1-n]
			n++
		}
		low := n + take.Ker().Size()
		if low > take.Card().Low() || high < take.Card().High() {
			p.propagateCard(span(low, high), take)
		}
		if isArray {
			for k := range take.Ker().All() {
				if k < 0 || k >= len(cards) {
					continue
				}
				p.propagateCard(span(
					lb-envHigh+cards[k].High(),
					ub-kerLow+cards[k].Low()), array.Elems()[k])
			}
		}
	}
}

func (p *pass) propagateJoinFunction(left partialSet, j *ir.JoinFunction) {
	take := j.Take()
	refs, isArray := j.Refs().(*ir.IntArray)
	if left.isEnv() && isArray {
		for i := range take.Ker().All() {
			if i >= 0 && i < refs.Len() {
				p.propagateInt(left.env, refs.Elems()[i])
			}
		}
	}
	if left.isKer() && isArray {
		domains := refs.Domains()
		for val := range left.ker.Difference(j.Ker()).All() {
			i := findUnique(take.Env().Values(), func(i int) bool {
				return i >= 0 && i < len(domains) && domains[i].Contains(val)
			}, "reference")
			if i >= 0 {
				p.propagateKer(domain.Constant(i), take)
				p.propagateInt(domain.Constant(val), refs.Elems()[i])
			}
		}
	}
	if left.isCard() {
		low := max(take.Ker().Size(), left.card.Low())
		high := take.Card().High()
		if g := j.GlobalCard(); g > 0 {
			high = left.card.High() * g
		}
		high = min(high, take.Env().Size())
		if low > take.Card().Low() || high < take.Card().High() {
			p.propagateCard(span(low, high), take)
		}
	}
}

func (p *pass) propagateSetUnion(left partialSet, u *ir.SetUnion) {
	operands := u.Operands()
	if left.isEnv() || left.isCard() {
		if u.IsDisjoint() && left.isCard() {
			lows, highs := 0, 0
			for _, o := range operands {
				lows += o.Card().Low()
				highs += o.Card().High()
			}
			for _, o := range operands {
				card := span(
					left.card.Low()-highs+o.Card().High(),
					left.card.High()-lows+o.Card().Low())
				p.propagateSet(newPartialSet(left.envOr(), nil, &card), o)
			}
		} else {
			var card *domain.Domain
			if left.isCard() {
				c := span(0, left.card.High())
				card = &c
			}
			child := newPartialSet(left.envOr(), nil, card)
			for _, o := range operands {
				p.propagateSet(child, o)
			}
		}
	}
	if left.isKer() {
		for val := range left.ker.Difference(u.Ker()).All() {
			i := findUnique(indices(len(operands)), func(i int) bool {
				return operands[i].Env().Contains(val)
			}, "operand")
			if i >= 0 {
				p.propagateKer(domain.Constant(val), operands[i])
			}
		}
	}
}

func (p *pass) propagateSetIntersection(left partialSet, s *ir.SetIntersection) {
	for _, o := range s.Operands() {
		if left.isKer() {
			p.propagateKer(left.ker, o)
		}
		if left.isCard() {
			p.propagateCard(o.Card().BoundLow(left.card.Low()), o)
		}
	}
}

func (p *pass) propagateSetDifference(left partialSet, d *ir.SetDifference) {
	minuend, subtrahend := d.Minuend(), d.Subtrahend()
	if left.isEnv() {
		p.propagateEnv(left.env.Union(subtrahend.Env()), minuend)
	}
	if left.isKer() {
		p.propagateKer(left.ker, minuend)
		p.propagateEnv(subtrahend.Env().Difference(left.ker), subtrahend)
	}
	if left.isCard() {
		p.propagateCard(minuend.Card().BoundLow(left.card.Low()), minuend)
	}
}

func (p *pass) propagateSetOffset(left partialSet, s *ir.SetOffset) {
	var env, ker, card *domain.Domain
	if left.isEnv() {
		e := left.env.Offset(-s.Offset())
		env = &e
	}
	if left.isKer() {
		k := left.ker.Offset(-s.Offset())
		ker = &k
	}
	if left.isCard() {
		card = &left.card
	}
	p.propagateSet(newPartialSet(env, ker, card), s.Set())
}
