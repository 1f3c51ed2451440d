package ir

import "fmt"

// Substitution maps variables to their replacements. Nodes whose children
// are unchanged are returned as is, so untouched subtrees stay shared.
type Substitution struct {
	Ints    map[*IntVar]*IntVar
	Sets    map[*SetVar]*SetVar
	Strings map[*StringVar]*StringVar
}

// IsEmpty reports whether the substitution renames nothing.
func (s *Substitution) IsEmpty() bool {
	return len(s.Ints) == 0 && len(s.Sets) == 0 && len(s.Strings) == 0
}

// Apply rewrites every constraint of m.
func (s *Substitution) Apply(m *Module) *Module {
	constraints := make([]BoolExpr, len(m.constraints))
	for i, c := range m.constraints {
		constraints[i] = s.RewriteBool(c)
	}
	return NewModule(constraints...)
}

func (s *Substitution) intVar(v *IntVar) *IntVar {
	if r, ok := s.Ints[v]; ok && !v.constant {
		return r
	}
	return v
}

// RewriteInt rewrites an integer expression.
func (s *Substitution) RewriteInt(e IntExpr) IntExpr {
	switch x := e.(type) {
	case *IntVar:
		return s.intVar(x)
	case *Minus:
		if o := s.RewriteInt(x.operand); o != x.operand {
			return NewMinus(o)
		}
		return x
	case *Add:
		if as, ok := rewriteAll(x.addends, s.RewriteInt); ok {
			return NewAdd(x.offset, as...)
		}
		return x
	case *Card:
		if set := s.RewriteSet(x.set); set != x.set {
			return NewCard(set)
		}
		return x
	case *Element:
		a, i := s.RewriteIntArray(x.array), s.RewriteInt(x.index)
		if a != x.array || i != x.index {
			return NewElement(a, i)
		}
		return x
	case *Count:
		if as, ok := rewriteAll(x.array, s.RewriteInt); ok {
			return NewCount(x.value, as...)
		}
		return x
	case *Length:
		if str := s.RewriteString(x.str); str != x.str {
			return NewLength(str)
		}
		return x
	case BoolExpr:
		return s.RewriteBool(x)
	}
	panic(fmt.Sprintf("ir: unhandled int expression %T", e))
}

// RewriteBool rewrites a boolean expression.
func (s *Substitution) RewriteBool(e BoolExpr) BoolExpr {
	switch x := e.(type) {
	case BoolVar:
		if r := s.intVar(x.v); r != x.v {
			return AsBool(r)
		}
		return x
	case *Not:
		if o := s.RewriteBool(x.operand); o != x.operand {
			return NewNot(o)
		}
		return x
	case *And:
		if os, ok := rewriteAll(x.operands, s.RewriteBool); ok {
			return NewAnd(os...)
		}
		return x
	case *Or:
		if os, ok := rewriteAll(x.operands, s.RewriteBool); ok {
			return NewOr(os...)
		}
		return x
	case *Implies:
		a, c := s.RewriteBool(x.antecedent), s.RewriteBool(x.consequent)
		if a != x.antecedent || c != x.consequent {
			return NewImplies(a, c)
		}
		return x
	case *IfOnlyIf:
		l, r := s.RewriteBool(x.left), s.RewriteBool(x.right)
		if l != x.left || r != x.right {
			return NewIfOnlyIf(l, r)
		}
		return x
	case *Within:
		if v := s.RewriteInt(x.value); v != x.value {
			return NewWithin(v, x.rng)
		}
		return x
	case *Compare:
		l, r := s.RewriteInt(x.left), s.RewriteInt(x.right)
		if l != x.left || r != x.right {
			return NewCompare(l, x.op, r)
		}
		return x
	case *ArrayEquality:
		l, r := s.RewriteIntArray(x.left), s.RewriteIntArray(x.right)
		if l != x.left || r != x.right {
			return NewArrayEquality(l, x.op, r)
		}
		return x
	case *SetEquality:
		l, r := s.RewriteSet(x.left), s.RewriteSet(x.right)
		if l != x.left || r != x.right {
			return NewSetEquality(l, x.op, r)
		}
		return x
	case *StringCompare:
		l, r := s.RewriteString(x.left), s.RewriteString(x.right)
		if l != x.left || r != x.right {
			return NewStringCompare(l, x.op, r)
		}
		return x
	case *Member:
		el, set := s.RewriteInt(x.element), s.RewriteSet(x.set)
		if el != x.element || set != x.set {
			return NewMember(el, set)
		}
		return x
	case *NotMember:
		el, set := s.RewriteInt(x.element), s.RewriteSet(x.set)
		if el != x.element || set != x.set {
			return NewNotMember(el, set)
		}
		return x
	case *SubsetEq:
		sub, sup := s.RewriteSet(x.subset), s.RewriteSet(x.superset)
		if sub != x.subset || sup != x.superset {
			return NewSubsetEq(sub, sup)
		}
		return x
	case *BoolChannel:
		bs, changed := rewriteAll(x.bools, s.RewriteBool)
		if set := s.RewriteSet(x.set); changed || set != x.set {
			return NewBoolChannel(bs, set)
		}
		return x
	case *IntChannel:
		is, ic := rewriteAll(x.ints, s.RewriteInt)
		ss, sc := rewriteAll(x.sets, s.RewriteSet)
		if ic || sc {
			return NewIntChannel(is, ss)
		}
		return x
	case *SortStrings:
		if strs, ok := s.rewriteStrings(x.strings); ok {
			return NewSortStrings(strs, x.strict)
		}
		return x
	case *SortSets:
		ss, sc := rewriteAll(x.sets, s.RewriteSet)
		bs, bc := rewriteAll(x.bounds, s.RewriteInt)
		if sc || bc {
			return NewSortSets(ss, bs)
		}
		return x
	case *SortStringsChannel:
		strs, sc := s.rewriteStrings(x.strings)
		is, ic := rewriteAll(x.ints, s.RewriteInt)
		if sc || ic {
			return NewSortStringsChannel(strs, is)
		}
		return x
	case *AllDifferent:
		if os, ok := rewriteAll(x.operands, s.RewriteInt); ok {
			return NewAllDifferent(os...)
		}
		return x
	case *SelectN:
		bs, changed := rewriteAll(x.bools, s.RewriteBool)
		if n := s.RewriteInt(x.n); changed || n != x.n {
			return NewSelectN(bs, n)
		}
		return x
	case *Prefix:
		p, w := s.RewriteString(x.prefix), s.RewriteString(x.word)
		if p != x.prefix || w != x.word {
			return NewPrefix(p, w)
		}
		return x
	case *Suffix:
		suf, w := s.RewriteString(x.suffix), s.RewriteString(x.word)
		if suf != x.suffix || w != x.word {
			return NewSuffix(suf, w)
		}
		return x
	}
	panic(fmt.Sprintf("ir: unhandled bool expression %T", e))
}

// RewriteSet rewrites a set expression.
func (s *Substitution) RewriteSet(e SetExpr) SetExpr {
	switch x := e.(type) {
	case *SetVar:
		if r, ok := s.Sets[x]; ok && !x.constant {
			return r
		}
		return x
	case *Singleton:
		if v := s.RewriteInt(x.value); v != x.value {
			return NewSingleton(v)
		}
		return x
	case *ArrayToSet:
		if as, ok := rewriteAll(x.array, s.RewriteInt); ok {
			return NewArrayToSet(as...)
		}
		return x
	case *SetElement:
		a, i := s.RewriteSetArray(x.array), s.RewriteInt(x.index)
		if a != x.array || i != x.index {
			return NewSetElement(a, i)
		}
		return x
	case *JoinRelation:
		t, c := s.RewriteSet(x.take), s.RewriteSetArray(x.children)
		if t != x.take || c != x.children {
			return NewJoinRelation(t, c, x.injective)
		}
		return x
	case *JoinFunction:
		t, r := s.RewriteSet(x.take), s.RewriteIntArray(x.refs)
		if t != x.take || r != x.refs {
			return NewJoinFunction(t, r, x.globalCard)
		}
		return x
	case *SetUnion:
		if os, ok := rewriteAll(x.operands, s.RewriteSet); ok {
			return NewSetUnion(x.disjoint, os...)
		}
		return x
	case *SetIntersection:
		if os, ok := rewriteAll(x.operands, s.RewriteSet); ok {
			return NewSetIntersection(os...)
		}
		return x
	case *SetDifference:
		m, sub := s.RewriteSet(x.minuend), s.RewriteSet(x.subtrahend)
		if m != x.minuend || sub != x.subtrahend {
			return NewSetDifference(m, sub)
		}
		return x
	case *SetOffset:
		if set := s.RewriteSet(x.set); set != x.set {
			return NewSetOffset(set, x.offset)
		}
		return x
	}
	panic(fmt.Sprintf("ir: unhandled set expression %T", e))
}

// RewriteString rewrites a string expression.
func (s *Substitution) RewriteString(e StringExpr) StringExpr {
	switch x := e.(type) {
	case *StringVar:
		if r, ok := s.Strings[x]; ok && !x.constant {
			return r
		}
		return x
	case *Concat:
		l, r := s.RewriteString(x.left), s.RewriteString(x.right)
		if l != x.left || r != x.right {
			return NewConcat(l, r)
		}
		return x
	}
	panic(fmt.Sprintf("ir: unhandled string expression %T", e))
}

// RewriteIntArray rewrites an integer array expression.
func (s *Substitution) RewriteIntArray(e IntArrayExpr) IntArrayExpr {
	switch x := e.(type) {
	case *IntArray:
		if es, ok := rewriteAll(x.elems, s.RewriteInt); ok {
			return NewIntArray(es...)
		}
		return x
	case *Subarray:
		a, i := s.RewriteIntArray(x.array), s.RewriteInt(x.index)
		if a != x.array || i != x.index {
			return NewSubarray(a, i, x.length)
		}
		return x
	}
	panic(fmt.Sprintf("ir: unhandled int array expression %T", e))
}

// RewriteSetArray rewrites a set array expression.
func (s *Substitution) RewriteSetArray(e SetArrayExpr) SetArrayExpr {
	switch x := e.(type) {
	case *SetArray:
		if es, ok := rewriteAll(x.elems, s.RewriteSet); ok {
			return NewSetArray(es...)
		}
		return x
	}
	panic(fmt.Sprintf("ir: unhandled set array expression %T", e))
}

func (s *Substitution) rewriteStrings(strs [][]IntExpr) ([][]IntExpr, bool) {
	out := make([][]IntExpr, len(strs))
	changed := false
	for i, str := range strs {
		var c bool
		out[i], c = rewriteAll(str, s.RewriteInt)
		changed = changed || c
	}
	return out, changed
}

// rewriteAll applies f to every element and reports whether any changed.
func rewriteAll[E comparable](es []E, f func(E) E) ([]E, bool) {
	out := make([]E, len(es))
	changed := false
	for i, e := range es {
		out[i] = f(e)
		changed = changed || out[i] != e
	}
	return out, changed
}
