package analysis

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// assignment gives a value to every integer and set variable of a module.
// Strings take their value from their character and length variables.
type assignment struct {
	ints map[*ir.IntVar]int
	sets map[*ir.SetVar]domain.Domain
}

// undefined is raised when an expression has no value, such as an array
// index out of range. The constraint holding it is false.
type undefined struct{}

func evalInt(e ir.IntExpr, a assignment) int {
	switch e := e.(type) {
	case *ir.IntVar:
		if e.IsConstant() {
			return e.Domain().Low()
		}
		v, ok := a.ints[e]
		if !ok {
			panic(fmt.Sprintf("unassigned variable %v", e))
		}
		return v
	case ir.BoolVar:
		return evalInt(e.Var(), a)
	case *ir.Minus:
		return -evalInt(e.Operand(), a)
	case *ir.Add:
		sum := e.Offset()
		for _, addend := range e.Addends() {
			sum += evalInt(addend, a)
		}
		return sum
	case *ir.Card:
		return evalSet(e.Set(), a).Size()
	case *ir.Element:
		array := evalIntArray(e.Array(), a)
		i := evalInt(e.Index(), a)
		if i < 0 || i >= len(array) {
			panic(undefined{})
		}
		return array[i]
	case *ir.Count:
		n := 0
		for _, x := range e.Array() {
			if evalInt(x, a) == e.Value() {
				n++
			}
		}
		return n
	case *ir.Length:
		return len(evalString(e.Of(), a))
	case ir.BoolExpr:
		if evalBool(e, a) {
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("cannot evaluate %T", e))
}

func evalInts(es []ir.IntExpr, a assignment) []int {
	out := make([]int, len(es))
	for i, e := range es {
		out[i] = evalInt(e, a)
	}
	return out
}

func evalIntArray(e ir.IntArrayExpr, a assignment) []int {
	switch e := e.(type) {
	case *ir.IntArray:
		return evalInts(e.Elems(), a)
	case *ir.Subarray:
		array := evalIntArray(e.Array(), a)
		i := evalInt(e.Index(), a)
		if i < 0 || i+e.Len() > len(array) {
			panic(undefined{})
		}
		return array[i : i+e.Len()]
	}
	panic(fmt.Sprintf("cannot evaluate %T", e))
}

func evalSetArray(e ir.SetArrayExpr, a assignment) []domain.Domain {
	array, ok := e.(*ir.SetArray)
	if !ok {
		panic(fmt.Sprintf("cannot evaluate %T", e))
	}
	out := make([]domain.Domain, array.Len())
	for i, s := range array.Elems() {
		out[i] = evalSet(s, a)
	}
	return out
}

// requireDisjoint makes the enclosing constraint false unless the sets are
// pairwise disjoint.
func requireDisjoint(sets []domain.Domain) {
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if sets[i].Intersects(sets[j]) {
				panic(undefined{})
			}
		}
	}
}

func evalSet(e ir.SetExpr, a assignment) domain.Domain {
	switch e := e.(type) {
	case *ir.SetVar:
		if e.IsConstant() {
			return e.Ker()
		}
		v, ok := a.sets[e]
		if !ok {
			panic(fmt.Sprintf("unassigned set %v", e))
		}
		return v
	case *ir.Singleton:
		return domain.Constant(evalInt(e.Value(), a))
	case *ir.ArrayToSet:
		return domain.Enum(evalInts(e.Array(), a)...)
	case *ir.SetElement:
		array := evalSetArray(e.Array(), a)
		i := evalInt(e.Index(), a)
		if i < 0 || i >= len(array) {
			panic(undefined{})
		}
		return array[i]
	case *ir.JoinRelation:
		children := evalSetArray(e.Children(), a)
		if e.IsInjective() {
			requireDisjoint(children)
		}
		var out domain.Domain
		for _, i := range evalSet(e.Take(), a).Values() {
			if i < 0 || i >= len(children) {
				panic(undefined{})
			}
			out = out.Union(children[i])
		}
		return out
	case *ir.JoinFunction:
		refs := evalIntArray(e.Refs(), a)
		uses := make(map[int]int)
		var values []int
		for _, i := range evalSet(e.Take(), a).Values() {
			if i < 0 || i >= len(refs) {
				panic(undefined{})
			}
			uses[refs[i]]++
			if g := e.GlobalCard(); g > 0 && uses[refs[i]] > g {
				panic(undefined{})
			}
			values = append(values, refs[i])
		}
		return domain.Enum(values...)
	case *ir.SetUnion:
		operands := make([]domain.Domain, len(e.Operands()))
		var out domain.Domain
		for i, o := range e.Operands() {
			operands[i] = evalSet(o, a)
			out = out.Union(operands[i])
		}
		if e.IsDisjoint() {
			requireDisjoint(operands)
		}
		return out
	case *ir.SetIntersection:
		operands := e.Operands()
		out := evalSet(operands[0], a)
		for _, o := range operands[1:] {
			out = out.Intersection(evalSet(o, a))
		}
		return out
	case *ir.SetDifference:
		return evalSet(e.Minuend(), a).Difference(evalSet(e.Subtrahend(), a))
	case *ir.SetOffset:
		return evalSet(e.Set(), a).Offset(e.Offset())
	}
	panic(fmt.Sprintf("cannot evaluate %T", e))
}

func evalString(e ir.StringExpr, a assignment) []int {
	switch e := e.(type) {
	case *ir.StringVar:
		n := evalInt(e.LengthVar(), a)
		out := make([]int, n)
		for i := range out {
			out[i] = evalInt(e.CharVars()[i], a)
		}
		return out
	case *ir.Concat:
		return append(evalString(e.Left(), a), evalString(e.Right(), a)...)
	}
	panic(fmt.Sprintf("cannot evaluate %T", e))
}

func compareOp(op ir.CompareOp, cmp int) bool {
	switch op {
	case ir.OpEqual:
		return cmp == 0
	case ir.OpNotEqual:
		return cmp != 0
	case ir.OpLessThan:
		return cmp < 0
	case ir.OpLessThanEqual:
		return cmp <= 0
	}
	panic(fmt.Sprintf("unknown operator %v", op))
}

func sameSet(a, b domain.Domain) int {
	if a.Equal(b) {
		return 0
	}
	return 1
}

func evalBool(b ir.BoolExpr, a assignment) bool {
	switch b := b.(type) {
	case ir.BoolVar:
		return evalInt(b, a) == 1
	case *ir.Not:
		return !evalBool(b.Operand(), a)
	case *ir.And:
		for _, o := range b.Operands() {
			if !evalBool(o, a) {
				return false
			}
		}
		return true
	case *ir.Or:
		for _, o := range b.Operands() {
			if evalBool(o, a) {
				return true
			}
		}
		return false
	case *ir.Implies:
		return !evalBool(b.Antecedent(), a) || evalBool(b.Consequent(), a)
	case *ir.IfOnlyIf:
		return evalBool(b.Left(), a) == evalBool(b.Right(), a)
	case *ir.Within:
		return b.Range().Contains(evalInt(b.Value(), a))
	case *ir.Compare:
		l, r := evalInt(b.Left(), a), evalInt(b.Right(), a)
		return compareOp(b.Op(), l-r)
	case *ir.ArrayEquality:
		l, r := evalIntArray(b.Left(), a), evalIntArray(b.Right(), a)
		return compareOp(b.Op(), slices.Compare(l, r))
	case *ir.SetEquality:
		return compareOp(b.Op(), sameSet(evalSet(b.Left(), a), evalSet(b.Right(), a)))
	case *ir.StringCompare:
		return compareOp(b.Op(), slices.Compare(evalString(b.Left(), a), evalString(b.Right(), a)))
	case *ir.Member:
		return evalSet(b.Set(), a).Contains(evalInt(b.Element(), a))
	case *ir.NotMember:
		return !evalSet(b.Set(), a).Contains(evalInt(b.Element(), a))
	case *ir.SubsetEq:
		return evalSet(b.Subset(), a).IsSubsetOf(evalSet(b.Superset(), a))
	case *ir.BoolChannel:
		s := evalSet(b.Set(), a)
		if !s.IsEmpty() && (s.Low() < 0 || s.High() >= len(b.Bools())) {
			return false
		}
		for i, x := range b.Bools() {
			if evalBool(x, a) != s.Contains(i) {
				return false
			}
		}
		return true
	case *ir.IntChannel:
		ints := evalInts(b.Ints(), a)
		for _, j := range ints {
			if j < 0 || j >= len(b.Sets()) {
				return false
			}
		}
		for j, s := range b.Sets() {
			var members []int
			for i, v := range ints {
				if v == j {
					members = append(members, i)
				}
			}
			if !evalSet(s, a).Equal(domain.Enum(members...)) {
				return false
			}
		}
		return true
	case *ir.SortStrings:
		strs := b.Strings()
		for i := 0; i+1 < len(strs); i++ {
			cmp := slices.Compare(evalInts(strs[i], a), evalInts(strs[i+1], a))
			if cmp > 0 || (cmp == 0 && b.IsStrict()) {
				return false
			}
		}
		return true
	case *ir.SortSets:
		start := 0
		for i, s := range b.Sets() {
			value := evalSet(s, a)
			end := start + value.Size()
			if evalInt(b.Bounds()[i], a) != end {
				return false
			}
			if value.Size() > 0 && !value.Equal(domain.Bound(start, end-1)) {
				return false
			}
			start = end
		}
		return true
	case *ir.SortStringsChannel:
		strs := make([][]int, len(b.Strings()))
		for i, s := range b.Strings() {
			strs[i] = evalInts(s, a)
		}
		for i, r := range b.Ints() {
			var smaller [][]int
			for _, s := range strs {
				if slices.Compare(s, strs[i]) < 0 && !slices.ContainsFunc(smaller, func(t []int) bool {
					return slices.Equal(s, t)
				}) {
					smaller = append(smaller, s)
				}
			}
			if evalInt(r, a) != len(smaller) {
				return false
			}
		}
		return true
	case *ir.AllDifferent:
		seen := make(map[int]bool)
		for _, o := range b.Operands() {
			v := evalInt(o, a)
			if seen[v] {
				return false
			}
			seen[v] = true
		}
		return true
	case *ir.SelectN:
		n := evalInt(b.N(), a)
		if n < 0 || n > len(b.Bools()) {
			return false
		}
		for i, x := range b.Bools() {
			if evalBool(x, a) != (i < n) {
				return false
			}
		}
		return true
	case *ir.Prefix:
		p, w := evalString(b.Prefix(), a), evalString(b.Word(), a)
		return len(p) <= len(w) && slices.Equal(p, w[:len(p)])
	case *ir.Suffix:
		s, w := evalString(b.Suffix(), a), evalString(b.Word(), a)
		return len(s) <= len(w) && slices.Equal(s, w[len(w)-len(s):])
	}
	panic(fmt.Sprintf("cannot evaluate %T", b))
}

// holds evaluates a top-level constraint. A constraint over an undefined
// expression does not hold.
func holds(c ir.BoolExpr, a assignment) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, undef := r.(undefined); !undef {
				panic(r)
			}
			ok = false
		}
	}()
	return evalBool(c, a)
}

// wellFormed reports whether the characters of s below its length are not
// the terminator and every character from its length on is.
func wellFormed(s *ir.StringVar, a assignment) bool {
	n := evalInt(s.LengthVar(), a)
	for i, c := range s.CharVars() {
		if (i < n) == (evalInt(c, a) == 0) {
			return false
		}
	}
	return true
}

// solutions calls yield with every assignment of m's variables that
// satisfies all of its constraints. The assignment is reused between calls.
func solutions(m *ir.Module, yield func(assignment)) {
	var ints []*ir.IntVar
	var sets []*ir.SetVar
	var strs []*ir.StringVar
	seen := make(map[*ir.IntVar]bool)
	addInt := func(v *ir.IntVar) {
		if !v.IsConstant() && !seen[v] {
			seen[v] = true
			ints = append(ints, v)
		}
	}
	for _, v := range m.Variables() {
		switch v := v.(type) {
		case *ir.IntVar:
			addInt(v)
		case *ir.SetVar:
			sets = append(sets, v)
		case *ir.StringVar:
			strs = append(strs, v)
			for _, c := range v.CharVars() {
				addInt(c)
			}
			addInt(v.LengthVar())
		}
	}

	a := assignment{ints: make(map[*ir.IntVar]int), sets: make(map[*ir.SetVar]domain.Domain)}
	var walkSets func(i int)
	walkSets = func(i int) {
		if i == len(sets) {
			for _, s := range strs {
				if !wellFormed(s, a) {
					return
				}
			}
			for _, c := range m.Constraints() {
				if !holds(c, a) {
					return
				}
			}
			yield(a)
			return
		}
		s, card := sets[i], sets[i].CardVar()
		optional := s.Env().Difference(s.Ker()).Values()
		for bits := 0; bits < 1<<len(optional); bits++ {
			value := s.Ker()
			for k, o := range optional {
				if bits&(1<<k) != 0 {
					value = value.Insert(o)
				}
			}
			size := value.Size()
			prev, assigned := a.ints[card]
			switch {
			case card.IsConstant():
				if card.Domain().Low() != size {
					continue
				}
			case assigned:
				if prev != size {
					continue
				}
			case !card.Domain().Contains(size):
				continue
			default:
				a.ints[card] = size
			}
			a.sets[s] = value
			walkSets(i + 1)
			if !assigned {
				delete(a.ints, card)
			}
		}
		delete(a.sets, s)
	}
	var walkInts func(i int)
	walkInts = func(i int) {
		if i == len(ints) {
			walkSets(0)
			return
		}
		for _, value := range ints[i].Domain().Values() {
			a.ints[ints[i]] = value
			walkInts(i + 1)
		}
		delete(a.ints, ints[i])
	}
	walkInts(0)
}

// project renders the value of every variable in vars, read through image.
func project(vars []ir.Var, a assignment, image func(ir.Var) ir.Var) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		var value string
		switch w := image(v).(type) {
		case *ir.IntVar:
			value = strconv.Itoa(evalInt(w, a))
		case *ir.SetVar:
			value = fmt.Sprint(evalSet(w, a).Values())
		case *ir.StringVar:
			value = fmt.Sprint(evalString(w, a))
		}
		parts[i] = v.Name() + "=" + value
	}
	return strings.Join(parts, " ")
}

// imageIn returns what each variable of the input became in res.
func imageIn(res *Result) func(ir.Var) ir.Var {
	return func(v ir.Var) ir.Var {
		switch v := v.(type) {
		case *ir.IntVar:
			return canonical(res, v)
		case *ir.SetVar:
			if s, ok := res.Sets[v]; ok {
				return s
			}
		case *ir.StringVar:
			if s, ok := res.Strings[v]; ok {
				return s
			}
		}
		return v
	}
}

// checkSound verifies that m and its coalesced form have the same solutions
// over m's variables.
func checkSound(t *testing.T, m *ir.Module) {
	t.Helper()
	vars := m.Variables()
	want := make(map[string]bool)
	solutions(m, func(a assignment) {
		want[project(vars, a, func(v ir.Var) ir.Var { return v })] = true
	})

	res, err := Coalesce(m)
	if err != nil {
		if !errors.Is(err, ErrUnsatisfiable) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(want) > 0 {
			t.Fatalf("reported unsatisfiable but %d solutions exist, e.g. %s",
				len(want), slices.Sorted(maps.Keys(want))[0])
		}
		return
	}

	got := make(map[string]bool)
	image := imageIn(res)
	solutions(res.Module, func(a assignment) {
		got[project(vars, a, image)] = true
	})
	for _, k := range slices.Sorted(maps.Keys(want)) {
		if !got[k] {
			t.Fatalf("solution %s lost\nrenaming: %s", k, spew.Sdump(res.Ints, res.Sets, res.Strings))
		}
	}
	for _, k := range slices.Sorted(maps.Keys(got)) {
		if !want[k] {
			t.Fatalf("coalesced module admits %s, which violates\n%v", k, m)
		}
	}
}

// smallString builds a string over the given per-position alphabets.
// Positions at or past the minimum length may also hold the terminator.
func smallString(name string, length domain.Domain, chars ...domain.Domain) *ir.StringVar {
	vars := make([]*ir.IntVar, len(chars))
	for i, d := range chars {
		if i >= length.Low() {
			d = d.Insert(0)
		}
		vars[i] = ir.Int(fmt.Sprintf("%s[%d]", name, i), d)
	}
	s, err := ir.NewStringVar(name, vars, ir.Int("|"+name+"|", length))
	if err != nil {
		panic(err)
	}
	return s
}

func TestCoalesceIsSound(t *testing.T) {
	x := ir.Int("x", domain.Bound(0, 3))
	y := ir.Int("y", domain.Bound(1, 4))
	z := ir.Int("z", domain.Bound(0, 2))
	u := ir.Int("u", domain.Bound(0, 2))
	v := ir.Int("v", domain.Bound(2, 5))
	n := ir.Int("n", domain.Bound(-2, 5))
	a, b, c := ir.Bool("a"), ir.Bool("b"), ir.Bool("c")

	tests := []struct {
		name string
		m    *ir.Module
	}{
		{"equality chain", ir.NewModule(ir.Equal(x, y), ir.Equal(y, z))},
		{"strict order", ir.NewModule(ir.LessThan(x, y), ir.LessThan(y, ir.Constant(3)))},
		{"less than itself", ir.NewModule(ir.LessThan(x, x))},
		{"sum", ir.NewModule(ir.Equal(ir.Sum(u, v), ir.Constant(3)))},
		{"offset", ir.NewModule(ir.Equal(ir.Plus(x, 2), y))},
		{"negation", ir.NewModule(ir.Equal(ir.NewMinus(x), n))},
		{"not equal", ir.NewModule(ir.NotEqual(x, ir.Constant(2)), ir.NotEqual(ir.Constant(1), y))},
		{"within", ir.NewModule(ir.NewWithin(ir.Sub(v, u), domain.Bound(4, 5)))},
		{"booleans", ir.NewModule(ir.NewIfOnlyIf(a, b), ir.NewNot(c), ir.NewOr(c, a))},
		{"implication", ir.NewModule(ir.NewImplies(ir.True, ir.LessThanEqual(y, x)))},
		{"all different", ir.NewModule(ir.NewAllDifferent(u, ir.Constant(1), z))},
		{"conjunction", ir.NewModule(ir.NewAnd(ir.LessThanEqual(x, z), ir.Equal(z, u)))},
		{"reified", ir.NewModule(ir.NewIfOnlyIf(a, ir.Equal(x, ir.Constant(0))), a)},
		{"contradiction", ir.NewModule(ir.Equal(z, v), ir.NotEqual(v, ir.Constant(2)))},
		{"disjoint", ir.NewModule(ir.Equal(u, ir.Plus(v, 10)))},
		{"element", ir.NewModule(ir.Equal(
			ir.NewElement(ir.NewIntArray(x, ir.Constant(2), z), ir.Int("i", domain.Bound(0, 3))),
			ir.Constant(2)))},
		{"count forces", ir.NewModule(ir.Equal(ir.NewCount(1, u, z, ir.Constant(1)), ir.Constant(3)))},
		{"count forbids", ir.NewModule(ir.LessThanEqual(ir.NewCount(2, u, z), ir.Constant(0)))},
		{"select n", ir.NewModule(ir.NewSelectN(
			[]ir.BoolExpr{ir.True, a, b, ir.False}, ir.Int("k", domain.Bound(0, 4))))},
	}
	tests = append(tests, arraySoundnessCases()...)
	tests = append(tests, setSoundnessCases()...)
	tests = append(tests, stringSoundnessCases()...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkSound(t, tt.m)
		})
	}
}

func arraySoundnessCases() []struct {
	name string
	m    *ir.Module
} {
	x := ir.Int("x", domain.Bound(0, 3))
	y := ir.Int("y", domain.Bound(1, 4))
	z := ir.Int("z", domain.Bound(0, 2))
	u := ir.Int("u", domain.Bound(0, 2))
	k := ir.Int("k", domain.Bound(0, 1))
	xyz := ir.NewIntArray(x, y, z)
	r0 := ir.Int("r0", domain.Bound(0, 2))
	r1 := ir.Int("r1", domain.Bound(0, 2))
	r2 := ir.Int("r2", domain.Bound(0, 2))

	return []struct {
		name string
		m    *ir.Module
	}{
		{"array equality", ir.NewModule(ir.NewArrayEquality(
			ir.NewIntArray(x, y), ir.OpEqual, ir.NewIntArray(z, ir.Constant(2))))},
		{"constant subarray", ir.NewModule(ir.NewArrayEquality(
			ir.NewSubarray(xyz, ir.Constant(1), 2), ir.OpEqual, ir.NewIntArray(u, ir.Constant(1))))},
		{"variable subarray", ir.NewModule(ir.NewArrayEquality(
			ir.NewSubarray(xyz, k, 2), ir.OpEqual, ir.NewIntArray(ir.Constant(1), ir.Constant(2))))},
		{"strict string sort", ir.NewModule(ir.NewSortStrings(
			[][]ir.IntExpr{{x, y}, {z, ir.Constant(1)}}, true))},
		{"string sort", ir.NewModule(ir.NewSortStrings(
			[][]ir.IntExpr{{ir.Constant(2), y}, {x, z}}, false))},
		{"sort channel", ir.NewModule(ir.NewSortStringsChannel(
			[][]ir.IntExpr{{x}, {z}, {ir.Constant(1)}}, []ir.IntExpr{r0, r1, r2}))},
		{"sort channel with equal strings", ir.NewModule(ir.NewSortStringsChannel(
			[][]ir.IntExpr{{ir.Constant(1)}, {ir.Constant(1)}, {ir.Int("w", domain.Bound(2, 4))}},
			[]ir.IntExpr{r0, r1, r2}))},
	}
}

func setSoundnessCases() []struct {
	name string
	m    *ir.Module
} {
	x := ir.Int("x", domain.Bound(0, 3))
	z := ir.Int("z", domain.Bound(0, 2))
	u := ir.Int("u", domain.Bound(0, 2))
	low := ir.Set("low", domain.Bound(0, 1), domain.Empty())
	mid := ir.Set("mid", domain.Bound(1, 3), domain.Empty())
	high := ir.Set("high", domain.Bound(2, 3), domain.Empty())
	wide := ir.Set("wide", domain.Bound(0, 2), domain.Empty())
	take := ir.Set("take", domain.Bound(0, 2), domain.Empty())
	a, b := ir.Bool("a"), ir.Bool("b")

	pair := ir.Set("pair", domain.Bound(0, 1), domain.Empty())
	fixed := func(name string, env domain.Domain) *ir.SetVar {
		return ir.SetWithCard(name, env, domain.Empty(), domain.Constant(2))
	}

	return []struct {
		name string
		m    *ir.Module
	}{
		{"membership", ir.NewModule(ir.NewMember(x, mid), ir.NewNotMember(ir.Constant(2), mid))},
		{"subset", ir.NewModule(ir.NewSubsetEq(wide, mid))},
		{"equal sets", ir.NewModule(ir.SetEqual(ir.Set("s", domain.Bound(0, 2), domain.Constant(1)), mid))},
		{"bool channel", ir.NewModule(ir.NewBoolChannel([]ir.BoolExpr{ir.True, a, b}, mid))},
		{"int channel", ir.NewModule(ir.NewIntChannel(
			[]ir.IntExpr{x, ir.Int("i", domain.Bound(0, 1)), ir.Constant(1)},
			[]ir.SetExpr{wide, ir.Set("all", domain.Bound(0, 3), domain.Empty())}))},
		{"sort sets", ir.NewModule(ir.NewSortSets(
			[]ir.SetExpr{wide, ir.Set("next", domain.Bound(0, 2), domain.Empty())},
			[]ir.IntExpr{ir.Int("b0", domain.Bound(0, 3)), ir.Int("b1", domain.Bound(0, 3))}))},
		{"singleton", ir.NewModule(ir.NewSubsetEq(ir.NewSingleton(x), mid))},
		{"array to set member", ir.NewModule(ir.NewMember(ir.Constant(3), ir.NewArrayToSet(x, z)))},
		{"array to set of one value", ir.NewModule(ir.Equal(ir.NewCard(ir.NewArrayToSet(u, z)), ir.Constant(1)))},
		{"set element", ir.NewModule(ir.NewMember(ir.Constant(2),
			ir.NewSetElement(ir.NewSetArray(low, mid), ir.Int("k", domain.Bound(0, 2)))))},
		{"disjoint union", ir.NewModule(
			ir.Equal(ir.NewCard(ir.NewSetUnion(true, low, high)), ir.Constant(3)),
			ir.NewMember(ir.Constant(1), ir.NewSetUnion(false, low, high)))},
		{"intersection", ir.NewModule(ir.NewMember(ir.Constant(1), ir.NewSetIntersection(low, mid)))},
		{"difference", ir.NewModule(ir.NewMember(ir.Constant(0), ir.NewSetDifference(low, wide)))},
		{"offset", ir.NewModule(ir.SetEqual(ir.NewSetOffset(low, 2), mid))},
		{"join relation", ir.NewModule(ir.Equal(
			ir.NewCard(ir.NewJoinRelation(pair, ir.NewSetArray(low, high), true)), ir.Constant(3)))},
		{"injective join of fixed cardinalities", ir.NewModule(ir.Equal(
			ir.NewCard(ir.NewJoinRelation(take, ir.NewSetArray(
				fixed("c0", domain.Bound(0, 1)),
				fixed("c1", domain.Bound(2, 3)),
				fixed("c2", domain.Bound(4, 5))), true)),
			ir.Constant(4)))},
		{"join function member", ir.NewModule(ir.NewMember(ir.Constant(3),
			ir.NewJoinFunction(take, ir.NewIntArray(x, ir.Constant(1), z), 0)))},
		{"join function cardinality", ir.NewModule(ir.Equal(
			ir.NewCard(ir.NewJoinFunction(take, ir.NewIntArray(u, z, ir.Constant(1)), 1)),
			ir.Constant(1)))},
	}
}

func stringSoundnessCases() []struct {
	name string
	m    *ir.Module
} {
	ab := domain.Enum('a', 'b')
	aOnly := domain.Constant('a')
	word := func() *ir.StringVar { return smallString("w", domain.Bound(1, 3), ab, ab, ab) }

	return []struct {
		name string
		m    *ir.Module
	}{
		{"equal strings", ir.NewModule(ir.StringEqual(
			smallString("l", domain.Bound(1, 2), ab, ab), smallString("r", domain.Bound(0, 2), ab, ab)))},
		{"string less than", ir.NewModule(ir.StringLessThan(
			smallString("l", domain.Bound(1, 2), ab, ab), smallString("r", domain.Bound(1, 2), aOnly, ab)))},
		{"string less than or equal", ir.NewModule(ir.NewStringCompare(
			smallString("l", domain.Bound(1, 2), ab, ab), ir.OpLessThanEqual,
			smallString("r", domain.Bound(1, 2), aOnly, ab)))},
		{"length", ir.NewModule(ir.Equal(ir.NewLength(word()), ir.Constant(2)))},
		{"prefix", ir.NewModule(ir.NewPrefix(smallString("p", domain.Bound(0, 2), ab, ab), word()))},
		{"suffix", ir.NewModule(ir.NewSuffix(smallString("s", domain.Constant(2), ab, ab), word()))},
		{"concatenation", ir.NewModule(ir.StringEqual(
			smallString("c", domain.Bound(0, 2), ab, ab),
			ir.NewConcat(
				smallString("l", domain.Bound(0, 1), aOnly),
				smallString("r", domain.Bound(0, 1), domain.Constant('b')))))},
	}
}
