package ir

import (
	"fmt"

	"github.com/gitrdm/gokanir/pkg/domain"
)

// setNode holds the derived shape of a non-variable set expression.
type setNode struct {
	env, ker, card domain.Domain
}

func (s setNode) Env() domain.Domain  { return s.env }
func (s setNode) Ker() domain.Domain  { return s.ker }
func (s setNode) Card() domain.Domain { return s.card }
func (setNode) expr()                 {}
func (setNode) setExpr()              {}

func newSetNode(env, ker domain.Domain, low, high int) setNode {
	high = min(high, env.Size())
	low = max(low, ker.Size())
	if low > high {
		low = high
	}
	return setNode{env: env, ker: ker, card: domain.Bound(low, high)}
}

// Singleton is the set {value}.
type Singleton struct {
	setNode
	value IntExpr
}

// NewSingleton returns {value}.
func NewSingleton(value IntExpr) *Singleton {
	d := value.Domain()
	var ker domain.Domain
	if d.IsConstant() {
		ker = d
	}
	return &Singleton{setNode: setNode{env: d, ker: ker, card: domain.Constant(1)}, value: value}
}

func (s *Singleton) Value() IntExpr { return s.value }
func (s *Singleton) String() string { return "{" + s.value.String() + "}" }

// ArrayToSet is the set of values taken by the array elements.
type ArrayToSet struct {
	setNode
	array []IntExpr
}

// NewArrayToSet returns the set of values taken by array.
func NewArrayToSet(array ...IntExpr) *ArrayToSet {
	var env, ker domain.Domain
	for _, e := range array {
		d := e.Domain()
		env = env.Union(d)
		if d.IsConstant() {
			ker = ker.Union(d)
		}
	}
	low := 0
	if len(array) > 0 {
		low = 1
	}
	return &ArrayToSet{setNode: newSetNode(env, ker, low, len(array)), array: array}
}

func (a *ArrayToSet) Array() []IntExpr { return a.array }
func (a *ArrayToSet) String() string   { return "set(" + joinExprs(a.array) + ")" }

// SetElement is array[index] over an array of sets.
type SetElement struct {
	setNode
	array SetArrayExpr
	index IntExpr
}

// NewSetElement panics if no value of index is a valid position of array.
func NewSetElement(array SetArrayExpr, index IntExpr) *SetElement {
	envs, kers, cards := array.Envs(), array.Kers(), array.Cards()
	var env, ker, card domain.Domain
	first := true
	for i := range index.Domain().All() {
		if i < 0 || i >= len(envs) {
			continue
		}
		env = env.Union(envs[i])
		card = card.Union(cards[i])
		if first {
			ker = kers[i]
			first = false
		} else {
			ker = ker.Intersection(kers[i])
		}
	}
	if first {
		panic(fmt.Sprintf("ir: index %v has no position in a set array of length %d", index, len(envs)))
	}
	return &SetElement{setNode: newSetNode(env, ker, card.Low(), card.High()), array: array, index: index}
}

func (s *SetElement) Array() SetArrayExpr { return s.array }
func (s *SetElement) Index() IntExpr      { return s.index }
func (s *SetElement) String() string      { return s.array.String() + "[" + s.index.String() + "]" }

// JoinRelation is the relational image of take through children: the union
// of children[i] for every i in take.
type JoinRelation struct {
	setNode
	take      SetExpr
	children  SetArrayExpr
	injective bool
}

// NewJoinRelation returns take.children. When injective holds the children
// are pairwise disjoint.
func NewJoinRelation(take SetExpr, children SetArrayExpr, injective bool) *JoinRelation {
	envs, kers, cards := children.Envs(), children.Kers(), children.Cards()
	var env, ker domain.Domain
	high, injLow := 0, 0
	for i := range take.Env().All() {
		if i < 0 || i >= len(envs) {
			continue
		}
		env = env.Union(envs[i])
		high += cards[i].High()
	}
	for i := range take.Ker().All() {
		if i < 0 || i >= len(envs) {
			continue
		}
		ker = ker.Union(kers[i])
		injLow += cards[i].Low()
	}
	low := 0
	if injective {
		low = injLow
	}
	return &JoinRelation{
		setNode:   newSetNode(env, ker, low, high),
		take:      take,
		children:  children,
		injective: injective,
	}
}

func (j *JoinRelation) Take() SetExpr          { return j.take }
func (j *JoinRelation) Children() SetArrayExpr { return j.children }
func (j *JoinRelation) IsInjective() bool      { return j.injective }
func (j *JoinRelation) String() string         { return j.take.String() + "." + j.children.String() }

// JoinFunction is the functional image of take through refs: the set of
// refs[i] for every i in take.
type JoinFunction struct {
	setNode
	take       SetExpr
	refs       IntArrayExpr
	globalCard int
}

// NewJoinFunction returns take.refs. A positive globalCard bounds how many
// elements of take may map to one value, so |take| ≤ globalCard·|take.refs|.
// Zero means unbounded.
func NewJoinFunction(take SetExpr, refs IntArrayExpr, globalCard int) *JoinFunction {
	domains := refs.Domains()
	var env, ker domain.Domain
	for i := range take.Env().All() {
		if i >= 0 && i < len(domains) {
			env = env.Union(domains[i])
		}
	}
	for i := range take.Ker().All() {
		if i >= 0 && i < len(domains) && domains[i].IsConstant() {
			ker = ker.Union(domains[i])
		}
	}
	low := 0
	if !take.Ker().IsEmpty() {
		low = 1
	}
	if globalCard > 0 {
		low = max(low, (take.Card().Low()+globalCard-1)/globalCard)
	}
	return &JoinFunction{
		setNode:    newSetNode(env, ker, low, take.Card().High()),
		take:       take,
		refs:       refs,
		globalCard: globalCard,
	}
}

func (j *JoinFunction) Take() SetExpr      { return j.take }
func (j *JoinFunction) Refs() IntArrayExpr { return j.refs }
func (j *JoinFunction) GlobalCard() int    { return j.globalCard }
func (j *JoinFunction) String() string     { return j.take.String() + "." + j.refs.String() }

// SetUnion is the union of its operands, optionally known to be disjoint.
type SetUnion struct {
	setNode
	operands []SetExpr
	disjoint bool
}

// NewSetUnion returns the union of operands. When disjoint holds the
// operands are pairwise disjoint.
func NewSetUnion(disjoint bool, operands ...SetExpr) *SetUnion {
	var env, ker domain.Domain
	low, high := 0, 0
	for _, o := range operands {
		env = env.Union(o.Env())
		ker = ker.Union(o.Ker())
		if disjoint {
			low += o.Card().Low()
		} else {
			low = max(low, o.Card().Low())
		}
		high += o.Card().High()
	}
	return &SetUnion{setNode: newSetNode(env, ker, low, high), operands: operands, disjoint: disjoint}
}

func (u *SetUnion) Operands() []SetExpr { return u.operands }
func (u *SetUnion) IsDisjoint() bool    { return u.disjoint }
func (u *SetUnion) String() string      { return "union(" + joinExprs(u.operands) + ")" }

// SetIntersection is the intersection of its operands.
type SetIntersection struct {
	setNode
	operands []SetExpr
}

// NewSetIntersection panics without operands.
func NewSetIntersection(operands ...SetExpr) *SetIntersection {
	if len(operands) == 0 {
		panic("ir: intersection of no sets")
	}
	env, ker := operands[0].Env(), operands[0].Ker()
	high := operands[0].Card().High()
	for _, o := range operands[1:] {
		env = env.Intersection(o.Env())
		ker = ker.Intersection(o.Ker())
		high = min(high, o.Card().High())
	}
	return &SetIntersection{setNode: newSetNode(env, ker, 0, high), operands: operands}
}

func (s *SetIntersection) Operands() []SetExpr { return s.operands }
func (s *SetIntersection) String() string      { return "intersection(" + joinExprs(s.operands) + ")" }

// SetDifference is minuend \ subtrahend.
type SetDifference struct {
	setNode
	minuend, subtrahend SetExpr
}

// NewSetDifference returns minuend \ subtrahend.
func NewSetDifference(minuend, subtrahend SetExpr) *SetDifference {
	env := minuend.Env().Difference(subtrahend.Ker())
	ker := minuend.Ker().Difference(subtrahend.Env())
	low := minuend.Card().Low() - subtrahend.Card().High()
	return &SetDifference{
		setNode:    newSetNode(env, ker, low, minuend.Card().High()),
		minuend:    minuend,
		subtrahend: subtrahend,
	}
}

func (d *SetDifference) Minuend() SetExpr    { return d.minuend }
func (d *SetDifference) Subtrahend() SetExpr { return d.subtrahend }
func (d *SetDifference) String() string {
	return "(" + d.minuend.String() + " - " + d.subtrahend.String() + ")"
}

// SetOffset shifts every member of a set by a constant.
type SetOffset struct {
	setNode
	set    SetExpr
	offset int
}

// NewSetOffset returns {v + offset | v ∈ set}.
func NewSetOffset(set SetExpr, offset int) *SetOffset {
	return &SetOffset{
		setNode: setNode{env: set.Env().Offset(offset), ker: set.Ker().Offset(offset), card: set.Card()},
		set:     set,
		offset:  offset,
	}
}

func (s *SetOffset) Set() SetExpr   { return s.set }
func (s *SetOffset) Offset() int    { return s.offset }
func (s *SetOffset) String() string { return fmt.Sprintf("(%v >> %d)", s.set, s.offset) }
