package ir

import (
	"fmt"
	"strings"

	"github.com/gitrdm/gokanir/pkg/domain"
)

// boolNode supplies the shared markers of non-variable boolean expressions.
// A constraint node is not folded at construction, so its domain is {0, 1}.
type boolNode struct{}

func (boolNode) Domain() domain.Domain { return domain.BoolDomain }
func (boolNode) expr()                 {}
func (boolNode) intExpr()              {}
func (boolNode) boolExpr()             {}

// CompareOp is a binary relation between two values of the same sort.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLessThan
	OpLessThanEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessThanEqual:
		return "<="
	}
	return fmt.Sprintf("CompareOp(%d)", int(op))
}

// Not is the negation of a boolean expression.
type Not struct {
	boolNode
	operand BoolExpr
}

// NewNot returns the negation of b.
func NewNot(b BoolExpr) *Not     { return &Not{operand: b} }
func (n *Not) Operand() BoolExpr { return n.operand }
func (n *Not) String() string    { return "!" + n.operand.String() }

// And is the conjunction of its operands.
type And struct {
	boolNode
	operands []BoolExpr
}

// NewAnd returns the conjunction of operands. It holds when there are
// no operands.
func NewAnd(operands ...BoolExpr) *And { return &And{operands: operands} }
func (a *And) Operands() []BoolExpr    { return a.operands }
func (a *And) String() string          { return "and(" + joinExprs(a.operands) + ")" }

// Or is the disjunction of its operands.
type Or struct {
	boolNode
	operands []BoolExpr
}

// NewOr returns the disjunction of operands. It fails when there are no
// operands.
func NewOr(operands ...BoolExpr) *Or { return &Or{operands: operands} }
func (o *Or) Operands() []BoolExpr   { return o.operands }
func (o *Or) String() string         { return "or(" + joinExprs(o.operands) + ")" }

// Implies is antecedent ⇒ consequent.
type Implies struct {
	boolNode
	antecedent BoolExpr
	consequent BoolExpr
}

// NewImplies returns antecedent ⇒ consequent.
func NewImplies(antecedent, consequent BoolExpr) *Implies {
	return &Implies{antecedent: antecedent, consequent: consequent}
}

func (i *Implies) Antecedent() BoolExpr { return i.antecedent }
func (i *Implies) Consequent() BoolExpr { return i.consequent }
func (i *Implies) String() string {
	return "(" + i.antecedent.String() + " => " + i.consequent.String() + ")"
}

// IfOnlyIf is left ⇔ right.
type IfOnlyIf struct {
	boolNode
	left, right BoolExpr
}

// NewIfOnlyIf returns left ⇔ right.
func NewIfOnlyIf(left, right BoolExpr) *IfOnlyIf { return &IfOnlyIf{left: left, right: right} }
func (i *IfOnlyIf) Left() BoolExpr               { return i.left }
func (i *IfOnlyIf) Right() BoolExpr              { return i.right }
func (i *IfOnlyIf) String() string {
	return "(" + i.left.String() + " <=> " + i.right.String() + ")"
}

// Within constrains value to a constant range.
type Within struct {
	boolNode
	value IntExpr
	rng   domain.Domain
}

// NewWithin constrains value to the constant range rng.
func NewWithin(value IntExpr, rng domain.Domain) *Within { return &Within{value: value, rng: rng} }
func (w *Within) Value() IntExpr                         { return w.value }
func (w *Within) Range() domain.Domain                   { return w.rng }
func (w *Within) String() string                         { return w.value.String() + " in " + w.rng.String() }

// Compare relates two integer expressions.
type Compare struct {
	boolNode
	left, right IntExpr
	op          CompareOp
}

// NewCompare returns left op right.
func NewCompare(left IntExpr, op CompareOp, right IntExpr) *Compare {
	return &Compare{left: left, right: right, op: op}
}

// Equal returns left = right.
func Equal(left, right IntExpr) *Compare { return NewCompare(left, OpEqual, right) }

// NotEqual returns left ≠ right.
func NotEqual(left, right IntExpr) *Compare { return NewCompare(left, OpNotEqual, right) }

// LessThan returns left < right.
func LessThan(left, right IntExpr) *Compare { return NewCompare(left, OpLessThan, right) }

// LessThanEqual returns left ≤ right.
func LessThanEqual(left, right IntExpr) *Compare { return NewCompare(left, OpLessThanEqual, right) }

// GreaterThan returns left > right, stored as right < left.
func GreaterThan(left, right IntExpr) *Compare { return NewCompare(right, OpLessThan, left) }

// GreaterThanEqual returns left ≥ right, stored as right ≤ left.
func GreaterThanEqual(left, right IntExpr) *Compare {
	return NewCompare(right, OpLessThanEqual, left)
}

func (c *Compare) Left() IntExpr  { return c.left }
func (c *Compare) Right() IntExpr { return c.right }
func (c *Compare) Op() CompareOp  { return c.op }
func (c *Compare) String() string { return c.left.String() + " " + c.op.String() + " " + c.right.String() }

// ArrayEquality relates two integer arrays position by position. Only
// OpEqual and OpNotEqual are meaningful.
type ArrayEquality struct {
	boolNode
	left, right IntArrayExpr
	op          CompareOp
}

// NewArrayEquality panics if the arrays differ in length or op is an
// ordering.
func NewArrayEquality(left IntArrayExpr, op CompareOp, right IntArrayExpr) *ArrayEquality {
	if left.Len() != right.Len() {
		panic(fmt.Sprintf("ir: array equality over lengths %d and %d", left.Len(), right.Len()))
	}
	if op != OpEqual && op != OpNotEqual {
		panic("ir: array equality supports only = and !=")
	}
	return &ArrayEquality{left: left, right: right, op: op}
}

func (a *ArrayEquality) Left() IntArrayExpr  { return a.left }
func (a *ArrayEquality) Right() IntArrayExpr { return a.right }
func (a *ArrayEquality) Op() CompareOp       { return a.op }
func (a *ArrayEquality) String() string {
	return a.left.String() + " " + a.op.String() + " " + a.right.String()
}

// SetEquality relates two set expressions. Only OpEqual and OpNotEqual are
// meaningful.
type SetEquality struct {
	boolNode
	left, right SetExpr
	op          CompareOp
}

// NewSetEquality returns left op right. It panics unless op is OpEqual or
// OpNotEqual.
func NewSetEquality(left SetExpr, op CompareOp, right SetExpr) *SetEquality {
	if op != OpEqual && op != OpNotEqual {
		panic("ir: set equality supports only = and !=")
	}
	return &SetEquality{left: left, right: right, op: op}
}

// SetEqual returns left = right over sets.
func SetEqual(left, right SetExpr) *SetEquality { return NewSetEquality(left, OpEqual, right) }

// SetNotEqual returns left ≠ right over sets.
func SetNotEqual(left, right SetExpr) *SetEquality { return NewSetEquality(left, OpNotEqual, right) }

func (s *SetEquality) Left() SetExpr  { return s.left }
func (s *SetEquality) Right() SetExpr { return s.right }
func (s *SetEquality) Op() CompareOp  { return s.op }
func (s *SetEquality) String() string {
	return s.left.String() + " " + s.op.String() + " " + s.right.String()
}

// StringCompare relates two strings; orderings are lexicographic.
type StringCompare struct {
	boolNode
	left, right StringExpr
	op          CompareOp
}

// NewStringCompare returns left op right over strings.
func NewStringCompare(left StringExpr, op CompareOp, right StringExpr) *StringCompare {
	return &StringCompare{left: left, right: right, op: op}
}

// StringEqual returns left = right over strings.
func StringEqual(left, right StringExpr) *StringCompare {
	return NewStringCompare(left, OpEqual, right)
}

// StringLessThan returns left < right in lexicographic order.
func StringLessThan(left, right StringExpr) *StringCompare {
	return NewStringCompare(left, OpLessThan, right)
}

func (s *StringCompare) Left() StringExpr  { return s.left }
func (s *StringCompare) Right() StringExpr { return s.right }
func (s *StringCompare) Op() CompareOp     { return s.op }
func (s *StringCompare) String() string {
	return s.left.String() + " " + s.op.String() + " " + s.right.String()
}

// Member is element ∈ set.
type Member struct {
	boolNode
	element IntExpr
	set     SetExpr
}

// NewMember returns element ∈ set.
func NewMember(element IntExpr, set SetExpr) *Member { return &Member{element: element, set: set} }
func (m *Member) Element() IntExpr                   { return m.element }
func (m *Member) Set() SetExpr                       { return m.set }
func (m *Member) String() string                     { return m.element.String() + " in " + m.set.String() }

// NotMember is element ∉ set.
type NotMember struct {
	boolNode
	element IntExpr
	set     SetExpr
}

// NewNotMember returns element ∉ set.
func NewNotMember(element IntExpr, set SetExpr) *NotMember {
	return &NotMember{element: element, set: set}
}

func (m *NotMember) Element() IntExpr { return m.element }
func (m *NotMember) Set() SetExpr     { return m.set }
func (m *NotMember) String() string   { return m.element.String() + " not in " + m.set.String() }

// SubsetEq is subset ⊆ superset.
type SubsetEq struct {
	boolNode
	subset, superset SetExpr
}

// NewSubsetEq returns subset ⊆ superset.
func NewSubsetEq(subset, superset SetExpr) *SubsetEq {
	return &SubsetEq{subset: subset, superset: superset}
}

func (s *SubsetEq) Subset() SetExpr   { return s.subset }
func (s *SubsetEq) Superset() SetExpr { return s.superset }
func (s *SubsetEq) String() string {
	return s.subset.String() + " subsetEq " + s.superset.String()
}

// BoolChannel states that bools[i] holds exactly when i ∈ set.
type BoolChannel struct {
	boolNode
	bools []BoolExpr
	set   SetExpr
}

// NewBoolChannel links bools to set: bools[i] holds exactly when i ∈ set,
// and set holds no integer outside [0, len(bools)).
func NewBoolChannel(bools []BoolExpr, set SetExpr) *BoolChannel {
	return &BoolChannel{bools: bools, set: set}
}

func (b *BoolChannel) Bools() []BoolExpr { return b.bools }
func (b *BoolChannel) Set() SetExpr      { return b.set }
func (b *BoolChannel) String() string {
	return "boolChannel([" + joinExprs(b.bools) + "], " + b.set.String() + ")"
}

// IntChannel states that ints[i] = j exactly when i ∈ sets[j]; the sets
// partition the positions of ints.
type IntChannel struct {
	boolNode
	ints []IntExpr
	sets []SetExpr
}

// NewIntChannel links ints to sets: every ints[i] is in [0, len(sets)) and
// sets[j] is exactly {i | ints[i] = j}.
func NewIntChannel(ints []IntExpr, sets []SetExpr) *IntChannel {
	return &IntChannel{ints: ints, sets: sets}
}

func (c *IntChannel) Ints() []IntExpr { return c.ints }
func (c *IntChannel) Sets() []SetExpr { return c.sets }
func (c *IntChannel) String() string {
	return "intChannel([" + joinExprs(c.ints) + "], [" + joinExprs(c.sets) + "])"
}

// SortStrings orders character arrays lexicographically, strictly or not.
type SortStrings struct {
	boolNode
	strings [][]IntExpr
	strict  bool
}

// NewSortStrings panics if the arrays differ in length.
func NewSortStrings(strs [][]IntExpr, strict bool) *SortStrings {
	checkSameLength(strs)
	return &SortStrings{strings: strs, strict: strict}
}

func (s *SortStrings) Strings() [][]IntExpr { return s.strings }
func (s *SortStrings) IsStrict() bool       { return s.strict }
func (s *SortStrings) String() string {
	name := "sort"
	if s.strict {
		name = "sortStrict"
	}
	return name + "(" + joinStrings(s.strings) + ")"
}

// SortSets lays sets out contiguously: set i holds exactly the integers in
// [bounds[i-1], bounds[i]) with bounds[-1] = 0 and bounds[i] the running sum
// of cardinalities.
type SortSets struct {
	boolNode
	sets   []SetExpr
	bounds []IntExpr
}

// NewSortSets lays sets out contiguously from 0, with bounds[i] the end of
// sets[i]. It panics if the slices differ in length.
func NewSortSets(sets []SetExpr, bounds []IntExpr) *SortSets {
	if len(sets) != len(bounds) {
		panic(fmt.Sprintf("ir: sortSets over %d sets and %d bounds", len(sets), len(bounds)))
	}
	return &SortSets{sets: sets, bounds: bounds}
}

func (s *SortSets) Sets() []SetExpr   { return s.sets }
func (s *SortSets) Bounds() []IntExpr { return s.bounds }
func (s *SortSets) String() string {
	return "sortSets([" + joinExprs(s.sets) + "], [" + joinExprs(s.bounds) + "])"
}

// SortStringsChannel states that ints[i] is the rank of strings[i] among
// the distinct strings: equal strings share a rank and ranks preserve order.
type SortStringsChannel struct {
	boolNode
	strings [][]IntExpr
	ints    []IntExpr
}

// NewSortStringsChannel ranks strs: ints[i] is the number of distinct
// strings strictly less than strs[i]. It panics if the slices differ in
// length or the character arrays differ in length.
func NewSortStringsChannel(strs [][]IntExpr, ints []IntExpr) *SortStringsChannel {
	if len(strs) != len(ints) {
		panic(fmt.Sprintf("ir: sortStringsChannel over %d strings and %d ints", len(strs), len(ints)))
	}
	checkSameLength(strs)
	return &SortStringsChannel{strings: strs, ints: ints}
}

func (s *SortStringsChannel) Strings() [][]IntExpr { return s.strings }
func (s *SortStringsChannel) Ints() []IntExpr      { return s.ints }
func (s *SortStringsChannel) String() string {
	return "sortChannel(" + joinStrings(s.strings) + ", [" + joinExprs(s.ints) + "])"
}

// AllDifferent states that the operands take pairwise distinct values.
type AllDifferent struct {
	boolNode
	operands []IntExpr
}

// NewAllDifferent states that operands take pairwise distinct values.
func NewAllDifferent(operands ...IntExpr) *AllDifferent { return &AllDifferent{operands: operands} }
func (a *AllDifferent) Operands() []IntExpr             { return a.operands }
func (a *AllDifferent) String() string                  { return "allDifferent(" + joinExprs(a.operands) + ")" }

// SelectN states that bools[i] holds exactly when i < n, where
// 0 ≤ n ≤ len(bools).
type SelectN struct {
	boolNode
	bools []BoolExpr
	n     IntExpr
}

// NewSelectN states that the first n of bools hold and the rest do not.
// n must lie in [0, len(bools)].
func NewSelectN(bools []BoolExpr, n IntExpr) *SelectN { return &SelectN{bools: bools, n: n} }
func (s *SelectN) Bools() []BoolExpr                  { return s.bools }
func (s *SelectN) N() IntExpr                         { return s.n }
func (s *SelectN) String() string {
	return "selectN([" + joinExprs(s.bools) + "], " + s.n.String() + ")"
}

// Prefix states that prefix is a prefix of word.
type Prefix struct {
	boolNode
	prefix, word StringExpr
}

// NewPrefix states that prefix is a prefix of word.
func NewPrefix(prefix, word StringExpr) *Prefix { return &Prefix{prefix: prefix, word: word} }
func (p *Prefix) Prefix() StringExpr            { return p.prefix }
func (p *Prefix) Word() StringExpr              { return p.word }
func (p *Prefix) String() string                { return p.prefix.String() + " prefix " + p.word.String() }

// Suffix states that suffix is a suffix of word.
type Suffix struct {
	boolNode
	suffix, word StringExpr
}

// NewSuffix states that suffix is a suffix of word.
func NewSuffix(suffix, word StringExpr) *Suffix { return &Suffix{suffix: suffix, word: word} }
func (s *Suffix) Suffix() StringExpr            { return s.suffix }
func (s *Suffix) Word() StringExpr              { return s.word }
func (s *Suffix) String() string                { return s.suffix.String() + " suffix " + s.word.String() }

func checkSameLength(strs [][]IntExpr) {
	for _, s := range strs {
		if len(s) != len(strs[0]) {
			panic(fmt.Sprintf("ir: character arrays of lengths %d and %d", len(strs[0]), len(s)))
		}
	}
}

func joinStrings(strs [][]IntExpr) string {
	parts := make([]string, len(strs))
	for i, s := range strs {
		parts[i] = "[" + joinExprs(s) + "]"
	}
	return strings.Join(parts, ", ")
}
