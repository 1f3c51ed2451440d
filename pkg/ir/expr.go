package ir

import (
	"fmt"
	"strings"

	"github.com/gitrdm/gokanir/pkg/domain"
)

// Expr is any IR node. The set of implementations is closed: every node type
// lives in this package and analyses switch over them exhaustively.
type Expr interface {
	fmt.Stringer
	expr()
}

// IntExpr is an integer-valued expression. Domain is the statically known
// superset of the values it can take.
type IntExpr interface {
	Expr
	Domain() domain.Domain
	intExpr()
}

// BoolExpr is a boolean-valued expression, encoded as an integer in {0, 1}.
// Module constraints are BoolExprs.
type BoolExpr interface {
	IntExpr
	boolExpr()
}

// SetExpr is a set-valued expression described by its envelope (possible
// members), kernel (certain members) and cardinality.
type SetExpr interface {
	Expr
	Env() domain.Domain
	Ker() domain.Domain
	Card() domain.Domain
	setExpr()
}

// StringExpr is a bounded-length string expression.
type StringExpr interface {
	Expr
	Chars() []domain.Domain
	Length() domain.Domain
	stringExpr()
}

// ConstantValue returns the value of e if its domain is a singleton.
func ConstantValue(e IntExpr) (int, bool) {
	d := e.Domain()
	if d.IsConstant() {
		return d.Low(), true
	}
	return 0, false
}

// IsTrue reports whether b is statically true.
func IsTrue(b BoolExpr) bool {
	return b.Domain().Equal(domain.TrueDomain)
}

// IsFalse reports whether b is statically false.
func IsFalse(b BoolExpr) bool {
	return b.Domain().Equal(domain.FalseDomain)
}

// AsIntVar returns the integer variable behind e when e is an IntVar or a
// BoolVar.
func AsIntVar(e IntExpr) (*IntVar, bool) {
	switch v := e.(type) {
	case *IntVar:
		return v, true
	case BoolVar:
		return v.v, true
	}
	return nil, false
}

// Minus is the negation -e.
type Minus struct {
	operand IntExpr
	dom     domain.Domain
}

// NewMinus returns -e.
func NewMinus(e IntExpr) *Minus {
	return &Minus{operand: e, dom: e.Domain().Minus()}
}

func (m *Minus) Operand() IntExpr      { return m.operand }
func (m *Minus) Domain() domain.Domain { return m.dom }
func (m *Minus) String() string        { return "-" + m.operand.String() }
func (*Minus) expr()                   {}
func (*Minus) intExpr()                {}

// Add is the sum of its addends plus a constant offset.
type Add struct {
	addends []IntExpr
	offset  int
	dom     domain.Domain
}

// NewAdd returns offset + Σ addends.
func NewAdd(offset int, addends ...IntExpr) *Add {
	var dom domain.Domain
	if len(addends) == 1 {
		dom = addends[0].Domain().Offset(offset)
	} else {
		low, high := offset, offset
		for _, a := range addends {
			low += a.Domain().Low()
			high += a.Domain().High()
		}
		dom = domain.Bound(low, high)
	}
	return &Add{addends: addends, offset: offset, dom: dom}
}

// Sum returns Σ addends.
func Sum(addends ...IntExpr) *Add {
	return NewAdd(0, addends...)
}

// Plus returns e + k.
func Plus(e IntExpr, k int) *Add {
	return NewAdd(k, e)
}

// Sub returns a - b.
func Sub(a, b IntExpr) *Add {
	return NewAdd(0, a, NewMinus(b))
}

// SubFrom returns k - e.
func SubFrom(k int, e IntExpr) *Add {
	return NewAdd(k, NewMinus(e))
}

// Addends returns the non-constant terms. The slice must not be modified.
func (a *Add) Addends() []IntExpr    { return a.addends }
func (a *Add) Offset() int           { return a.offset }
func (a *Add) Domain() domain.Domain { return a.dom }
func (*Add) expr()                   {}
func (*Add) intExpr()                {}

func (a *Add) String() string {
	parts := make([]string, 0, len(a.addends)+1)
	for _, e := range a.addends {
		parts = append(parts, e.String())
	}
	if a.offset != 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprint(a.offset))
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Card is the cardinality of a set expression.
type Card struct {
	set SetExpr
}

// NewCard returns |s|.
func NewCard(s SetExpr) *Card {
	return &Card{set: s}
}

func (c *Card) Set() SetExpr          { return c.set }
func (c *Card) Domain() domain.Domain { return c.set.Card() }
func (c *Card) String() string        { return "|" + c.set.String() + "|" }
func (*Card) expr()                   {}
func (*Card) intExpr()                {}

// Element is array[index].
type Element struct {
	array IntArrayExpr
	index IntExpr
	dom   domain.Domain
}

// NewElement returns array[index]. Panics if no value of index is a valid
// position of array.
func NewElement(array IntArrayExpr, index IntExpr) *Element {
	domains := array.Domains()
	var dom domain.Domain
	for i := range index.Domain().All() {
		if i >= 0 && i < len(domains) {
			dom = dom.Union(domains[i])
		}
	}
	if dom.IsEmpty() {
		panic(fmt.Sprintf("ir: index %v has no position in an array of length %d", index, len(domains)))
	}
	return &Element{array: array, index: index, dom: dom}
}

func (e *Element) Array() IntArrayExpr   { return e.array }
func (e *Element) Index() IntExpr        { return e.index }
func (e *Element) Domain() domain.Domain { return e.dom }
func (e *Element) String() string        { return e.array.String() + "[" + e.index.String() + "]" }
func (*Element) expr()                   {}
func (*Element) intExpr()                {}

// Count is the number of array elements equal to a constant value.
type Count struct {
	value int
	array []IntExpr
	dom   domain.Domain
}

// NewCount returns |{i | array[i] = value}|.
func NewCount(value int, array ...IntExpr) *Count {
	mandatory, possible := 0, 0
	for _, e := range array {
		d := e.Domain()
		if d.Contains(value) {
			if d.IsConstant() {
				mandatory++
			} else {
				possible++
			}
		}
	}
	return &Count{value: value, array: array, dom: domain.Bound(mandatory, mandatory+possible)}
}

func (c *Count) Value() int            { return c.value }
func (c *Count) Array() []IntExpr      { return c.array }
func (c *Count) Domain() domain.Domain { return c.dom }
func (c *Count) String() string        { return fmt.Sprintf("count(%d, %s)", c.value, joinExprs(c.array)) }
func (*Count) expr()                   {}
func (*Count) intExpr()                {}

// Length is the length of a string expression.
type Length struct {
	str StringExpr
}

// NewLength returns |s|.
func NewLength(s StringExpr) *Length {
	return &Length{str: s}
}

func (l *Length) Of() StringExpr        { return l.str }
func (l *Length) Domain() domain.Domain { return l.str.Length() }
func (l *Length) String() string        { return "|" + l.str.String() + "|" }
func (*Length) expr()                   {}
func (*Length) intExpr()                {}

func joinExprs[E Expr](es []E) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
