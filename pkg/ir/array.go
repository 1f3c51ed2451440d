package ir

import (
	"fmt"

	"github.com/gitrdm/gokanir/pkg/domain"
)

// IntArrayExpr is a fixed-length array of integers.
type IntArrayExpr interface {
	Expr
	Len() int
	Domains() []domain.Domain
	intArrayExpr()
}

// SetArrayExpr is a fixed-length array of sets.
type SetArrayExpr interface {
	Expr
	Len() int
	Envs() []domain.Domain
	Kers() []domain.Domain
	Cards() []domain.Domain
	setArrayExpr()
}

// IntArray is an array literal of integer expressions.
type IntArray struct {
	elems []IntExpr
}

// NewIntArray returns the array literal [elems...].
func NewIntArray(elems ...IntExpr) *IntArray { return &IntArray{elems: elems} }

// Elems returns the elements. The slice must not be modified.
func (a *IntArray) Elems() []IntExpr { return a.elems }
func (a *IntArray) Len() int         { return len(a.elems) }
func (a *IntArray) String() string   { return "[" + joinExprs(a.elems) + "]" }
func (*IntArray) expr()              {}
func (*IntArray) intArrayExpr()      {}

func (a *IntArray) Domains() []domain.Domain {
	domains := make([]domain.Domain, len(a.elems))
	for i, e := range a.elems {
		domains[i] = e.Domain()
	}
	return domains
}

// Subarray is the window array[index : index+length]. When index is not a
// constant, position i ranges over every element the window may cover.
type Subarray struct {
	array   IntArrayExpr
	index   IntExpr
	length  int
	domains []domain.Domain
}

// NewSubarray panics if no value of index leaves the window inside array.
func NewSubarray(array IntArrayExpr, index IntExpr, length int) *Subarray {
	src := array.Domains()
	domains := make([]domain.Domain, length)
	valid := false
	for j := range index.Domain().All() {
		if j < 0 || j+length > len(src) {
			continue
		}
		valid = true
		for i := range domains {
			domains[i] = domains[i].Union(src[j+i])
		}
	}
	if !valid {
		panic(fmt.Sprintf("ir: subarray of length %d at %v does not fit an array of length %d",
			length, index, len(src)))
	}
	return &Subarray{array: array, index: index, length: length, domains: domains}
}

func (s *Subarray) Array() IntArrayExpr { return s.array }
func (s *Subarray) Index() IntExpr      { return s.index }
func (s *Subarray) Len() int            { return s.length }
func (*Subarray) expr()                 {}
func (*Subarray) intArrayExpr()         {}

func (s *Subarray) Domains() []domain.Domain {
	return append([]domain.Domain(nil), s.domains...)
}

func (s *Subarray) String() string {
	return fmt.Sprintf("%v[%v:+%d]", s.array, s.index, s.length)
}

// SetArray is an array literal of set expressions.
type SetArray struct {
	elems []SetExpr
}

// NewSetArray returns the array literal [elems...].
func NewSetArray(elems ...SetExpr) *SetArray { return &SetArray{elems: elems} }

// Elems returns the elements. The slice must not be modified.
func (a *SetArray) Elems() []SetExpr { return a.elems }
func (a *SetArray) Len() int         { return len(a.elems) }
func (a *SetArray) String() string   { return "[" + joinExprs(a.elems) + "]" }
func (*SetArray) expr()              {}
func (*SetArray) setArrayExpr()      {}

func (a *SetArray) Envs() []domain.Domain  { return mapSets(a.elems, SetExpr.Env) }
func (a *SetArray) Kers() []domain.Domain  { return mapSets(a.elems, SetExpr.Ker) }
func (a *SetArray) Cards() []domain.Domain { return mapSets(a.elems, SetExpr.Card) }

func mapSets(sets []SetExpr, f func(SetExpr) domain.Domain) []domain.Domain {
	out := make([]domain.Domain, len(sets))
	for i, s := range sets {
		out[i] = f(s)
	}
	return out
}
