package ir

import (
	"fmt"
	"strings"
)

// Module is an ordered list of constraints and the variables they reference.
// A Module is never modified after construction.
type Module struct {
	constraints []BoolExpr
	variables   []Var
}

// NewModule builds a module. Variables are collected in first-reference
// order; constants and temporaries are not listed, and a BoolVar is listed
// as its underlying IntVar.
func NewModule(constraints ...BoolExpr) *Module {
	seen := make(map[Var]bool)
	var variables []Var
	for _, c := range constraints {
		Walk(c, func(e Expr) {
			var v Var
			switch x := e.(type) {
			case *IntVar:
				v = x
			case BoolVar:
				v = x.v
			case *SetVar:
				v = x
			case *StringVar:
				v = x
			default:
				return
			}
			if v.IsConstant() || v.IsTemp() || seen[v] {
				return
			}
			seen[v] = true
			variables = append(variables, v)
		})
	}
	return &Module{constraints: constraints, variables: variables}
}

// Constraints returns the constraints. The slice must not be modified.
func (m *Module) Constraints() []BoolExpr { return m.constraints }

// Variables returns the referenced variables. The slice must not be modified.
func (m *Module) Variables() []Var { return m.variables }

// WithConstraints returns a module over m's constraints followed by extra.
func (m *Module) WithConstraints(extra ...BoolExpr) *Module {
	cs := make([]BoolExpr, 0, len(m.constraints)+len(extra))
	cs = append(cs, m.constraints...)
	return NewModule(append(cs, extra...)...)
}

func (m *Module) String() string {
	var b strings.Builder
	for _, c := range m.constraints {
		fmt.Fprintln(&b, c)
	}
	return b.String()
}

// Walk calls fn on e and then on every sub-expression of e in pre-order.
// Variables are leaves.
func Walk(e Expr, fn func(Expr)) {
	fn(e)
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Children returns the direct sub-expressions of e.
func Children(e Expr) []Expr {
	switch x := e.(type) {
	case *IntVar, BoolVar, *SetVar, *StringVar:
		return nil
	case *Minus:
		return []Expr{x.operand}
	case *Add:
		return exprs(x.addends)
	case *Card:
		return []Expr{x.set}
	case *Element:
		return []Expr{x.array, x.index}
	case *Count:
		return exprs(x.array)
	case *Length:
		return []Expr{x.str}
	case *Not:
		return []Expr{x.operand}
	case *And:
		return exprs(x.operands)
	case *Or:
		return exprs(x.operands)
	case *Implies:
		return []Expr{x.antecedent, x.consequent}
	case *IfOnlyIf:
		return []Expr{x.left, x.right}
	case *Within:
		return []Expr{x.value}
	case *Compare:
		return []Expr{x.left, x.right}
	case *ArrayEquality:
		return []Expr{x.left, x.right}
	case *SetEquality:
		return []Expr{x.left, x.right}
	case *StringCompare:
		return []Expr{x.left, x.right}
	case *Member:
		return []Expr{x.element, x.set}
	case *NotMember:
		return []Expr{x.element, x.set}
	case *SubsetEq:
		return []Expr{x.subset, x.superset}
	case *BoolChannel:
		return append(exprs(x.bools), x.set)
	case *IntChannel:
		return append(exprs(x.ints), exprs(x.sets)...)
	case *SortStrings:
		return flatten(x.strings)
	case *SortSets:
		return append(exprs(x.sets), exprs(x.bounds)...)
	case *SortStringsChannel:
		return append(flatten(x.strings), exprs(x.ints)...)
	case *AllDifferent:
		return exprs(x.operands)
	case *SelectN:
		return append(exprs(x.bools), x.n)
	case *Prefix:
		return []Expr{x.prefix, x.word}
	case *Suffix:
		return []Expr{x.suffix, x.word}
	case *Singleton:
		return []Expr{x.value}
	case *ArrayToSet:
		return exprs(x.array)
	case *SetElement:
		return []Expr{x.array, x.index}
	case *JoinRelation:
		return []Expr{x.take, x.children}
	case *JoinFunction:
		return []Expr{x.take, x.refs}
	case *SetUnion:
		return exprs(x.operands)
	case *SetIntersection:
		return exprs(x.operands)
	case *SetDifference:
		return []Expr{x.minuend, x.subtrahend}
	case *SetOffset:
		return []Expr{x.set}
	case *Concat:
		return []Expr{x.left, x.right}
	case *IntArray:
		return exprs(x.elems)
	case *Subarray:
		return []Expr{x.array, x.index}
	case *SetArray:
		return exprs(x.elems)
	}
	panic(fmt.Sprintf("ir: unhandled expression %T", e))
}

func exprs[E Expr](es []E) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func flatten(strs [][]IntExpr) []Expr {
	var out []Expr
	for _, s := range strs {
		out = append(out, exprs(s)...)
	}
	return out
}
