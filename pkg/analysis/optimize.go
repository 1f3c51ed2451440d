package analysis

import "github.com/gitrdm/gokanir/pkg/ir"

// Optimize rewrites implications whose consequent pins a two-valued integer
// into a single linear comparison:
//
//	b ⇒ x = high   becomes   b ≤ x - low
//	b ⇒ x = low    becomes   b ≤ high - x
//
// and symmetrically for ≠. Other constraints are returned unchanged.
func Optimize(m *ir.Module) *ir.Module {
	constraints := m.Constraints()
	out := make([]ir.BoolExpr, len(constraints))
	changed := false
	for i, c := range constraints {
		out[i] = optimize(c)
		changed = changed || out[i] != c
	}
	if !changed {
		return m
	}
	return ir.NewModule(out...)
}

func optimize(b ir.BoolExpr) ir.BoolExpr {
	switch b := b.(type) {
	case *ir.And:
		if ops, ok := optimizeAll(b.Operands()); ok {
			return ir.NewAnd(ops...)
		}
	case *ir.Or:
		if ops, ok := optimizeAll(b.Operands()); ok {
			return ir.NewOr(ops...)
		}
	case *ir.Not:
		if o := optimize(b.Operand()); o != b.Operand() {
			return ir.NewNot(o)
		}
	case *ir.IfOnlyIf:
		l, r := optimize(b.Left()), optimize(b.Right())
		if l != b.Left() || r != b.Right() {
			return ir.NewIfOnlyIf(l, r)
		}
	case *ir.Implies:
		antecedent, consequent := optimize(b.Antecedent()), optimize(b.Consequent())
		if c, ok := consequent.(*ir.Compare); ok {
			if opt := implicationCompare(antecedent, c.Left(), c.Op(), c.Right()); opt != nil {
				return opt
			}
			if opt := implicationCompare(antecedent, c.Right(), c.Op(), c.Left()); opt != nil {
				return opt
			}
		}
		if antecedent != b.Antecedent() || consequent != b.Consequent() {
			return ir.NewImplies(antecedent, consequent)
		}
	}
	return b
}

func optimizeAll(bs []ir.BoolExpr) ([]ir.BoolExpr, bool) {
	out := make([]ir.BoolExpr, len(bs))
	changed := false
	for i, b := range bs {
		out[i] = optimize(b)
		changed = changed || out[i] != b
	}
	return out, changed
}

// implicationCompare optimizes antecedent ⇒ (x op c) for op ∈ {=, ≠}, or
// returns nil.
func implicationCompare(antecedent ir.BoolExpr, x ir.IntExpr, op ir.CompareOp, right ir.IntExpr) ir.BoolExpr {
	d := x.Domain()
	c, ok := ir.ConstantValue(right)
	if d.Size() != 2 || !ok {
		return nil
	}
	low, high := d.Low(), d.High()
	switch {
	case op == ir.OpEqual && c == high, op == ir.OpNotEqual && c == low:
		return ir.LessThanEqual(antecedent, ir.Plus(x, -low))
	case op == ir.OpEqual && c == low, op == ir.OpNotEqual && c == high:
		return ir.LessThanEqual(antecedent, ir.SubFrom(high, x))
	}
	return nil
}

// Run optimizes m and coalesces the result with the default configuration.
func Run(m *ir.Module) (*Result, error) {
	return New(DefaultConfig()).Run(m)
}

// Run optimizes m and coalesces the result.
func (c *Coalescer) Run(m *ir.Module) (*Result, error) {
	return c.Coalesce(Optimize(m))
}
