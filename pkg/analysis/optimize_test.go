package analysis

import (
	"testing"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

func TestOptimizeImplicationCompare(t *testing.T) {
	b := ir.Bool("b")
	x := ir.Int("x", domain.Enum(-3, 888))
	high, low := ir.Constant(888), ir.Constant(-3)

	tests := []struct {
		name       string
		constraint ir.BoolExpr
	}{
		{"equal high", ir.NewImplies(b, ir.Equal(x, high))},
		{"equal low", ir.NewImplies(b, ir.Equal(x, low))},
		{"not equal high", ir.NewImplies(b, ir.NotEqual(x, high))},
		{"not equal low", ir.NewImplies(b, ir.NotEqual(x, low))},
		{"constant on the left", ir.NewImplies(b, ir.Equal(high, x))},
		{"nested in a conjunction", ir.NewAnd(ir.True, ir.NewImplies(b, ir.Equal(x, low)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ir.NewModule(tt.constraint)
			opt := Optimize(m)
			if opt == m {
				t.Fatal("module should be rewritten")
			}
			ir.Walk(opt.Constraints()[0], func(e ir.Expr) {
				if _, ok := e.(*ir.Implies); ok {
					t.Fatalf("implication left in %v", opt.Constraints()[0])
				}
			})

			// Both forms must agree on every assignment.
			for _, bv := range []int{0, 1} {
				for _, xv := range x.Domain().Values() {
					a := assignment{ints: map[*ir.IntVar]int{b.Var(): bv, x: xv}}
					want := evalBool(tt.constraint, a)
					if got := evalBool(opt.Constraints()[0], a); got != want {
						t.Errorf("b=%d x=%d: optimized %v = %v, want %v", bv, xv, opt.Constraints()[0], got, want)
					}
				}
			}
		})
	}
}

func TestOptimizeLeavesOtherConstraints(t *testing.T) {
	b := ir.Bool("b")
	wide := ir.Int("wide", domain.Bound(0, 5))
	two := ir.Int("two", domain.Enum(1, 4))

	tests := []struct {
		name       string
		constraint ir.BoolExpr
	}{
		{"more than two values", ir.NewImplies(b, ir.Equal(wide, ir.Constant(5)))},
		{"constant outside domain", ir.NewImplies(b, ir.Equal(two, ir.Constant(2)))},
		{"not a comparison to a constant", ir.NewImplies(b, ir.Equal(two, wide))},
		{"ordering", ir.NewImplies(b, ir.LessThan(two, ir.Constant(4)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ir.NewModule(tt.constraint)
			if opt := Optimize(m); opt != m {
				t.Errorf("Optimize rewrote %v into %v", m, opt)
			}
		})
	}
}

func TestRunOptimizesBeforeCoalescing(t *testing.T) {
	b := ir.Bool("b")
	x := ir.Int("x", domain.Enum(0, 7))
	y := ir.Int("y", domain.Bound(0, 9))
	res, err := Run(ir.NewModule(ir.NewImplies(b, ir.Equal(x, ir.Constant(7))), ir.Equal(x, y)))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range res.Module.Constraints() {
		if _, ok := c.(*ir.Implies); ok {
			t.Errorf("Run left implication %v", c)
		}
	}
	if cx := res.Ints[x]; cx == nil || cx != res.Ints[y] || !cx.Domain().Equal(domain.Enum(0, 7)) {
		t.Errorf("x and y should merge over {0,7}, got %v and %v", res.Ints[x], res.Ints[y])
	}
}
