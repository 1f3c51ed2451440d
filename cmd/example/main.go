// Package main demonstrates coalescing of small IR modules.
//
// Each section builds a module, runs the analysis and prints what was
// merged or narrowed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gitrdm/gokanir/pkg/analysis"
	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (workers, trace)")
	flag.Parse()

	cfg := analysis.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = analysis.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	c := analysis.New(cfg)

	fmt.Println("=== GoKanIR Examples ===")
	fmt.Println()

	equalIntegers(c)
	contradiction(c)
	subsetKernel(c)
	stringPrefix(c)
	optimizer(c)
	batch(c)
}

func printModule(res *analysis.Result) {
	for _, v := range res.Module.Variables() {
		fmt.Printf("   %v\n", v)
	}
	fmt.Printf("   %v\n", res.Stats)
}

// equalIntegers merges two integers constrained equal.
func equalIntegers(c *analysis.Coalescer) {
	fmt.Println("1. Equal Integers:")

	x := ir.Int("x", domain.Bound(0, 5))
	y := ir.Int("y", domain.Bound(3, 10))
	res, err := c.Coalesce(ir.NewModule(ir.Equal(x, y)))
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	fmt.Printf("   x = y with x ∈ %v, y ∈ %v => x ↦ %v, y ↦ %v\n", x.Domain(), y.Domain(), res.Ints[x], res.Ints[y])
	printModule(res)
	fmt.Println()
}

// contradiction shows how an unsatisfiable module is reported.
func contradiction(c *analysis.Coalescer) {
	fmt.Println("2. Contradiction:")

	x := ir.Int("x", domain.Bound(0, 2))
	y := ir.Int("y", domain.Bound(3, 5))
	_, err := c.Coalesce(ir.NewModule(ir.Equal(x, y)))

	var unsat *analysis.UnsatisfiableError
	if errors.As(err, &unsat) {
		fmt.Printf("   unsatisfiable: %s\n", unsat.Reason)
	}
	fmt.Println()
}

// subsetKernel pushes a certain member of a subset into its superset.
func subsetKernel(c *analysis.Coalescer) {
	fmt.Println("3. Subset Kernel:")

	sub := ir.Set("sub", domain.Bound(1, 3), domain.Constant(1))
	sup := ir.Set("sup", domain.Bound(1, 4), domain.Empty())
	res, err := c.Coalesce(ir.NewModule(ir.NewSubsetEq(sub, sup)))
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	fmt.Printf("   %v ⊆ %v => sup ↦ %v\n", sub, sup, res.Sets[sup])
	fmt.Println()
}

// stringPrefix pins the characters of a short prefix to the terminator
// and narrows the word it starts.
func stringPrefix(c *analysis.Coalescer) {
	fmt.Println("4. String Prefix:")

	word := ir.StringOf("word", 4, domain.Bound(2, 4))
	p, err := ir.NewStringVar("p", []*ir.IntVar{
		ir.Int("p[0]", domain.Enum('a', 'b')),
		ir.Int("p[1]", domain.Constant('c')),
		ir.Int("p[2]", domain.Bound(0, ir.MaxChar)),
	}, ir.Int("|p|", domain.Bound(0, 2)))
	if err != nil {
		log.Fatal(err)
	}

	res, err := c.Coalesce(ir.NewModule(ir.NewPrefix(p, word)))
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	for _, s := range []*ir.StringVar{p, word} {
		if r, ok := res.Strings[s]; ok {
			fmt.Printf("   %v\n   ↦ %v\n", s, r)
		}
	}
	fmt.Println()
}

// optimizer rewrites an implication over a two-valued integer before
// coalescing.
func optimizer(c *analysis.Coalescer) {
	fmt.Println("5. Optimizer:")

	b := ir.Bool("b")
	x := ir.Int("x", domain.Enum(-3, 888))
	m := ir.NewModule(ir.NewImplies(b, ir.Equal(x, ir.Constant(888))))
	fmt.Printf("   before: %v", m)
	fmt.Printf("   after:  %v", analysis.Optimize(m))

	if _, err := c.Run(m); err != nil {
		fmt.Printf("   error: %v\n", err)
	}
	fmt.Println()
}

// batch coalesces independent modules concurrently.
func batch(c *analysis.Coalescer) {
	fmt.Println("6. Batch Coalescing:")

	const n = 64
	modules := make([]*ir.Module, n)
	for i := range modules {
		x := ir.Int(fmt.Sprintf("x%d", i), domain.Bound(0, n))
		y := ir.Int(fmt.Sprintf("y%d", i), domain.Bound(i, 2*n))
		modules[i] = ir.NewModule(ir.Equal(x, y), ir.LessThan(x, ir.Constant(n)))
	}

	start := time.Now()
	results, err := c.CoalesceAll(context.Background(), modules)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	renamed := 0
	for _, res := range results {
		renamed += res.Stats.RenamedInts
	}
	fmt.Printf("   %d modules, %d renamed integers in %v\n", len(results), renamed, time.Since(start))
	fmt.Println()
}
