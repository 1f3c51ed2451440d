package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/gokanir/internal/parallel"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// CoalesceAll coalesces independent modules concurrently on at most
// cfg.Workers goroutines. Results are aligned with modules. The first
// failure cancels the modules not yet started and is returned, wrapped
// with the index of the failing module.
func (c *Coalescer) CoalesceAll(ctx context.Context, modules []*ir.Module) ([]*Result, error) {
	pool := parallel.NewPool(c.cfg.Workers)
	defer pool.Close()

	results := make([]*Result, len(modules))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range modules {
		g.Go(func() error {
			errc := make(chan error, 1)
			err := pool.Submit(ctx, func() {
				if err := ctx.Err(); err != nil {
					errc <- err
					return
				}
				res, err := c.Coalesce(m)
				if err != nil {
					errc <- fmt.Errorf("module %d: %w", i, err)
					return
				}
				results[i] = res
				errc <- nil
			})
			if err != nil {
				return err
			}
			return <-errc
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.log.Debug("coalesced batch", "modules", len(modules), "workers", pool.Workers())
	return results, nil
}
