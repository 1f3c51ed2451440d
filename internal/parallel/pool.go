// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("parallel: pool closed")

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Submit blocks while every worker is busy and the queue is full.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewPool starts a pool with the given number of workers. A non-positive
// count means one worker per CPU.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers),
		done:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.work()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			task()
		case <-p.done:
			return
		}
	}
}

// Submit queues task. It returns ctx.Err() if ctx ends first and
// ErrPoolClosed after Close.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}
}

// Close stops the workers and waits for running tasks. Queued tasks that
// have not started are dropped. Close is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}
