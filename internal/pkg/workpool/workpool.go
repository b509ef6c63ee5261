package workpool

import (
	"context"
	"sync"
)

type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of workers. It bounds
// fan-out for batch operations that would otherwise overwhelm an
// external backend.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

func (p *Pool) Submit(t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

// Close signals no more tasks will be submitted.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers and blocks until all submitted tasks finish or
// ctx is cancelled. Submit and Close must happen on other goroutines, or
// Close must be called before Run when the task channel is buffered.
func (p *Pool) Run(ctx context.Context) {
	if p == nil {
		return
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					t(ctx)
				}
			}
		}()
	}
	p.wg.Wait()
}
