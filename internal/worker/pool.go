// Package worker runs analysis jobs concurrently with bounded parallelism
// and keyed rate limiting.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job execution.
type Result interface {
	GetError() error
}

// Pool fans jobs out over a fixed number of goroutines. Workers append
// results as they finish, so Submit only ever waits for queue space, never
// for a result to be read; a backlog far larger than the queue buffer
// drains without the caller collecting anything until Wait. A pool is
// single-use: Submit enqueues, Wait drains, Shutdown aborts.
type Pool struct {
	size   int
	queue  chan Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	collected []Result
}

// NewPool creates a pool with the given worker count, floored at 1. Jobs
// run under a context derived from ctx; canceling it stops queued and
// in-flight work and unblocks pending Submits.
func NewPool(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	pctx, cancel := context.WithCancel(ctx)
	return &Pool{
		size:   size,
		queue:  make(chan Job, size*2),
		ctx:    pctx,
		cancel: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, open := <-p.queue:
			if !open {
				return
			}
			r := job.Execute(p.ctx)
			p.mu.Lock()
			p.collected = append(p.collected, r)
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. Once the pool's context is done it returns without
// blocking.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.queue <- job:
	}
}

// Wait closes the queue, lets in-flight jobs finish and returns every
// collected result.
func (p *Pool) Wait() []Result {
	close(p.queue)
	p.wg.Wait()
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collected
}

// Shutdown cancels in-flight work and waits for workers to exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
