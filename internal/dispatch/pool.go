package dispatch

import (
	"context"
	"sync"
)

// Pool is a fixed-size worker pool for backend-facing work. It keeps slow
// backend round trips off the goroutines serving inbound requests so a
// stalled backend cannot starve the server's own request capacity.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines draining a queue of queueDepth tasks.
// Non-positive arguments fall back to small defaults.
func NewPool(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueDepth <= 0 {
		queueDepth = 64
	}
	p := &Pool{tasks: make(chan func(), queueDepth)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit queues task for execution. It returns false once the pool has been
// shut down; the task is not run in that case. Submit blocks while the queue
// is full.
func (p *Pool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.tasks <- task
	return true
}

// Shutdown stops intake and waits for queued work to finish, bounded by ctx.
// Workers still running after ctx expires are abandoned to process exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
