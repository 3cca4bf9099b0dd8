package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 8)
	defer p.Shutdown(context.Background())

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		ok := p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		})
		if !ok {
			t.Fatal("submit rejected before shutdown")
		}
	}
	wg.Wait()
	if got := ran.Load(); got != 10 {
		t.Fatalf("ran %d tasks, want 10", got)
	}
}

func TestPoolShutdownWaitsForQueuedWork(t *testing.T) {
	p := NewPool(1, 8)

	var done atomic.Bool
	p.Submit(func() {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
	})

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !done.Load() {
		t.Fatal("shutdown returned before queued work completed")
	}
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := NewPool(1, 1)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if p.Submit(func() {}) {
		t.Fatal("submit accepted after shutdown")
	}
}

func TestPoolShutdownHonorsContext(t *testing.T) {
	p := NewPool(1, 1)
	release := make(chan struct{})
	p.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); err == nil {
		t.Fatal("expected shutdown to time out while a task is stuck")
	}
	close(release)
}
