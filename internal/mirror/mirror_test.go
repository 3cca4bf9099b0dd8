package mirror

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/dispatch"
)

type fakeStore struct {
	mu       sync.Mutex
	existing map[string]bool
	checks   int
	creates  int
	// failDuplicates makes Create fail once the index exists, like a real
	// metadata store losing the duplicate of a racing create.
	failDuplicates bool
	checkErr       error
	createErr      error

	gotShards   int
	gotReplicas int
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: map[string]bool{}}
}

func (s *fakeStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.existing[name], nil
}

func (s *fakeStore) Create(_ context.Context, name string, shards, replicas int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.gotShards = shards
	s.gotReplicas = replicas
	if s.createErr != nil {
		return s.createErr
	}
	if s.failDuplicates && s.existing[name] {
		return errors.New("resource_already_exists_exception")
	}
	s.existing[name] = true
	return nil
}

func TestEnsureCreatesMissingIndex(t *testing.T) {
	store := newFakeStore()
	s := NewSynchronizer(store, nil, zerolog.Nop())

	s.Ensure(context.Background(), "my-index")

	if store.creates != 1 {
		t.Fatalf("creates = %d, want 1", store.creates)
	}
	if store.gotShards != 1 || store.gotReplicas != 1 {
		t.Fatalf("settings = (%d shards, %d replicas), want (1, 1)", store.gotShards, store.gotReplicas)
	}
	if !store.existing["my-index"] {
		t.Fatal("index was not created")
	}
}

func TestEnsureSkipsExistingIndex(t *testing.T) {
	store := newFakeStore()
	store.existing["my-index"] = true
	s := NewSynchronizer(store, nil, zerolog.Nop())

	s.Ensure(context.Background(), "my-index")

	if store.creates != 0 {
		t.Fatalf("creates = %d, want 0", store.creates)
	}
}

func TestEnsureSwallowsFailures(t *testing.T) {
	// Neither a failing check nor a failing create may panic or propagate.
	store := newFakeStore()
	store.checkErr = errors.New("metadata store down")
	NewSynchronizer(store, nil, zerolog.Nop()).Ensure(context.Background(), "my-index")

	store = newFakeStore()
	store.createErr = errors.New("create rejected")
	NewSynchronizer(store, nil, zerolog.Nop()).Ensure(context.Background(), "my-index")
}

func TestEnsureAsyncRunsOnPool(t *testing.T) {
	store := newFakeStore()
	pool := dispatch.NewPool(2, 8)
	s := NewSynchronizer(store, pool, zerolog.Nop())

	s.EnsureAsync("my-index")
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.creates != 1 {
		t.Fatalf("creates = %d, want 1", store.creates)
	}
}

func TestConcurrentEnsureForNewIndexIsHarmless(t *testing.T) {
	// N callers race the non-atomic check-then-create: at most one create
	// wins, duplicate creates fail and are swallowed, and every call
	// completes normally.
	store := newFakeStore()
	store.failDuplicates = true
	s := NewSynchronizer(store, nil, zerolog.Nop())

	const n = 16
	barrier := make(chan struct{})
	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Add(1)
			<-barrier
			s.Ensure(context.Background(), "fresh-index")
		}()
	}
	for started.Load() < n {
		time.Sleep(time.Millisecond)
	}
	close(barrier)
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.checks != n {
		t.Fatalf("checks = %d, want %d", store.checks, n)
	}
	if !store.existing["fresh-index"] {
		t.Fatal("index was never created")
	}
}
