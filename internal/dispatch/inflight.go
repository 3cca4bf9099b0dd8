package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/infinohq/infino-gateway/internal/metrics"
)

// InFlightSet tracks pending asynchronous operations so the process can drain
// them before shutdown. Entries carry no ordering guarantee.
type InFlightSet struct {
	mu   sync.Mutex
	ops  map[uuid.UUID]struct{}
	idle chan struct{} // closed while the set is empty
}

// NewInFlightSet returns an empty set.
func NewInFlightSet() *InFlightSet {
	idle := make(chan struct{})
	close(idle)
	return &InFlightSet{
		ops:  make(map[uuid.UUID]struct{}),
		idle: idle,
	}
}

// Add registers a new pending operation and returns its handle.
func (s *InFlightSet) Add() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	if len(s.ops) == 0 {
		s.idle = make(chan struct{})
	}
	s.ops[id] = struct{}{}
	s.mu.Unlock()
	metrics.InFlight.Inc()
	return id
}

// Remove deregisters a completed operation. Removing an unknown handle is a
// no-op.
func (s *InFlightSet) Remove(id uuid.UUID) {
	s.mu.Lock()
	if _, ok := s.ops[id]; ok {
		delete(s.ops, id)
		metrics.InFlight.Dec()
		if len(s.ops) == 0 {
			close(s.idle)
		}
	}
	s.mu.Unlock()
}

// Len reports the number of pending operations.
func (s *InFlightSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}

// Drain blocks until the set empties or ctx expires. Operations added after
// the set was observed empty do not restart the wait.
func (s *InFlightSet) Drain(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
