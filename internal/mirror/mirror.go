// Package mirror keeps the host platform's index bookkeeping consistent with
// backend collections. The mirror is advisory: its outcome never gates or
// delays forwarding, and failures are logged, not surfaced.
package mirror

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/dispatch"
	"github.com/infinohq/infino-gateway/internal/metrics"
)

// MetadataStore is the host platform's index metadata capability.
type MetadataStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string, shards, replicas int) error
}

// Placeholder mirror indexes hold no telemetry data, so the smallest layout
// suffices.
const (
	mirrorShards   = 1
	mirrorReplicas = 1
)

// Synchronizer runs the check-then-create protocol for mirror indexes on the
// shared worker pool.
type Synchronizer struct {
	store MetadataStore
	pool  *dispatch.Pool
	log   zerolog.Logger
}

// NewSynchronizer wires a synchronizer over store and pool.
func NewSynchronizer(store MetadataStore, pool *dispatch.Pool, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{store: store, pool: pool, log: log}
}

// EnsureAsync fires the check-then-create for name on the worker pool and
// returns immediately. The caller's forward path proceeds regardless of the
// outcome.
func (s *Synchronizer) EnsureAsync(name string) {
	ok := s.pool.Submit(func() {
		s.Ensure(context.Background(), name)
	})
	if !ok {
		metrics.MirrorSyncs.WithLabelValues("rejected").Inc()
		s.log.Warn().Str("index", name).Msg("mirror sync rejected: pool shut down")
	}
}

// Ensure runs one check-then-create sequence. The sequence is not atomic:
// concurrent calls for a new index may all observe "not exists" and all issue
// a create; the store tolerates the duplicate and the losers are logged.
func (s *Synchronizer) Ensure(ctx context.Context, name string) {
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		metrics.MirrorSyncs.WithLabelValues("check_failed").Inc()
		s.log.Error().Err(err).Str("index", name).Msg("mirror existence check failed")
		return
	}
	if exists {
		metrics.MirrorSyncs.WithLabelValues("exists").Inc()
		return
	}
	if err := s.store.Create(ctx, name, mirrorShards, mirrorReplicas); err != nil {
		metrics.MirrorSyncs.WithLabelValues("create_failed").Inc()
		s.log.Error().Err(err).Str("index", name).Msg("mirror index create failed")
		return
	}
	metrics.MirrorSyncs.WithLabelValues("created").Inc()
	s.log.Info().Str("index", name).Msg("created mirror index")
}
