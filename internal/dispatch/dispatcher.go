package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/gateway"
	"github.com/infinohq/infino-gateway/internal/metrics"
)

// Result is the backend's reply to one forwarded command.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Forwarder executes one outbound command against the backend store.
type Forwarder interface {
	Forward(ctx context.Context, cmd gateway.OutboundCommand, body []byte) (Result, error)
}

type outcome struct {
	res Result
	err error
}

// Future delivers the outcome of one dispatched command.
type Future struct {
	ch chan outcome
}

// Wait blocks until the outcome arrives or ctx expires. An abandoned wait
// does not cancel the underlying call; the dispatcher still completes it and
// deregisters it from the in-flight set.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case out := <-f.ch:
		return out.res, out.err
	case <-ctx.Done():
		return Result{}, gateway.WrapErr(gateway.KindInternal, ctx.Err(), "abandoned waiting for backend")
	}
}

// Dispatcher runs outbound commands on its worker pool, tracks each one in
// the in-flight set, and hands results back through futures.
type Dispatcher struct {
	pool     *Pool
	inflight *InFlightSet
	fwd      Forwarder
	log      zerolog.Logger
}

// NewDispatcher wires a dispatcher over pool, set and forwarder.
func NewDispatcher(pool *Pool, inflight *InFlightSet, fwd Forwarder, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{pool: pool, inflight: inflight, fwd: fwd, log: log}
}

// Dispatch submits cmd for asynchronous execution and returns immediately.
// The forward runs with its own context: once dispatched, a command is not
// cancelled on behalf of the caller. body is sent verbatim.
func (d *Dispatcher) Dispatch(cmd gateway.OutboundCommand, body []byte) *Future {
	f := &Future{ch: make(chan outcome, 1)}
	id := d.inflight.Add()

	ok := d.pool.Submit(func() {
		defer d.inflight.Remove(id)
		start := time.Now()
		res, err := d.fwd.Forward(context.Background(), cmd, body)
		metrics.ForwardDuration.WithLabelValues(string(cmd.Method)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ForwardErrors.WithLabelValues(string(gateway.KindOf(err))).Inc()
			d.log.Error().Err(err).Str("url", cmd.URL).Str("method", string(cmd.Method)).Msg("backend call failed")
			f.ch <- outcome{err: err}
			return
		}
		d.log.Debug().Str("url", cmd.URL).Int("status", res.Status).Msg("backend call completed")
		f.ch <- outcome{res: res}
	})
	if !ok {
		d.inflight.Remove(id)
		f.ch <- outcome{err: gateway.Errf(gateway.KindUpstreamUnavailable, "dispatcher is shutting down")}
	}
	return f
}
