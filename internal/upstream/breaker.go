package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/infinohq/infino-gateway/internal/dispatch"
	"github.com/infinohq/infino-gateway/internal/gateway"
)

// BreakerClient wraps Client with a circuit breaker so a dead backend fails
// fast instead of tying up the worker pool on timeouts. Only transport
// failures count against the breaker; backend HTTP error statuses are relayed
// and count as success. An open circuit surfaces as KindUpstreamUnavailable,
// preserving the at-most-one-attempt contract.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[dispatch.Result]
}

// NewBreakerClient builds the breaker-wrapped backend client. The circuit
// opens after a 60% failure rate over at least 10 requests and probes again
// after 30 seconds.
func NewBreakerClient(client *Client, log zerolog.Logger) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[dispatch.Result](gobreaker.Settings{
		Name:        "infino-backend",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &BreakerClient{client: client, cb: cb}
}

// Forward implements dispatch.Forwarder.
func (b *BreakerClient) Forward(ctx context.Context, cmd gateway.OutboundCommand, body []byte) (dispatch.Result, error) {
	res, err := b.cb.Execute(func() (dispatch.Result, error) {
		return b.client.Forward(ctx, cmd, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return dispatch.Result{}, gateway.WrapErr(gateway.KindUpstreamUnavailable, err, "backend circuit open")
		}
		return dispatch.Result{}, err
	}
	return res, nil
}
