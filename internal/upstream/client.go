package upstream

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/dispatch"
	"github.com/infinohq/infino-gateway/internal/gateway"
)

// Client sends translated commands to the backend telemetry store. Each
// command is attempted exactly once; there is no retry policy.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient returns a backend client. timeout bounds the whole round trip;
// zero means the transport default of 30 seconds.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Forward executes cmd with body sent verbatim. Transport failures come back
// as KindUpstreamUnavailable; the backend's own HTTP status is relayed inside
// the Result without remapping.
func (c *Client) Forward(ctx context.Context, cmd gateway.OutboundCommand, body []byte) (dispatch.Result, error) {
	req, err := http.NewRequestWithContext(ctx, string(cmd.Method), cmd.URL, bytes.NewReader(body))
	if err != nil {
		return dispatch.Result{}, gateway.WrapErr(gateway.KindInternal, err, "build backend request")
	}
	if len(body) > 0 {
		req.Header.Set(contentTypeHeader, "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dispatch.Result{}, gateway.WrapErr(gateway.KindUpstreamUnavailable, err, "backend unreachable")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return dispatch.Result{}, gateway.WrapErr(gateway.KindInternal, err, "read backend response")
	}
	return dispatch.Result{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get(contentTypeHeader),
		Body:        b,
	}, nil
}

const contentTypeHeader = "Content-Type"
