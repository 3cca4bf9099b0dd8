// Package metastore talks to the host search platform's index admin API. The
// gateway uses it only to keep same-named placeholder indexes in the host's
// cluster bookkeeping; telemetry data never flows through it.
package metastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client implements the metadata index capability over HTTP: HEAD /{index}
// answers existence, PUT /{index} with settings creates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient returns a metadata store client for baseURL (trailing slash is
// stripped).
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Exists reports whether the named index is present. 200 means yes, 404 means
// no; anything else is an error.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/"+name, nil)
	if err != nil {
		return false, fmt.Errorf("build exists request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("check index %s: unexpected status %d", name, resp.StatusCode)
}

type indexSettings struct {
	Index struct {
		NumberOfShards   int `json:"number_of_shards"`
		NumberOfReplicas int `json:"number_of_replicas"`
	} `json:"index"`
}

type createIndexBody struct {
	Settings indexSettings `json:"settings"`
}

// Create makes the named index with the given shard and replica counts. A
// response reporting that the index already exists is treated as success, so
// concurrent check-then-create races stay harmless.
func (c *Client) Create(ctx context.Context, name string, shards, replicas int) error {
	var body createIndexBody
	body.Settings.Index.NumberOfShards = shards
	body.Settings.Index.NumberOfReplicas = replicas
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal index settings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+name, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case strings.Contains(string(respBody), "resource_already_exists_exception"):
		// Lost the race to another caller; the index is there either way.
		c.log.Debug().Str("index", name).Msg("mirror index already created by a concurrent request")
		return nil
	}
	return fmt.Errorf("create index %s: status %d: %s", name, resp.StatusCode, respBody)
}
