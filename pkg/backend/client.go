package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"ollamagate/pkg/endpoints"
	"ollamagate/pkg/telemetry/metrics"
)

// Client issues HTTP calls to the active backend target.
type Client struct {
	// registry is swapped atomically when the configuration reloads.
	registry atomic.Pointer[endpoints.Registry]

	active  *endpoints.ActiveTarget
	metrics *metrics.Collector
	logger  *slog.Logger

	// client serves plain request/response calls and carries the
	// configured request timeout (zero means none).
	client *http.Client

	// stream serves long-lived streaming calls and never times out; a
	// hung download would otherwise be cut off mid-transfer.
	stream *http.Client
}

// Options configures a Client.
type Options struct {
	// Timeout bounds non-streaming backend calls. Zero disables the bound.
	Timeout time.Duration

	// Metrics receives per-call instrumentation. May be nil.
	Metrics *metrics.Collector
}

// NewClient creates a backend client bound to the given registry and
// active-target store.
func NewClient(registry *endpoints.Registry, active *endpoints.ActiveTarget, opts Options) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		active:  active,
		metrics: opts.Metrics,
		logger:  slog.Default().With("component", "backend"),
		client:  &http.Client{Transport: transport, Timeout: opts.Timeout},
		stream:  &http.Client{Transport: transport},
	}
	c.registry.Store(registry)
	return c
}

// SetRegistry swaps the endpoint registry used for credential resolution.
// Called when the configuration file is reloaded.
func (c *Client) SetRegistry(registry *endpoints.Registry) {
	c.registry.Store(registry)
}

// Registry returns the registry currently used for credential resolution.
func (c *Client) Registry() *endpoints.Registry {
	return c.registry.Load()
}

// Target returns the currently selected backend url.
func (c *Client) Target() string {
	return c.active.Get()
}

// bearerFor resolves the Authorization value for a base url. An endpoint
// with no configured credential still sends the literal "null"; existing
// frontends depend on the header always being present.
func (c *Client) bearerFor(base string) string {
	credential := c.registry.Load().CredentialFor(base)
	if credential == "" {
		credential = "null"
	}
	return "Bearer " + credential
}

// Do performs a call against the active target. body, when non-nil, is
// marshaled as JSON. Non-2xx responses and transport failures are returned
// as *Error; on success the caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.do(ctx, c.client, method, c.active.Get(), path, body)
}

// Stream performs a long-lived call against the active target with no
// client-side timeout. The caller owns the open response body.
func (c *Client) Stream(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.do(ctx, c.stream, method, c.active.Get(), path, body)
}

// Probe checks connectivity of an arbitrary endpoint url by listing its
// models. It is advisory: callers decide what to do with a failure.
func (c *Client) Probe(ctx context.Context, url string) error {
	resp, err := c.do(ctx, c.client, http.MethodGet, url, "/api/tags", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, client *http.Client, method, base, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.bearerFor(base))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("dispatching backend call",
		"method", method,
		"url", base+path,
	)

	resp, err := client.Do(req)
	if err != nil {
		c.metrics.RecordBackendRequest(method, path, "transport_error")
		return nil, &Error{Method: method, Path: path, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		c.metrics.RecordBackendRequest(method, path, "http_error")
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
	}

	c.metrics.RecordBackendRequest(method, path, "success")
	return resp, nil
}

// DoJSON performs a call and decodes the JSON response into out. When out
// is nil the response body is discarded.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Method: method,
			Path:   path,
			Cause:  fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}
