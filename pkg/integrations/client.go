package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/movey-network/movey/pkg/observability"
)

// RequestIDHeader carries a per-request identifier so registry logs can be
// matched with client logs.
const RequestIDHeader = "X-Request-ID"

// Client provides shared HTTP functionality for registry API clients.
// It applies default headers, tags each request with a fresh request ID,
// reports events to the observability hooks and maps HTTP status codes to
// [ErrNotFound] and [ErrNetwork].
//
// Requests are attempted exactly once; there is no retry and no cache.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given default headers.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		headers: headers,
	}
}

// PostJSON JSON-encodes body, POSTs it to url and JSON-decodes the response
// into v. It returns the request ID that was sent.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	resp, err := c.do(req)
	if err != nil {
		return id, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return id, fmt.Errorf("decode response: %w", err)
	}
	return id, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	method, host, path := req.Method, req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
