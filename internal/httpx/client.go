// Package httpx provides a small HTTP client wrapper with retries, timeouts,
// and exponential back-off. The Client is safe for concurrent use because
// its fields are immutable after construction.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps net/http.Client with retry and timeout behaviour.
type Client struct {
	http       *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a Client with the given timeout and retry count.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
	}
}

// WithBaseDelay returns a copy of c using d as the first back-off step.
func (c *Client) WithBaseDelay(d time.Duration) *Client {
	cp := *c
	cp.baseDelay = d
	return &cp
}

// Do executes the request with retries on transient failures (5xx or network errors).
// Requests with a body are only retried when the body can be replayed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)

	for attempt := range c.maxRetries + 1 {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.Body != nil {
			if req.GetBody == nil {
				break
			}
			if attemptReq.Body, err = req.GetBody(); err != nil {
				return nil, fmt.Errorf("httpx: replay body: %w", err)
			}
		}

		resp, err = c.http.Do(attemptReq)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt == c.maxRetries {
			break
		}

		// Drain body on retry to allow connection reuse.
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
		}

		delay := c.baseDelay * (1 << uint(attempt))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("httpx: all %d attempts failed: %w", c.maxRetries+1, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("httpx: request body cannot be replayed")
	}
	return resp, nil
}

// Get is a convenience method for GET requests.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpx: new request: %w", err)
	}
	return c.Do(ctx, req)
}

// PostJSON marshals body, posts it to url, and decodes the response into
// out when out is non-nil. The response status is returned even when
// decoding fails.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("httpx: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("httpx: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("httpx: decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
