// Package dispatch implements the action dispatcher over the storefront
// backend's JSON API. It owns the transport concerns the workflows must not
// see: HTTP, auth headers, the circuit breaker, and the translation of
// backend failures into the closed ActionError kinds.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_checkout/internal/workflow"
)

const maxResponseBody = 1 << 20 // 1MB

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the storefront backend. One circuit breaker guards the whole
// backend; while it is open, actions fail fast instead of piling up on a
// dead upstream. Backend-reported failures (4xx) count as successes for the
// breaker — only transport trouble trips it.
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	settings := gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var actionErr *workflow.ActionError
			return errors.As(err, &actionErr)
		},
	}

	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Error responses become *workflow.ActionError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, token, body)
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, workflow.ClassifyMessage(errorDetail(data, resp.StatusCode))
	}
	return data, nil
}

// errorDetail extracts the backend's failure message. The backend reports
// errors as {"detail": "..."}; anything else falls back to the HTTP status.
func errorDetail(data []byte, statusCode int) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return http.StatusText(statusCode)
}
