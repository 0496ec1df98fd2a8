// Package api implements the thin HTTP gateways over the registration
// backend: events, auth, and registrations. Every call is fire-once with no
// retry, backoff, or caching.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means anonymous. auth.Session satisfies it.
type TokenSource interface {
	Token() string
}

// StatusError is a non-2xx response without a structured validation body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// ValidationError carries the backend's structured per-field messages from a
// rejected submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Client is the shared HTTP plumbing for all gateways. One instance is wired
// per process.
type Client struct {
	base   string
	http   *retryablehttp.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewClient creates a gateway client for the given base URL, e.g.
// "http://localhost:5000/api".
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := retryablehttp.NewClient()
	// The contract is exactly one request per call; no automatic retry, and
	// retryable statuses (5xx, 429) surface as regular responses.
	hc.RetryMax = 0
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	hc.Logger = nil
	hc.HTTPClient.Timeout = timeout
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   hc,
		tokens: tokens,
		logger: logger,
	}
}

// errorBody is the backend's plain error envelope.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, req *retryablehttp.Request, authed bool, out any) error {
	req = req.WithContext(ctx)
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return &StatusError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, authed bool, out any) error {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, authed, out)
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, false, out)
}
