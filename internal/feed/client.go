// Package feed is the HTTP client shared by the playlist, summary and chart repositories.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	lilterrors "github.com/tessro/lilt/internal/errors"
)

const (
	// Retry configuration for transient errors
	defaultMaxRetries    = 3
	defaultBaseRetryWait = 500 * time.Millisecond

	// maxBodySize bounds JSON and text responses.
	maxBodySize = 8 << 20
)

// Client fetches remote feeds with retries on transient failures.
type Client struct {
	httpClient    *http.Client
	maxRetries    int
	baseRetryWait time.Duration
	userAgent     string
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetries sets how many times a transient failure is retried and the
// initial backoff, which doubles on every attempt.
func WithRetries(n int, wait time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.baseRetryWait = wait
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a new feed client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		maxRetries:    defaultMaxRetries,
		baseRetryWait: defaultBaseRetryWait,
		userAgent:     "lilt/1.0",
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when a feed answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known statuses onto the shared sentinel errors.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return lilterrors.ErrRateLimited
	case e.StatusCode >= 500:
		return lilterrors.ErrFeedUnavailable
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// GetJSON fetches url and decodes the JSON body into result.
func (c *Client) GetJSON(ctx context.Context, url string, result interface{}) error {
	body, err := c.Get(ctx, url, maxBodySize)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetText fetches url and returns the body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url, maxBodySize)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Get performs a GET request and returns at most limit bytes of the body.
func (c *Client) Get(ctx context.Context, url string, limit int64) ([]byte, error) {
	c.logger.Debug("feed request", "method", http.MethodGet, "url", url)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			wait := c.baseRetryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			c.logger.Debug("feed retry", "attempt", attempt, "max", c.maxRetries, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, contextError(ctx)
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Cache-Control", "no-store")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, contextError(ctx)
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				lastErr = fmt.Errorf("%w: %v", lilterrors.ErrTimeout, err)
			} else {
				lastErr = fmt.Errorf("%w: %v", lilterrors.ErrNetworkError, err)
			}
			c.logger.Debug("feed network error", "url", url, "error", err)
			continue // Retry on network error
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			c.logger.Debug("feed read error", "url", url, "error", err)
			continue
		}

		c.logger.Debug("feed response", "url", url, "status", resp.StatusCode, "bytes", len(body))

		// Retry on 5xx server errors and rate limiting
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
			continue
		}

		// Don't retry other 4xx errors
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
		}

		return body, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

// contextError marks an expired deadline as a timeout.
func contextError(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", lilterrors.ErrTimeout, err)
	}
	return err
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
