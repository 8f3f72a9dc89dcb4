// Package client talks to the remote analysis and processing API.
//
// Every call is paced by a token bucket, tagged with a fresh X-Request-ID and
// carries the bearer token the configured TokenSource currently holds. Only
// idempotent GETs are retried.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Config configures a Client. Zero values take the defaults below.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api.
	BaseURL string

	// Timeout bounds a single HTTP attempt (default 60s).
	Timeout time.Duration

	// MaxRetries applies to GET requests only (default 2).
	MaxRetries int

	// RateLimit is requests per second (default 5).
	RateLimit float64

	// RateBurst is the bucket size (default 2).
	RateBurst int

	// Credentials supplies the bearer token. Nil sends no Authorization.
	Credentials TokenSource

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client is a rate-limited API client. It is safe for concurrent use.
type Client struct {
	base    string
	retries int
	creds   TokenSource
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New returns a Client for cfg.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		base:    strings.TrimSuffix(cfg.BaseURL, "/"),
		retries: cfg.MaxRetries,
		creds:   cfg.Credentials,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  cfg.Logger,
	}
}

// request describes one API call.
type request struct {
	op          string
	method      string
	path        string
	contentType string
	body        []byte
	anonymous   bool
}

// do runs req and returns the body of a 2xx response. Non-2xx answers become
// *APIError.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	reqID := uuid.NewString()
	log := c.logger.With("request_id", reqID, "op", req.op)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", req.op, err)
	}

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.once(ctx, reqID, req)
		if err == nil {
			log.Debug("api call succeeded", "duration", time.Since(start), "attempts", attempt+1)
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
		log.Debug("api call retrying", "attempt", attempt+1, "error", err)
	}

	log.Warn("api call failed", "duration", time.Since(start), "error", lastErr)
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, reqID string, req request) ([]byte, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.base+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", req.op, err)
	}
	httpReq.Header.Set("X-Request-ID", reqID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if !req.anonymous && c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: credentials: %w", req.op, err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(req.op, resp.StatusCode, data)
	}
	return data, nil
}

// retryable reports whether a failed GET is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
