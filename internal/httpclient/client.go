// Package httpclient is the outbound HTTP layer shared by the provider
// clients: one tuned transport, a per-host throttle and capped body reads.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MaxResponseBytes caps provider response bodies.
	MaxResponseBytes = 2 * 1024 * 1024

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 10
	IdleConnTimeout     = 90 * time.Second
	TLSHandshakeTimeout = 10 * time.Second
)

// ErrBodyTooLarge is returned when a response exceeds MaxResponseBytes
var ErrBodyTooLarge = errors.New("response body too large")

// Client performs throttled GET-style requests against external providers
type Client struct {
	http     *http.Client
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	interval time.Duration
}

// New returns a Client with the given request timeout. interval is the
// minimum spacing between two requests to the same host; zero disables it.
func New(timeout, interval time.Duration) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        MaxIdleConns,
		MaxIdleConnsPerHost: MaxIdleConnsPerHost,
		IdleConnTimeout:     IdleConnTimeout,
		TLSHandshakeTimeout: TLSHandshakeTimeout,
	}
	return NewWithHTTPClient(&http.Client{Timeout: timeout, Transport: transport}, interval)
}

// NewWithHTTPClient wraps an existing http.Client
func NewWithHTTPClient(hc *http.Client, interval time.Duration) *Client {
	return &Client{
		http:     hc,
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Get waits for the host's turn, performs the request and returns the status
// code with the whole (capped) body. The body is always closed.
func (c *Client) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Host == "" {
		return 0, nil, &url.Error{Op: "parse", URL: rawURL, Err: errors.New("missing host in URL")}
	}

	if err := c.limiterFor(parsed.Host).Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return resp.StatusCode, nil, ErrBodyTooLarge
	}
	limited := &io.LimitedReader{R: resp.Body, N: MaxResponseBytes + 1}
	body, err := io.ReadAll(limited)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseBytes {
		return resp.StatusCode, nil, ErrBodyTooLarge
	}

	return resp.StatusCode, body, nil
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.RLock()
	limiter, exists := c.limiters[host]
	c.mu.RUnlock()
	if exists {
		return limiter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists := c.limiters[host]; exists {
		return limiter
	}

	limit := rate.Inf
	if c.interval > 0 {
		limit = rate.Every(c.interval)
	}
	limiter = rate.NewLimiter(limit, 1)
	c.limiters[host] = limiter
	return limiter
}
