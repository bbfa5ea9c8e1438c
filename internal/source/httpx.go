package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ghoztwoods/shadowintel/internal/config"
)

// maxResponseSize limits how much of a response body is read.
// Intelligence API payloads are small; anything larger is misbehavior.
const maxResponseSize = 2 * 1024 * 1024 // 2MB

// notFoundBody is the cached marker for 404 responses, so negative
// results ("not in any breach") are cached like positive ones.
var notFoundBody = []byte{}

// ErrNotFound is returned by GetJSON when the service answers 404.
// Sources that treat 404 as a meaningful negative (breach lookups)
// check for it with errors.Is.
var ErrNotFound = fmt.Errorf("resource not found")

// Client is the shared outbound HTTP client for evidence sources. It
// adds two behaviors every intelligence API needs: per-host rate
// limiting, because free API tiers throttle aggressively, and response
// caching, so rescanning an identifier within the TTL does not re-query
// the backing services.
//
// Design decision: One shared client rather than one per source because
// rate limits are a per-host property of the remote service, and two
// sources hitting the same host must share a limiter to respect it.
type Client struct {
	httpClient *http.Client
	cache      *cache.Cache
	rateLimit  rate.Limit
	burst      int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRateLimit sets the per-host request rate and burst.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		c.rateLimit = rate.Limit(perSecond)
		c.burst = burst
	}
}

// WithCacheTTL sets the response cache TTL.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache.New(ttl, 2*ttl)
	}
}

// WithHTTPClient replaces the underlying http.Client, used by tests to
// point at httptest servers with short timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with the documented defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: config.DefaultSourceTimeout},
		cache:      cache.New(config.DefaultCacheTTL, 2*config.DefaultCacheTTL),
		rateLimit:  rate.Limit(config.DefaultRateLimit),
		burst:      config.DefaultRateBurst,
		limiters:   make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches the URL and unmarshals the JSON response into out.
// Responses are cached by URL; a cache hit skips both the rate limiter
// and the network. A 404 returns ErrNotFound (and is cached as such).
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	body, err := c.fetch(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", hostOf(rawURL), err)
	}
	return nil
}

// fetch returns the response body, consulting the cache first.
func (c *Client) fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	if cached, ok := c.cache.Get(rawURL); ok {
		return cached.([]byte), nil
	}

	if err := c.limiter(hostOf(rawURL)).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.cache.SetDefault(rawURL, notFoundBody)
		return notFoundBody, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, hostOf(rawURL))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(rawURL, body)
	return body, nil
}

// Head issues a HEAD request and returns the status code. Status codes
// are cached like bodies; a HEAD answer does not change within the TTL.
func (c *Client) Head(ctx context.Context, rawURL string) (int, error) {
	key := "HEAD " + rawURL
	if cached, ok := c.cache.Get(key); ok {
		return cached.(int), nil
	}

	if err := c.limiter(hostOf(rawURL)).Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	c.cache.SetDefault(key, resp.StatusCode)
	return resp.StatusCode, nil
}

// limiter returns the rate limiter for a host, creating it on first use.
func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(c.rateLimit, c.burst)
	c.limiters[host] = l
	return l
}

// hostOf extracts the host from a URL for limiter keys and error
// messages, falling back to the raw string on parse failure.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
