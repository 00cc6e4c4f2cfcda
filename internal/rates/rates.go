// Package rates looks up informational currency quotes from an upstream HTTP
// API. Quotes are cached for a TTL and upstream calls are rate limited; the
// result is never persisted or used in balance math.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPair is the single exchange pair the application tracks.
const DefaultPair = "USD-BRL"

var (
	ErrUnknownPair = errors.New("unknown currency pair")
	ErrRateLimited = errors.New("rate lookup limited, try again later")
)

// Quote is a currency rate at a point in time.
type Quote struct {
	Pair      string
	Rate      float64
	FetchedAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the default limiter of one upstream call per second.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client fetches quotes from an awesomeapi-compatible endpoint:
// GET <baseURL>/<FROM>-<TO> returns {"FROMTO": {"bid": "5.12", ...}}.
type Client struct {
	baseURL    string
	ttl        time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]Quote
}

// NewClient creates a Client that caches quotes for ttl.
func NewClient(baseURL string, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		now:        time.Now,
		cache:      make(map[string]Quote),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the quote for pair ("USD-BRL"), from cache when still fresh.
// When the upstream call is refused by the limiter or fails, a stale cached
// quote is returned if one exists.
func (c *Client) Rate(ctx context.Context, pair string) (Quote, error) {
	pair, key, err := normalizePair(pair)
	if err != nil {
		return Quote{}, err
	}

	c.mu.Lock()
	cached, ok := c.cache[pair]
	c.mu.Unlock()
	if ok && c.now().Sub(cached.FetchedAt) < c.ttl {
		return cached, nil
	}

	if !c.limiter.Allow() {
		if ok {
			return cached, nil
		}
		return Quote{}, ErrRateLimited
	}

	q, err := c.fetch(ctx, pair, key)
	if err != nil {
		if ok {
			slog.Warn("Serving stale rate after upstream failure",
				"pair", pair,
				"fetched_at", cached.FetchedAt,
				"error", err,
			)
			return cached, nil
		}
		return Quote{}, err
	}

	c.mu.Lock()
	c.cache[pair] = q
	c.mu.Unlock()
	return q, nil
}

func (c *Client) fetch(ctx context.Context, pair, key string) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+pair, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownPair, pair)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, fmt.Errorf("rate API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]struct {
		Bid string `json:"bid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("failed to decode response: %w", err)
	}

	entry, ok := payload[key]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownPair, pair)
	}
	bid, err := strconv.ParseFloat(entry.Bid, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to parse bid %q: %w", entry.Bid, err)
	}

	return Quote{Pair: pair, Rate: bid, FetchedAt: c.now()}, nil
}

// normalizePair returns the canonical "FROM-TO" form and the response key.
func normalizePair(pair string) (string, string, error) {
	if pair == "" {
		pair = DefaultPair
	}
	from, to, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(pair)), "-")
	if !ok || len(from) != 3 || len(to) != 3 {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownPair, pair)
	}
	return from + "-" + to, from + to, nil
}
