// Package oddsapi talks to The Odds API for NFL events and first-touchdown
// prices.
package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Client defaults.
const (
	DefaultBaseURL = "https://api.the-odds-api.com/v4/sports"
	DefaultSport   = "americanfootball_nfl"
	DefaultRegion  = "us"
	DefaultMarket  = "player_1st_td"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

// Client fetches events and per-event odds. One attempt per call.
type Client struct {
	apiKey  string
	baseURL string
	sport   string
	region  string
	market  string
	http    *http.Client
	cache   *FileCache
	logger  logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSport sets the sport key.
func WithSport(s string) Option {
	return func(c *Client) {
		if s != "" {
			c.sport = s
		}
	}
}

// WithRegion sets the bookmaker region.
func WithRegion(r string) Option {
	return func(c *Client) {
		if r != "" {
			c.region = r
		}
	}
}

// WithMarket sets the market key requested for odds.
func WithMarket(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.market = m
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client. Its timeout is kept.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache serves event odds from cache while fresh.
func WithCache(fc *FileCache) Option {
	return func(c *Client) { c.cache = fc }
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		sport:   DefaultSport,
		region:  DefaultRegion,
		market:  DefaultMarket,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events lists upcoming events.
func (c *Client) Events(ctx context.Context) ([]model.MarketEvent, error) {
	q := url.Values{}
	q.Set("regions", c.region)
	q.Set("dateFormat", "iso")
	q.Set("upcoming", "true")

	start := time.Now()
	data, err := c.get(ctx, fmt.Sprintf("%s/%s/events", c.baseURL, url.PathEscape(c.sport)), q)
	if err != nil {
		metrics.RecordOddsFetch("events", "error", msSince(start))
		return nil, err
	}
	events, err := ParseEvents(data)
	if err != nil {
		metrics.RecordOddsFetch("events", "decode_error", msSince(start))
		return nil, err
	}
	metrics.RecordOddsFetch("events", "ok", msSince(start))
	return events, nil
}

// EventOdds returns the quotes of one event, from cache when fresh.
func (c *Client) EventOdds(ctx context.Context, eventID string) ([]model.MarketQuote, error) {
	if data, ok := c.cache.Get(eventID); ok {
		quotes, err := ParseOdds(data)
		if err == nil {
			metrics.RecordOddsFetch("odds", "cache_hit", 0)
			return quotes, nil
		}
		c.logger.Warn(ctx, "evicting corrupt cached odds", logger.String("event_id", eventID), logger.Error(err))
		if err := c.cache.Remove(eventID); err != nil {
			c.logger.Warn(ctx, "odds cache evict failed", logger.String("event_id", eventID), logger.Error(err))
		}
	}

	q := url.Values{}
	q.Set("markets", c.market)
	q.Set("regions", c.region)
	q.Set("oddsFormat", "american")

	start := time.Now()
	u := fmt.Sprintf("%s/%s/events/%s/odds", c.baseURL, url.PathEscape(c.sport), url.PathEscape(eventID))
	data, err := c.get(ctx, u, q)
	if err != nil {
		metrics.RecordOddsFetch("odds", "error", msSince(start))
		return nil, err
	}
	quotes, err := ParseOdds(data)
	if err != nil {
		metrics.RecordOddsFetch("odds", "decode_error", msSince(start))
		return nil, err
	}
	metrics.RecordOddsFetch("odds", "ok", msSince(start))

	if err := c.cache.Put(eventID, data); err != nil {
		c.logger.Warn(ctx, "odds cache write failed", logger.String("event_id", eventID), logger.Error(err))
	}
	return quotes, nil
}

// Fetch serves a fetch job.
func (c *Client) Fetch(ctx context.Context, job model.FetchJob) ([]model.MarketQuote, error) {
	return c.EventOdds(ctx, job.EventID)
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, redact(endpoint), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, fmt.Errorf("%w: %s: status %d: %s", ErrUpstream, redact(endpoint), resp.StatusCode, snippet)
	}
	c.logger.Debug(ctx, "odds api response",
		logger.String("endpoint", redact(endpoint)),
		logger.String("requests_remaining", resp.Header.Get("x-requests-remaining")),
	)
	return body, nil
}

// redact keeps the path only; the key travels in the query string.
func redact(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil {
		return u.Path
	}
	return endpoint
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Milliseconds())
}
