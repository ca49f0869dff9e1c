// Package client is a Go SDK for the stock-data HTTP endpoints. It keeps
// its own short-lived response cache, independent of the server-side one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/cache"
	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
)

const (
	DefaultCacheTTL = 30 * time.Second
	DefaultTimeout  = 30 * time.Second

	stockDataPath = "/api/stock-data"
	decisionPath  = "/api/decision"
)

// ErrSuperseded is returned by a call cancelled because a newer call for
// the same operation started.
var ErrSuperseded = errors.New("request superseded")

type inflight struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// Client talks to a FinQuote server. Safe for concurrent use.
type Client struct {
	baseURL string
	hc      *xhttp.Client
	cache   cache.Service
	logger  *applogger.Logger
	headers map[string]string

	mu    sync.Mutex
	seq   uint64
	slots map[string]inflight
}

type config struct {
	hc       *xhttp.Client
	cacheTTL time.Duration
	clock    cache.Clock
	logger   *applogger.Logger
	apiKey   string
}

type Option func(*config)

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *config) { c.hc = hc }
}

// WithCacheTTL overrides the 30s response cache lifetime.
func WithCacheTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

func WithClock(clock cache.Clock) Option {
	return func(c *config) { c.clock = clock }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

func New(baseURL string, opts ...Option) *Client {
	cfg := &config{cacheTTL: DefaultCacheTTL, logger: applogger.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.hc == nil {
		cfg.hc = xhttp.NewClient(xhttp.WithTimeout(DefaultTimeout))
	}

	headers := map[string]string{"Accept": "application/json"}
	if cfg.apiKey != "" {
		headers["Authorization"] = "Bearer " + cfg.apiKey
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      cfg.hc,
		cache: cache.NewMemoryCache(
			cache.WithMemoryTTL(cfg.cacheTTL),
			cache.WithMemoryClock(cfg.clock),
		),
		logger:  cfg.logger,
		headers: headers,
		slots:   make(map[string]inflight),
	}
}

// Quote returns nil without error when the server has no data.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q *models.Quote
	err := c.get(ctx, string(models.ActionQuote), "quote:"+symbol, map[string][]string{
		"action": {string(models.ActionQuote)},
		"symbol": {symbol},
	}, &q)
	return q, err
}

func (c *Client) Quotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return []models.Quote{}, nil
	}
	sorted := slices.Clone(symbols)
	slices.Sort(sorted)

	var out []models.Quote
	err := c.get(ctx, string(models.ActionQuotes), "quotes:"+strings.Join(sorted, ","), map[string][]string{
		"action":  {string(models.ActionQuotes)},
		"symbols": {strings.Join(symbols, ",")},
	}, &out)
	return orEmpty(out), err
}

func (c *Client) History(ctx context.Context, symbol string, period models.Period) ([]models.HistoricalPoint, error) {
	if period == "" {
		period = models.DefaultPeriod
	}
	var out []models.HistoricalPoint
	err := c.get(ctx, string(models.ActionHistory), fmt.Sprintf("history:%s:%s", symbol, period), map[string][]string{
		"action": {string(models.ActionHistory)},
		"symbol": {symbol},
		"period": {string(period)},
	}, &out)
	return orEmpty(out), err
}

func (c *Client) News(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	var out []models.NewsItem
	err := c.get(ctx, string(models.ActionNews), "news:"+symbol, map[string][]string{
		"action": {string(models.ActionNews)},
		"symbol": {symbol},
	}, &out)
	return orEmpty(out), err
}

// Search is a no-op for queries shorter than two characters.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < models.MinQueryLength {
		return []models.SearchResult{}, nil
	}
	var out []models.SearchResult
	err := c.get(ctx, string(models.ActionSearch), "search:"+strings.ToLower(query), map[string][]string{
		"action": {string(models.ActionSearch)},
		"query":  {query},
	}, &out)
	return orEmpty(out), err
}

// All never fails: any error yields an empty combined payload.
func (c *Client) All(ctx context.Context, symbol string) *models.AllData {
	var out *models.AllData
	err := c.get(ctx, string(models.ActionAll), "all:"+symbol, map[string][]string{
		"action": {string(models.ActionAll)},
		"symbol": {symbol},
	}, &out)
	if err != nil || out == nil {
		if err != nil && !errors.Is(err, ErrSuperseded) {
			c.logger.Warn("all request failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		return &models.AllData{History: []models.HistoricalPoint{}, News: []models.NewsItem{}}
	}
	out.History = orEmpty(out.History)
	out.News = orEmpty(out.News)
	return out
}

// Decision is never cached; each call scores fresh data.
func (c *Client) Decision(ctx context.Context, symbol string, period models.Period) (*models.DecisionReport, error) {
	var envelope struct {
		Data *models.DecisionReport `json:"data"`
	}
	query := map[string][]string{"symbol": {symbol}}
	if period != "" {
		query["period"] = []string{string(period)}
	}
	err := c.hc.SendAndParse(ctx, &xhttp.RequestOptions{
		URL:         c.baseURL + decisionPath,
		Headers:     c.headers,
		QueryParams: query,
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("decision %s: %w", symbol, err)
	}
	return envelope.Data, nil
}

// get serves key from the cache or fetches it, superseding any in-flight
// call in the same slot. A JSON null body is never cached.
func (c *Client) get(ctx context.Context, slot, key string, query map[string][]string, dest interface{}) error {
	var raw []byte
	if err := c.cache.Get(ctx, key, &raw); err == nil {
		return json.Unmarshal(raw, dest)
	}

	ctx, done := c.begin(ctx, slot)
	defer done()

	err := c.hc.SendAndParse(ctx, &xhttp.RequestOptions{
		URL:         c.baseURL + stockDataPath,
		Headers:     c.headers,
		QueryParams: query,
	}, &raw)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrSuperseded) {
			return ErrSuperseded
		}
		return fmt.Errorf("%s: %w", slot, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: decode: %w", slot, err)
	}
	if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		_ = c.cache.Set(ctx, key, raw)
	}
	return nil
}

func (c *Client) begin(parent context.Context, slot string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)

	c.mu.Lock()
	c.seq++
	id := c.seq
	if prev, ok := c.slots[slot]; ok {
		prev.cancel(ErrSuperseded)
	}
	c.slots[slot] = inflight{id: id, cancel: cancel}
	c.mu.Unlock()

	return ctx, func() {
		c.mu.Lock()
		if cur, ok := c.slots[slot]; ok && cur.id == id {
			delete(c.slots, slot)
		}
		c.mu.Unlock()
		cancel(nil)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
