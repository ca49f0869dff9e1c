package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	"FinQuote/pkg/cache"
	applogger "FinQuote/pkg/logger"
	"FinQuote/pkg/metrics"
)

const (
	DefaultChunkSize   = 5
	DefaultCallTimeout = 10 * time.Second
)

// StockAggregator is the cache-fronted read path over the quote sources.
// None of its operations return errors: upstream failures degrade to
// absent or empty results and are logged.
type StockAggregator struct {
	primary   domrepo.QuoteSource
	fallbacks map[models.Market][]domrepo.FundamentalsSource
	cache     cache.Service
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	chunkSize   int
	maxSymbols  int
	callTimeout time.Duration
}

type AggregatorOption func(*StockAggregator)

// WithFallback registers a fundamentals source for a market. Sources run
// in registration order until no core metric is missing.
func WithFallback(m models.Market, src domrepo.FundamentalsSource) AggregatorOption {
	return func(a *StockAggregator) {
		if src != nil {
			a.fallbacks[m] = append(a.fallbacks[m], src)
		}
	}
}

// WithPublisher publishes freshly fetched quotes.
func WithPublisher(p domrepo.Publisher) AggregatorOption {
	return func(a *StockAggregator) { a.publisher = p }
}

func WithAggregatorMetrics(m domrepo.Metrics) AggregatorOption {
	return func(a *StockAggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

func WithAggregatorLogger(l *applogger.Logger) AggregatorOption {
	return func(a *StockAggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithChunkSize(n int) AggregatorOption {
	return func(a *StockAggregator) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

func WithMaxSymbols(n int) AggregatorOption {
	return func(a *StockAggregator) {
		if n > 0 {
			a.maxSymbols = n
		}
	}
}

// WithCallTimeout bounds each upstream operation.
func WithCallTimeout(d time.Duration) AggregatorOption {
	return func(a *StockAggregator) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

func NewStockAggregator(primary domrepo.QuoteSource, c cache.Service, opts ...AggregatorOption) *StockAggregator {
	a := &StockAggregator{
		primary:     primary,
		fallbacks:   make(map[models.Market][]domrepo.FundamentalsSource),
		cache:       c,
		metrics:     metrics.Nop{},
		logger:      applogger.Nop(),
		chunkSize:   DefaultChunkSize,
		maxSymbols:  models.MaxSymbols,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetQuote returns the merged quote for symbol, or nil when the primary
// source has no data.
func (a *StockAggregator) GetQuote(ctx context.Context, symbol string) *models.Quote {
	base := models.BaseSymbol(symbol)
	key := quoteKey(base)

	if q, ok := lookup[models.Quote](ctx, a, "quote", key); ok {
		return &q
	}

	q := a.fetchQuote(ctx, symbol)
	if q == nil {
		return nil
	}
	a.store(ctx, key, q)
	a.publish(ctx, []models.Quote{*q})
	return q
}

// GetQuotesBatch resolves up to maxSymbols quotes. Cached entries are
// served directly; misses are fetched in sequential chunks, concurrently
// within a chunk. Absent quotes are dropped.
func (a *StockAggregator) GetQuotesBatch(ctx context.Context, symbols []string) []models.Quote {
	symbols = a.sanitize(symbols)
	if len(symbols) == 0 {
		return []models.Quote{}
	}

	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = quoteKey(models.BaseSymbol(s))
	}

	hits, err := cache.MGetTyped[models.Quote](ctx, a.cache, keys...)
	if err != nil {
		a.logger.Warn("batch cache lookup failed", applogger.Error(err))
		hits = map[string]models.Quote{}
	}

	out := make([]models.Quote, 0, len(symbols))
	var misses []string
	for i, s := range symbols {
		if q, ok := hits[keys[i]]; ok {
			a.metrics.RecordCache("quote", true)
			out = append(out, q)
			continue
		}
		a.metrics.RecordCache("quote", false)
		misses = append(misses, s)
	}

	var fresh []models.Quote
	for start := 0; start < len(misses); start += a.chunkSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+a.chunkSize, len(misses))
		chunk := misses[start:end]
		results := make([]*models.Quote, len(chunk))

		var g errgroup.Group
		for i, s := range chunk {
			g.Go(func() error {
				if q := a.fetchQuote(ctx, s); q != nil {
					a.store(ctx, quoteKey(q.Symbol), q)
					results[i] = q
				}
				return nil
			})
		}
		_ = g.Wait()

		for _, q := range results {
			if q != nil {
				fresh = append(fresh, *q)
			}
		}
	}

	a.publish(ctx, fresh)
	return append(out, fresh...)
}

// GetHistory returns daily points for period; empty on failure.
func (a *StockAggregator) GetHistory(ctx context.Context, symbol string, period models.Period) []models.HistoricalPoint {
	if !period.IsValid() {
		period = models.DefaultPeriod
	}
	base := models.BaseSymbol(symbol)
	key := historyKey(base, period)

	if v, ok := lookup[[]models.HistoricalPoint](ctx, a, "history", key); ok {
		return v
	}

	res, err := withTimeout(ctx, a, func(ctx context.Context) ([]models.HistoricalPoint, error) {
		return a.primary.FetchHistory(ctx, symbol, period)
	})
	if err != nil {
		a.upstreamFailed("history", base, err)
		return []models.HistoricalPoint{}
	}
	if len(res) == 0 {
		return []models.HistoricalPoint{}
	}
	a.store(ctx, key, res)
	return res
}

// GetNews returns recent headlines; empty on failure.
func (a *StockAggregator) GetNews(ctx context.Context, symbol string) []models.NewsItem {
	base := models.BaseSymbol(symbol)
	key := newsKey(base)

	if v, ok := lookup[[]models.NewsItem](ctx, a, "news", key); ok {
		return v
	}

	res, err := withTimeout(ctx, a, func(ctx context.Context) ([]models.NewsItem, error) {
		return a.primary.FetchNews(ctx, symbol)
	})
	if err != nil {
		a.upstreamFailed("news", base, err)
		return []models.NewsItem{}
	}
	if len(res) == 0 {
		return []models.NewsItem{}
	}
	a.store(ctx, key, res)
	return res
}

// GetAll runs quote, history and news concurrently and always returns a
// combined record.
func (a *StockAggregator) GetAll(ctx context.Context, symbol string, period models.Period) *models.AllData {
	out := &models.AllData{}

	var g errgroup.Group
	g.Go(func() error {
		out.Quote = a.GetQuote(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		out.History = a.GetHistory(ctx, symbol, period)
		return nil
	})
	g.Go(func() error {
		out.News = a.GetNews(ctx, symbol)
		return nil
	})
	_ = g.Wait()

	return out
}

// Search returns equity matches. Queries shorter than two characters after
// trimming return empty without an upstream call.
func (a *StockAggregator) Search(ctx context.Context, query string) []models.SearchResult {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < models.MinQueryLength {
		return []models.SearchResult{}
	}
	key := searchKey(query)

	if v, ok := lookup[[]models.SearchResult](ctx, a, "search", key); ok {
		return v
	}

	res, err := withTimeout(ctx, a, func(ctx context.Context) ([]models.SearchResult, error) {
		return a.primary.Search(ctx, query)
	})
	if err != nil {
		a.upstreamFailed("search", query, err)
		return []models.SearchResult{}
	}
	if len(res) == 0 {
		return []models.SearchResult{}
	}
	a.store(ctx, key, res)
	return res
}

// fetchQuote calls the primary source and, when core metrics are still
// missing, the fallbacks registered for the symbol's market.
func (a *StockAggregator) fetchQuote(ctx context.Context, symbol string) *models.Quote {
	base := models.BaseSymbol(symbol)

	q, err := withTimeout(ctx, a, func(ctx context.Context) (*models.Quote, error) {
		return a.primary.FetchQuote(ctx, symbol)
	})
	if err != nil {
		a.upstreamFailed("quote", base, err)
		return nil
	}
	if q == nil {
		return nil
	}

	for _, src := range a.fallbacks[models.ClassifySymbol(base)] {
		if !q.MissingCoreMetrics() {
			break
		}
		f := a.fundamentals(ctx, src, base)
		if filled := q.FillFrom(f); len(filled) > 0 {
			a.logger.Debug("filled metrics from fallback",
				applogger.String("source", src.Name()),
				applogger.String("symbol", base),
				applogger.Strings("fields", filled))
		}
		if q.Name == base && f != nil && f.Name != "" {
			q.Name = f.Name
		}
	}
	return q
}

func (a *StockAggregator) fundamentals(ctx context.Context, src domrepo.FundamentalsSource, base string) *models.Fundamentals {
	key := fundamentalsKey(src.Name(), base)
	if f, ok := lookup[models.Fundamentals](ctx, a, src.Name(), key); ok {
		return &f
	}

	f, err := withTimeout(ctx, a, func(ctx context.Context) (*models.Fundamentals, error) {
		return src.FetchFundamentals(ctx, base)
	})
	if err != nil {
		a.upstreamFailed(src.Name(), base, err)
		return nil
	}
	if f == nil {
		return nil
	}
	a.store(ctx, key, f)
	return f
}

// lookup reads key as T. It reports false on a miss or cache error.
func lookup[T any](ctx context.Context, a *StockAggregator, op, key string) (T, bool) {
	v, hit, err := cache.GetTyped[T](ctx, a.cache, key)
	if err != nil {
		a.logger.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	a.metrics.RecordCache(op, hit)
	return v, hit
}

// store writes even if ctx was canceled; a completed fetch is still valid.
func (a *StockAggregator) store(ctx context.Context, key string, value interface{}) {
	if err := a.cache.Set(context.WithoutCancel(ctx), key, value); err != nil {
		a.logger.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (a *StockAggregator) publish(ctx context.Context, quotes []models.Quote) {
	if a.publisher == nil || len(quotes) == 0 {
		return
	}
	if err := a.publisher.PublishQuotes(context.WithoutCancel(ctx), quotes); err != nil {
		a.logger.Warn("publish quotes failed", applogger.Int("count", len(quotes)), applogger.Error(err))
	}
}

// withTimeout bounds one upstream call by the aggregator's call timeout.
func withTimeout[T any](ctx context.Context, a *StockAggregator, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	start := time.Now()
	v, err := fn(ctx)
	a.metrics.RecordLatency("aggregator", time.Since(start).Seconds())
	return v, err
}

func (a *StockAggregator) upstreamFailed(op, subject string, err error) {
	a.metrics.RecordError("upstream_" + op)
	a.logger.Warn("upstream fetch failed",
		applogger.String("op", op),
		applogger.String("subject", subject),
		applogger.Error(err))
}

// sanitize applies the allow-list and the symbol cap, dropping duplicates
// by base symbol.
func (a *StockAggregator) sanitize(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if !models.IsValidSymbol(s) {
			continue
		}
		base := models.BaseSymbol(s)
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, s)
		if len(out) == a.maxSymbols {
			break
		}
	}
	return out
}
