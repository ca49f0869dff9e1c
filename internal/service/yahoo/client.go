package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	"FinQuote/internal/service/upstream"
	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
	"FinQuote/pkg/util"
)

const (
	ProviderName   = "yahoo"
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData"
	maxNewsItems   = 5
	searchCount    = "10"
	equityType     = "EQUITY"
)

// ErrNoChartData is returned when the chart endpoint has no result for a
// symbol. Without a chart there is no price, so the quote is absent.
var ErrNoChartData = errors.New("yahoo: no chart data")

// Client is the primary quote source.
type Client struct {
	base   *upstream.Base
	logger *applogger.Logger
}

var _ domrepo.QuoteSource = (*Client)(nil)

type config struct {
	baseURL string
	client  *xhttp.Client
	logger  *applogger.Logger
	metrics domrepo.Metrics
	ua      string
}

type Option func(*config)

func WithBaseURL(u string) Option {
	return func(c *config) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *config) { c.client = hc }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

func WithUserAgent(ua string) Option {
	return func(c *config) {
		if ua != "" {
			c.ua = ua
		}
	}
}

func New(opts ...Option) *Client {
	cfg := &config{
		baseURL: DefaultBaseURL,
		logger:  applogger.Nop(),
		ua:      upstream.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	baseOpts := []upstream.Option{
		upstream.WithClient(cfg.client),
		upstream.WithMetrics(cfg.metrics),
		upstream.WithHeaders(map[string]string{
			"User-Agent":      cfg.ua,
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9,ko-KR;q=0.8,ko;q=0.7",
			"Referer":         "https://finance.yahoo.com/",
		}),
	}

	return &Client{
		base:   upstream.NewBase(ProviderName, cfg.baseURL, baseOpts...),
		logger: cfg.logger.With(applogger.String("provider", ProviderName)),
	}
}

// FetchQuote fetches chart, quoteSummary and the v7 quote concurrently and
// merges them. The chart is required; the other two only add fields.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	base := models.BaseSymbol(symbol)
	psym := models.ProviderSymbol(symbol)

	var (
		chart    *chartResult
		summary  *summaryResult
		simple   *v7Quote
		chartErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		chart, chartErr = c.chart(ctx, psym, "5d")
		return nil
	})
	g.Go(func() error {
		var err error
		if summary, err = c.summary(ctx, psym); err != nil {
			c.logger.Warn("quoteSummary unavailable", applogger.String("symbol", psym), applogger.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if simple, err = c.simpleQuote(ctx, psym); err != nil {
			c.logger.Warn("v7 quote unavailable", applogger.String("symbol", psym), applogger.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	if chartErr != nil {
		return nil, chartErr
	}

	src := &sources{
		meta:    &chart.Meta,
		closes:  chart.closes(),
		summary: summary,
		simple:  simple,
	}
	return buildQuote(base, src), nil
}

// FetchHistory returns daily sessions for period; rows with a null close
// are dropped.
func (c *Client) FetchHistory(ctx context.Context, symbol string, period models.Period) ([]models.HistoricalPoint, error) {
	if !period.IsValid() {
		period = models.DefaultPeriod
	}

	chart, err := c.chart(ctx, models.ProviderSymbol(symbol), string(period))
	if err != nil {
		return nil, err
	}

	s := chart.series()
	points := make([]models.HistoricalPoint, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		closeV := at(s.Close, i)
		if closeV == nil {
			continue
		}
		points = append(points, models.HistoricalPoint{
			Date:   util.MonthDayLabel(util.FromUnix(ts)),
			Open:   util.Deref(at(s.Open, i), 0),
			High:   util.Deref(at(s.High, i), 0),
			Low:    util.Deref(at(s.Low, i), 0),
			Close:  *closeV,
			Volume: util.Deref(at(s.Volume, i), 0),
		})
	}
	return points, nil
}

// FetchNews returns up to five of the most recent headlines.
func (c *Client) FetchNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	var resp searchResponse
	err := c.base.GetJSON(ctx, "news", "/v1/finance/search", url.Values{
		"q":           {models.ProviderSymbol(symbol)},
		"newsCount":   {"10"},
		"quotesCount": {"0"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	news := resp.News
	sort.SliceStable(news, func(i, j int) bool {
		return news[i].ProviderPublishTime > news[j].ProviderPublishTime
	})
	if len(news) > maxNewsItems {
		news = news[:maxNewsItems]
	}

	items := make([]models.NewsItem, 0, len(news))
	for _, n := range news {
		item := models.NewsItem{
			Title:       n.Title,
			Link:        n.Link,
			Publisher:   n.Publisher,
			PublishedAt: util.FromUnix(n.ProviderPublishTime),
		}
		if n.Thumbnail != nil && len(n.Thumbnail.Resolutions) > 0 {
			item.Thumbnail = n.Thumbnail.Resolutions[0].URL
		}
		items = append(items, item)
	}
	return items, nil
}

// Search returns equity matches for query.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var resp searchResponse
	err := c.base.GetJSON(ctx, "search", "/v1/finance/search", url.Values{
		"q":           {query},
		"quotesCount": {searchCount},
		"newsCount":   {"0"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.QuoteType != equityType {
			continue
		}
		results = append(results, models.SearchResult{
			Symbol: q.Symbol,
			Name:   util.Deref(nonEmpty(q.ShortName, q.LongName), q.Symbol),
			Type:   q.QuoteType,
		})
	}
	return results, nil
}

func (c *Client) chart(ctx context.Context, psym, rng string) (*chartResult, error) {
	var resp chartResponse
	err := c.base.GetJSON(ctx, "chart", "/v8/finance/chart/"+url.PathEscape(psym), url.Values{
		"interval": {"1d"},
		"range":    {rng},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		if e := resp.Chart.Error; e != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrNoChartData, e.Code, e.Description)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoChartData, psym)
	}
	return &resp.Chart.Result[0], nil
}

func (c *Client) summary(ctx context.Context, psym string) (*summaryResult, error) {
	var resp summaryResponse
	err := c.base.GetJSON(ctx, "quoteSummary", "/v10/finance/quoteSummary/"+url.PathEscape(psym), url.Values{
		"modules": {summaryModules},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quoteSummary: empty result for %s", psym)
	}
	return &resp.QuoteSummary.Result[0], nil
}

func (c *Client) simpleQuote(ctx context.Context, psym string) (*v7Quote, error) {
	var resp v7Response
	err := c.base.GetJSON(ctx, "quote", "/v7/finance/quote", url.Values{
		"symbols": {psym},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("v7 quote: empty result for %s", psym)
	}
	return &resp.QuoteResponse.Result[0], nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}
