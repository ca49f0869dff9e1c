package naver

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	"FinQuote/internal/service/upstream"
	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
)

const (
	ProviderName   = "naver"
	DefaultBaseURL = "https://m.stock.naver.com"

	mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

// ErrNoMetrics means none of the endpoints produced a usable metric.
var ErrNoMetrics = errors.New("naver: no metrics")

// Client fills fundamentals for Korean listings.
type Client struct {
	base   *upstream.Base
	logger *applogger.Logger
}

var _ domrepo.FundamentalsSource = (*Client)(nil)

type config struct {
	baseURL string
	client  *xhttp.Client
	logger  *applogger.Logger
	metrics domrepo.Metrics
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

func New(opts ...Option) *Client {
	cfg := &config{baseURL: DefaultBaseURL, logger: applogger.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		base: upstream.NewBase(ProviderName, cfg.baseURL,
			upstream.WithClient(cfg.client),
			upstream.WithMetrics(cfg.metrics),
			upstream.WithHeaders(map[string]string{
				"User-Agent": mobileUserAgent,
				"Accept":     "application/json",
				"Referer":    "https://m.stock.naver.com/",
			}),
		),
		logger: cfg.logger.With(applogger.String("provider", ProviderName)),
	}
}

func (c *Client) Name() string { return ProviderName }

// FetchFundamentals queries basic, integration and indicator concurrently.
// Each endpoint is optional; ErrNoMetrics is returned only when nothing
// usable came back.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	code := url.PathEscape(models.BaseSymbol(symbol))
	prefix := "/api/stock/" + code

	var (
		p  payloads
		g  errgroup.Group
		bs basicResponse
		in integrationResponse
		id indicatorResponse
	)
	g.Go(func() error {
		if c.fetch(ctx, "basic", prefix+"/basic", &bs) {
			p.basic = &bs
		}
		return nil
	})
	g.Go(func() error {
		if c.fetch(ctx, "integration", prefix+"/integration", &in) {
			p.integration = &in
		}
		return nil
	})
	g.Go(func() error {
		if c.fetch(ctx, "indicator", prefix+"/indicator", &id) {
			p.indicator = &id
		}
		return nil
	})
	_ = g.Wait()

	f := p.fundamentals()
	if f.Empty() && f.Name == "" {
		return nil, ErrNoMetrics
	}
	return f, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, path string, dest interface{}) bool {
	if err := c.base.GetJSON(ctx, endpoint, path, nil, dest); err != nil {
		c.logger.Warn("endpoint unavailable",
			applogger.String("endpoint", endpoint),
			applogger.String("path", path),
			applogger.Error(err))
		return false
	}
	return true
}
