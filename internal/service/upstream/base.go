package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	domrepo "FinQuote/internal/domain/repository"
	xhttp "FinQuote/pkg/http"
)

// DefaultUserAgent is a desktop browser UA; both providers reject bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Base centralizes JSON GET handling for provider adapters: one client,
// fixed headers, per-endpoint metrics.
type Base struct {
	provider string
	baseURL  string
	client   *xhttp.Client
	headers  map[string]string
	metrics  domrepo.Metrics
}

type Option func(*Base)

// WithClient sets the HTTP client (timeout lives there).
func WithClient(c *xhttp.Client) Option {
	return func(b *Base) {
		if c != nil {
			b.client = c
		}
	}
}

// WithHeaders merges headers sent on every call.
func WithHeaders(h map[string]string) Option {
	return func(b *Base) {
		for k, v := range h {
			b.headers[k] = v
		}
	}
}

// WithMetrics records per-endpoint latency and result.
func WithMetrics(m domrepo.Metrics) Option {
	return func(b *Base) {
		b.metrics = m
	}
}

// NewBase builds a base for provider rooted at baseURL.
func NewBase(provider, baseURL string, opts ...Option) *Base {
	b := &Base{
		provider: provider,
		baseURL:  baseURL,
		client:   xhttp.NewClient(xhttp.WithTimeout(8 * time.Second)),
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     "application/json",
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Provider returns the provider label used in logs and metrics.
func (b *Base) Provider() string { return b.provider }

// GetJSON issues GET baseURL+path and decodes the JSON body into dest.
// endpoint is a low-cardinality label for metrics.
func (b *Base) GetJSON(ctx context.Context, endpoint, path string, query map[string][]string, dest interface{}) error {
	start := time.Now()
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		Headers:     b.headers,
		QueryParams: query,
	}, dest)

	if b.metrics != nil {
		b.metrics.RecordUpstream(b.provider, endpoint, resultLabel(err), time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", b.provider, endpoint, err)
	}
	return nil
}

func resultLabel(err error) string {
	var se *xhttp.StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &se):
		return "status"
	default:
		return "error"
	}
}
