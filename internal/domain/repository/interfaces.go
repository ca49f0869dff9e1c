package repository

import (
	"context"

	"FinQuote/internal/domain/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_interfaces.go -source=interfaces.go

// QuoteSource is the primary quote/history/news provider. A nil quote with
// a nil error means the provider had no data for the symbol.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*models.Quote, error)
	FetchHistory(ctx context.Context, symbol string, period models.Period) ([]models.HistoricalPoint, error)
	FetchNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// FundamentalsSource fills metric gaps left by the primary source for the
// markets it covers.
type FundamentalsSource interface {
	Name() string
	FetchFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

type Publisher interface {
	PublishQuotes(ctx context.Context, quotes []models.Quote) error
	PublishDecision(ctx context.Context, report *models.DecisionReport) error
	Close() error
}

type Metrics interface {
	RecordUpstream(provider, endpoint, result string, seconds float64)
	RecordCache(op string, hit bool)
	RecordDecision(signal string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
