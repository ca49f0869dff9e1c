package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	domsvc "FinQuote/internal/domain/service"
	"FinQuote/internal/services/features"
	applogger "FinQuote/pkg/logger"
	"FinQuote/pkg/metrics"
)

// ErrNoQuote means the primary source had nothing for the symbol, so no
// decision can be made.
var ErrNoQuote = errors.New("no quote data for symbol")

// DecisionUseCase builds a scored decision from live quote and history.
type DecisionUseCase struct {
	agg       *StockAggregator
	scorer    domsvc.DecisionScorer
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	now       func() time.Time
}

type DecisionOption func(*DecisionUseCase)

func WithDecisionPublisher(p domrepo.Publisher) DecisionOption {
	return func(uc *DecisionUseCase) { uc.publisher = p }
}

func WithDecisionMetrics(m domrepo.Metrics) DecisionOption {
	return func(uc *DecisionUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithDecisionLogger(l *applogger.Logger) DecisionOption {
	return func(uc *DecisionUseCase) {
		if l != nil {
			uc.logger = l
		}
	}
}

func WithDecisionClock(now func() time.Time) DecisionOption {
	return func(uc *DecisionUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewDecisionUseCase(agg *StockAggregator, scorer domsvc.DecisionScorer, opts ...DecisionOption) *DecisionUseCase {
	uc := &DecisionUseCase{
		agg:     agg,
		scorer:  scorer,
		metrics: metrics.Nop{},
		logger:  applogger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Decide fetches quote and history concurrently, derives momentum from the
// history and scores the resulting metrics.
func (uc *DecisionUseCase) Decide(ctx context.Context, symbol string, period models.Period) (*models.DecisionReport, error) {
	if err := models.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if !period.IsValid() {
		period = models.DefaultPeriod
	}
	start := uc.now()

	var (
		quote   *models.Quote
		history []models.HistoricalPoint
		g       errgroup.Group
	)
	g.Go(func() error {
		quote = uc.agg.GetQuote(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		history = uc.agg.GetHistory(ctx, symbol, period)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrNoQuote
	}

	m := models.MetricsFromQuote(quote, features.Momentum(history))
	decision := uc.scorer.Score(m)
	curve, perf := features.Backtest(history)

	report := &models.DecisionReport{
		Symbol:      quote.Symbol,
		Period:      period,
		Quote:       quote,
		Metrics:     m,
		Decision:    decision,
		Performance: perf,
		Curve:       curve,
		GeneratedAt: uc.now().UTC(),
	}

	uc.metrics.RecordDecision(string(decision.Signal))
	uc.metrics.RecordLatency("decision", uc.now().Sub(start).Seconds())

	if uc.publisher != nil {
		if err := uc.publisher.PublishDecision(context.WithoutCancel(ctx), report); err != nil {
			uc.logger.Warn("publish decision failed",
				applogger.String("symbol", report.Symbol),
				applogger.Error(err))
		}
	}
	return report, nil
}
