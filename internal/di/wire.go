//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinQuote/pkg/config"
	"FinQuote/pkg/server"
)

var infraSet = wire.NewSet(
	ProvideKafkaProducer,
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideUpstreamClient,
	ProvidePublisher,
)

var stockSet = wire.NewSet(
	ProvideYahoo,
	ProvideNaver,
	ProvideAggregator,
	ProvideScorer,
	ProvideDecisionUseCase,
	ProvideRateLimiter,
	ProvideStockHandler,
	ProvideHTTPServer,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		stockSet,
		ProvideApp,
	)
	return &server.App{}, nil
}
