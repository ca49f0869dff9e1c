package di

import (
	"fmt"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	domsvc "FinQuote/internal/domain/service"
	"FinQuote/internal/handler/api"
	internalrepo "FinQuote/internal/repository"
	"FinQuote/internal/service/naver"
	"FinQuote/internal/service/ratelimit"
	"FinQuote/internal/service/yahoo"
	"FinQuote/internal/services/analytics"
	"FinQuote/internal/usecase"
	"FinQuote/pkg/cache"
	"FinQuote/pkg/config"
	xhttp "FinQuote/pkg/http"
	pkgkafka "FinQuote/pkg/kafka"
	applogger "FinQuote/pkg/logger"
	"FinQuote/pkg/metrics"
	"FinQuote/pkg/server"
)

// ProvideLogger creates the application logger. With a producer and the
// collector enabled, error logs are aggregated and shipped to Kafka; the
// collector is attached before any child logger is derived.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Log.Collector.Enabled {
		l.AddCollector(&applogger.CollectionConfig{
			Interval:    cfg.Log.Collector.Interval,
			MaxDistinct: cfg.Log.Collector.Threshold,
			Topic:       cfg.Kafka.LogTopic,
			Environment: cfg.Environment,
			Publisher:   producer,
		})
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) domrepo.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideCache builds the aggregator cache for the configured backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memory := func() *cache.MemoryCache {
		return cache.NewMemoryCache(
			cache.WithMemoryTTL(cfg.Cache.TTL),
			cache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		)
	}
	if cfg.Cache.Backend == "memory" {
		return memory(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 0, 0),
		cache.WithRedisTTL(cfg.Cache.TTL),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if cfg.Cache.Backend == "layered" {
		return cache.NewLayeredCache(memory(), rc), nil
	}
	return rc, nil
}

// ProvideUpstreamClient creates the HTTP client shared by both providers.
func ProvideUpstreamClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Upstream.Timeout))
}

// ProvideYahoo creates the primary quote source.
func ProvideYahoo(cfg *config.Config, hc *xhttp.Client, l *applogger.Logger, m domrepo.Metrics) *yahoo.Client {
	opts := []yahoo.Option{
		yahoo.WithBaseURL(cfg.Upstream.YahooBaseURL),
		yahoo.WithHTTPClient(hc),
		yahoo.WithLogger(l),
		yahoo.WithMetrics(m),
	}
	if cfg.Upstream.UserAgent != "" {
		opts = append(opts, yahoo.WithUserAgent(cfg.Upstream.UserAgent))
	}
	return yahoo.New(opts...)
}

// ProvideNaver creates the KR fundamentals fallback.
func ProvideNaver(cfg *config.Config, hc *xhttp.Client, l *applogger.Logger, m domrepo.Metrics) *naver.Client {
	return naver.New(
		naver.WithBaseURL(cfg.Upstream.NaverBaseURL),
		naver.WithHTTPClient(hc),
		naver.WithLogger(l),
		naver.WithMetrics(m),
	)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Compression, cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.AutoCreate),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher returns the Kafka-backed publisher, or nil when there
// is no producer.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.QuotesTopic, cfg.Kafka.DecisionsTopic)
}

// ProvideAggregator creates the cached read path with the KR fallback.
func ProvideAggregator(
	cfg *config.Config,
	c cache.Service,
	primary *yahoo.Client,
	kr *naver.Client,
	pub domrepo.Publisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.StockAggregator {
	return usecase.NewStockAggregator(primary, c,
		usecase.WithFallback(models.MarketKR, kr),
		usecase.WithPublisher(pub),
		usecase.WithAggregatorMetrics(m),
		usecase.WithAggregatorLogger(l),
		usecase.WithChunkSize(cfg.Batch.ChunkSize),
		usecase.WithMaxSymbols(cfg.Batch.MaxSymbols),
		usecase.WithCallTimeout(cfg.Upstream.CallTimeout),
	)
}

// ProvideScorer creates the scoring engine.
func ProvideScorer(cfg *config.Config) domsvc.DecisionScorer {
	if cfg.Scoring.HoldJitter {
		return analytics.NewScorer(analytics.WithHoldJitter(cfg.Scoring.Seed))
	}
	return analytics.NewScorer()
}

// ProvideDecisionUseCase creates the decision use case.
func ProvideDecisionUseCase(
	agg *usecase.StockAggregator,
	scorer domsvc.DecisionScorer,
	pub domrepo.Publisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.DecisionUseCase {
	return usecase.NewDecisionUseCase(agg, scorer,
		usecase.WithDecisionPublisher(pub),
		usecase.WithDecisionMetrics(m),
		usecase.WithDecisionLogger(l),
	)
}

// ProvideRateLimiter creates the per-IP limiter, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec,
		ratelimit.WithIdleTTL(cfg.RateLimit.IdleTTL))
}

// ProvideStockHandler creates the HTTP handler.
func ProvideStockHandler(
	cfg *config.Config,
	l *applogger.Logger,
	agg *usecase.StockAggregator,
	uc *usecase.DecisionUseCase,
	limiter *ratelimit.Limiter,
) *api.StockEchoHandler {
	opts := []api.HandlerOption{
		api.WithStreamConfig(api.StreamConfig{
			Interval:     cfg.Stream.Interval,
			PingInterval: cfg.Stream.PingInterval,
		}),
	}
	if limiter != nil {
		opts = append(opts, api.WithRateLimiter(limiter))
	}
	return api.NewStockEchoHandler(l, agg, uc, opts...)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.StockEchoHandler) *xhttp.Server {
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithPanicMessage(api.FetchFailedMessage),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application. Resources close after the HTTP
// server in the order listed here.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	l *applogger.Logger,
	c cache.Service,
	producer *pkgkafka.Producer,
) *server.App {
	opts := []server.Option{server.WithShutdownTimeout(cfg.Server.ShutdownTimeout)}

	if producer != nil {
		if cfg.Log.Collector.Enabled {
			opts = append(opts, server.WithCloser("log collector", server.CloserFunc(func() error {
				l.RemoveCollector()
				return nil
			})))
		}
		opts = append(opts, server.WithCloser("kafka producer", producer))
	}
	opts = append(opts, server.WithCloser("cache", c))

	return server.New(srv, l, opts...)
}
