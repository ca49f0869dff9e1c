package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"FinQuote/internal/domain/models"
	"FinQuote/internal/service/ratelimit"
	"FinQuote/internal/usecase"
	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
)

const (
	msgSymbolRequired  = "Symbol is required"
	msgInvalidSymbol   = "Invalid symbol format"
	msgSymbolsRequired = "Symbols are required"
	msgNoValidSymbols  = "No valid symbols provided"
	msgQueryRequired   = "Query is required"
	msgInvalidQuery    = "Invalid query format"
	msgInvalidAction   = "Invalid action"
	msgTooManyRequests = "Too many requests"

	// FetchFailedMessage is the only detail a client sees on a 500.
	FetchFailedMessage = "Failed to fetch stock data"
)

func init() {
	xhttp.RegisterValidation("stocksymbol", models.IsValidSymbol)
}

// StockReader is the read path the handlers need.
type StockReader interface {
	GetQuote(ctx context.Context, symbol string) *models.Quote
	GetQuotesBatch(ctx context.Context, symbols []string) []models.Quote
	GetHistory(ctx context.Context, symbol string, period models.Period) []models.HistoricalPoint
	GetNews(ctx context.Context, symbol string) []models.NewsItem
	GetAll(ctx context.Context, symbol string, period models.Period) *models.AllData
	Search(ctx context.Context, query string) []models.SearchResult
}

// Decider builds a scored decision report.
type Decider interface {
	Decide(ctx context.Context, symbol string, period models.Period) (*models.DecisionReport, error)
}

var (
	_ StockReader = (*usecase.StockAggregator)(nil)
	_ Decider     = (*usecase.DecisionUseCase)(nil)
)

// StockEchoHandler serves the stock-data dispatch endpoint, the decision
// endpoint and the watchlist stream.
type StockEchoHandler struct {
	logger  *applogger.Logger
	stocks  StockReader
	decider Decider
	limiter *ratelimit.Limiter
	stream  StreamConfig
}

type HandlerOption func(*StockEchoHandler)

// WithRateLimiter enables per-client-IP limiting on /api/stock-data.
func WithRateLimiter(l *ratelimit.Limiter) HandlerOption {
	return func(h *StockEchoHandler) { h.limiter = l }
}

func WithStreamConfig(cfg StreamConfig) HandlerOption {
	return func(h *StockEchoHandler) { h.stream = cfg.withDefaults() }
}

func NewStockEchoHandler(logger *applogger.Logger, stocks StockReader, decider Decider, opts ...HandlerOption) *StockEchoHandler {
	h := &StockEchoHandler{
		logger:  logger,
		stocks:  stocks,
		decider: decider,
		stream:  StreamConfig{}.withDefaults(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *StockEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stock-data", h.StockData)
	g.GET("/decision", h.Decision)
	g.GET("/stream", h.Stream)
}

// StockData dispatches on ?action=quote|quotes|history|news|search|all and
// answers with the raw entity JSON.
func (h *StockEchoHandler) StockData(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		return xhttp.ErrorMessage(c, http.StatusTooManyRequests, msgTooManyRequests)
	}

	req := &models.StockDataRequest{}
	if err := xhttp.BindQuery(c, req); err != nil {
		h.logger.Warn("stock-data bind failed", applogger.Error(err))
		return xhttp.ErrorMessage(c, http.StatusBadRequest, msgInvalidAction)
	}
	period := models.NormalizePeriod(req.Period)
	ctx := c.Request().Context()

	h.logger.Debug("stock-data",
		applogger.String("action", req.Action),
		applogger.String("symbol", req.Symbol))

	switch models.Action(req.Action) {
	case models.ActionQuote:
		if msg := checkSymbol(req.Symbol); msg != "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msg)
		}
		return xhttp.RawResponse(c, h.stocks.GetQuote(ctx, req.Symbol))

	case models.ActionQuotes:
		if req.Symbols == "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msgSymbolsRequired)
		}
		list := models.SanitizeSymbols(req.Symbols)
		if len(list) == 0 {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msgNoValidSymbols)
		}
		return xhttp.RawResponse(c, h.stocks.GetQuotesBatch(ctx, list))

	case models.ActionHistory:
		if msg := checkSymbol(req.Symbol); msg != "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msg)
		}
		return xhttp.RawResponse(c, h.stocks.GetHistory(ctx, req.Symbol, period))

	case models.ActionNews:
		if msg := checkSymbol(req.Symbol); msg != "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msg)
		}
		return xhttp.RawResponse(c, h.stocks.GetNews(ctx, req.Symbol))

	case models.ActionSearch:
		if req.Query == "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msgQueryRequired)
		}
		if utf8.RuneCountInString(req.Query) > models.MaxQueryLength || strings.TrimSpace(req.Query) == "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msgInvalidQuery)
		}
		return xhttp.RawResponse(c, h.stocks.Search(ctx, strings.TrimSpace(req.Query)))

	case models.ActionAll:
		if msg := checkSymbol(req.Symbol); msg != "" {
			return xhttp.ErrorMessage(c, http.StatusBadRequest, msg)
		}
		return xhttp.RawResponse(c, h.stocks.GetAll(ctx, req.Symbol, period))

	default:
		return xhttp.ErrorMessage(c, http.StatusBadRequest, msgInvalidAction)
	}
}

// Decision returns {metrics, decision, performance} for a symbol inside
// the standard response envelope.
func (h *StockEchoHandler) Decision(c echo.Context) error {
	start := time.Now()
	req := &models.DecisionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.decider.Decide(c.Request().Context(), req.Symbol, models.NormalizePeriod(req.Period))
	switch {
	case errors.Is(err, models.ErrInvalidSymbol):
		return xhttp.AppErrorResponse(c, xhttp.InvalidSymbolError(req.Symbol, msgInvalidSymbol).Because(err))
	case errors.Is(err, usecase.ErrNoQuote):
		return xhttp.AppErrorResponse(c, xhttp.NoQuoteError(req.Symbol))
	case err != nil:
		h.logger.Error("decision usecase error", applogger.Error(err), applogger.String("symbol", req.Symbol))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError(req.Symbol, FetchFailedMessage).Because(err))
	}

	h.logger.Debug("decision served",
		applogger.String("symbol", report.Symbol),
		applogger.String("signal", string(report.Decision.Signal)),
		applogger.Duration("took", time.Since(start)))
	return xhttp.SuccessResponse(c, report)
}

// checkSymbol returns the 400 message for a bad symbol, or "".
func checkSymbol(s string) string {
	if s == "" {
		return msgSymbolRequired
	}
	if xhttp.ValidateVar(s, "max=20,stocksymbol") != nil {
		return msgInvalidSymbol
	}
	return ""
}
