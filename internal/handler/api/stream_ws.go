package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FinQuote/internal/domain/models"
	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
)

// StreamConfig controls the watchlist websocket.
type StreamConfig struct {
	Interval     time.Duration // push period
	PingInterval time.Duration
	WriteTimeout time.Duration
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 20 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

// StreamFrame is one push to the client.
type StreamFrame struct {
	Quotes []models.Quote `json:"quotes"`
	SentAt time.Time      `json:"sentAt"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Stream upgrades to a websocket and pushes the batch quotes for ?symbols=
// immediately and then every interval. The loop ends with the connection.
func (h *StockEchoHandler) Stream(c echo.Context) error {
	req := &models.StreamRequest{}
	if err := xhttp.BindQuery(c, req); err != nil || req.Symbols == "" {
		return xhttp.ErrorMessage(c, http.StatusBadRequest, msgSymbolsRequired)
	}
	symbols := models.SanitizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.ErrorMessage(c, http.StatusBadRequest, msgNoValidSymbols)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx := c.Request().Context()
	cfg := h.stream

	// Reader detects client close; incoming messages are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		frame := StreamFrame{Quotes: h.stocks.GetQuotesBatch(ctx, symbols), SentAt: time.Now().UTC()}
		_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Debug("stream write failed", applogger.Error(err))
			return false
		}
		return true
	}

	if !push() {
		return nil
	}

	tick := time.NewTicker(cfg.Interval)
	defer tick.Stop()
	ping := time.NewTicker(cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(cfg.WriteTimeout)); err != nil {
				return nil
			}
		case <-tick.C:
			if !push() {
				return nil
			}
		}
	}
}
