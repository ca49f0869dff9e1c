package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinQuote/internal/domain/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubServer struct {
	*httptest.Server
	hits    atomic.Int32
	lastURL atomic.Value
	handle  func(w http.ResponseWriter, r *http.Request)
}

func newStub(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) *stubServer {
	t.Helper()
	s := &stubServer{handle: handle}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.lastURL.Store(r.URL.String())
		w.Header().Set("Content-Type", "application/json")
		s.handle(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	_ = json.NewEncoder(w).Encode(v)
}

func TestQuote_CachedFor30s(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock-data", r.URL.Path)
		assert.Equal(t, "quote", r.URL.Query().Get("action"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(w, models.Quote{Symbol: r.URL.Query().Get("symbol"), Price: 190})
	})
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(srv.URL, WithClock(clk.Now), WithAPIKey("secret"))
	ctx := context.Background()

	q, err := c.Quote(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 190.0, q.Price)

	clk.Advance(29 * time.Second)
	_, err = c.Quote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	clk.Advance(2 * time.Second)
	_, err = c.Quote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestQuote_NullNotCached(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("null\n"))
	})
	c := New(srv.URL)

	for range 2 {
		q, err := c.Quote(context.Background(), "ZZZZ")
		require.NoError(t, err)
		assert.Nil(t, q)
	}
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestQuotes_KeyIsOrderInsensitive(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Quote{{Symbol: "AAPL"}, {Symbol: "MSFT"}})
	})
	c := New(srv.URL)
	ctx := context.Background()

	in := []string{"MSFT", "AAPL"}
	out, err := c.Quotes(ctx, in)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"MSFT", "AAPL"}, in, "caller slice must not be reordered")
	assert.Contains(t, srv.lastURL.Load(), "symbols=MSFT%2CAAPL")

	_, err = c.Quotes(ctx, []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	empty, err := c.Quotes(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestHistory_DefaultPeriod(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1mo", r.URL.Query().Get("period"))
		writeJSON(w, []models.HistoricalPoint{{Date: "1/2", Close: 10}})
	})
	c := New(srv.URL)

	out, err := c.History(context.Background(), "AAPL", "")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSearch_ShortQueryIsNoop(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.SearchResult{})
	})
	c := New(srv.URL)

	out, err := c.Search(context.Background(), " a ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestSearch_LowercasedKey(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.SearchResult{{Symbol: "AAPL", Name: "Apple Inc.", Type: "EQUITY"}})
	})
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Search(ctx, "Apple")
	require.NoError(t, err)
	out, err := c.Search(ctx, "APPLE")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestErrorStatus(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "Invalid symbol format"})
	})
	c := New(srv.URL)

	_, err := c.News(context.Background(), "$$")
	assert.ErrorContains(t, err, "Invalid symbol format")
}

func TestAll_FallbackOnError(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"error": "Failed to fetch stock data"})
	})
	c := New(srv.URL)

	out := c.All(context.Background(), "AAPL")
	require.NotNil(t, out)
	assert.Nil(t, out.Quote)
	assert.NotNil(t, out.History)
	assert.Empty(t, out.History)
	assert.NotNil(t, out.News)
}

func TestSupersedeSameSlot(t *testing.T) {
	started := make(chan struct{})
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "SLOW" {
			close(started)
			<-r.Context().Done()
			return
		}
		writeJSON(w, models.Quote{Symbol: "FAST"})
	})
	c := New(srv.URL)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := c.Quote(ctx, "SLOW")
		errc <- err
	}()
	<-started

	q, err := c.Quote(ctx, "FAST")
	require.NoError(t, err)
	assert.Equal(t, "FAST", q.Symbol)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded call did not return")
	}
}

func TestDifferentSlotsDoNotCancel(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "history" {
			close(started)
			<-release
			writeJSON(w, []models.HistoricalPoint{})
			return
		}
		writeJSON(w, []models.NewsItem{})
	})
	c := New(srv.URL)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := c.History(ctx, "AAPL", models.Period1mo)
		errc <- err
	}()
	<-started

	_, err := c.News(ctx, "AAPL")
	require.NoError(t, err)
	close(release)
	assert.NoError(t, <-errc)
}

func TestDecision(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/decision", r.URL.Path)
		writeJSON(w, map[string]interface{}{
			"status":  200,
			"message": "OK",
			"data": models.DecisionReport{
				Symbol:   "AAPL",
				Decision: models.AgentDecision{Signal: models.SignalHold, Confidence: 60},
			},
		})
	})
	c := New(srv.URL)

	report, err := c.Decision(context.Background(), "AAPL", models.Period3mo)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, models.SignalHold, report.Decision.Signal)
	assert.Contains(t, srv.lastURL.Load(), "period=3mo")
}
