package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinQuote/internal/domain/models"
)

type routes map[string]func(w http.ResponseWriter, r *http.Request)

func newTestClient(t *testing.T, rt routes) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for prefix, h := range rt {
			if strings.HasPrefix(r.URL.Path, prefix) {
				h(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL))
}

func writeJSON(v string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(v))
	}
}

func failWith(code int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

const chartAAPL = `{"chart":{"result":[{"meta":{"symbol":"AAPL","currency":"USD","shortName":"Apple Inc.","regularMarketPrice":110,"chartPreviousClose":100,"marketCap":1000},"timestamp":[1700000000,1700086400],"indicators":{"quote":[{"close":[100,110]}]}}],"error":null}}`

const summaryAAPL = `{"quoteSummary":{"result":[{"price":{"shortName":"Apple","currency":"USD","marketCap":{"raw":3000}},"summaryDetail":{"trailingPE":{"raw":28.5},"dividendYield":{"raw":0.005}},"defaultKeyStatistics":{"trailingEps":{"raw":6.1},"priceToBook":{"raw":45}},"financialData":{"returnOnEquity":{"raw":1.47}}}]}}`

const v7AAPL = `{"quoteResponse":{"result":[{"symbol":"AAPL","shortName":"Apple v7","trailingPE":30,"beta":1.2,"marketCap":2000,"trailingAnnualDividendYield":0.004}]}}`

func TestFetchQuote_MergesSources(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{
		"/v8/finance/chart/":         writeJSON(chartAAPL),
		"/v10/finance/quoteSummary/": writeJSON(summaryAAPL),
		"/v7/finance/quote":          writeJSON(v7AAPL),
	})

	q, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple", q.Name)
	assert.Equal(t, 110.0, q.Price)
	assert.Equal(t, 10.0, q.Change)
	assert.InDelta(t, 10.0, q.ChangePercent, 1e-9)

	// summary wins over v7 and meta
	require.NotNil(t, q.MarketCap)
	assert.Equal(t, 3000.0, *q.MarketCap)
	require.NotNil(t, q.PE)
	assert.Equal(t, 28.5, *q.PE)
	require.NotNil(t, q.ROE)
	assert.InDelta(t, 147.0, *q.ROE, 1e-9)
	require.NotNil(t, q.DividendYield)
	assert.InDelta(t, 0.5, *q.DividendYield, 1e-9)
	// only v7 has beta
	require.NotNil(t, q.Beta)
	assert.Equal(t, 1.2, *q.Beta)
}

func TestFetchQuote_ZeroSummaryRatiosFallThrough(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{
		"/v8/finance/chart/":         writeJSON(chartAAPL),
		"/v10/finance/quoteSummary/": writeJSON(`{"quoteSummary":{"result":[{"price":{"marketCap":{"raw":3000}},"summaryDetail":{"trailingPE":{"raw":0},"beta":{"raw":0},"dividendYield":{"raw":0}},"defaultKeyStatistics":{"trailingEps":{"raw":0},"priceToBook":{"raw":0}},"financialData":{"returnOnEquity":{"raw":0}}}]}}`),
		"/v7/finance/quote":          writeJSON(`{"quoteResponse":{"result":[{"symbol":"AAPL","trailingPE":25,"priceToBook":40,"beta":1.1,"trailingAnnualDividendYield":0.004,"epsTrailingTwelveMonths":6.5}]}}`),
	})

	q, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, q)

	require.NotNil(t, q.PE)
	assert.Equal(t, 25.0, *q.PE)
	require.NotNil(t, q.PBR)
	assert.Equal(t, 40.0, *q.PBR)
	require.NotNil(t, q.Beta)
	assert.Equal(t, 1.1, *q.Beta)
	require.NotNil(t, q.DividendYield)
	assert.InDelta(t, 0.4, *q.DividendYield, 1e-9)
	// nothing else reports roe, so a zero leaves it open for the fallback
	assert.Nil(t, q.ROE)
	// eps is not a ratio; zero is kept
	require.NotNil(t, q.EPS)
	assert.Equal(t, 0.0, *q.EPS)
}

func TestFetchQuote_SummaryFailureIsSoft(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{
		"/v8/finance/chart/":         writeJSON(chartAAPL),
		"/v10/finance/quoteSummary/": failWith(http.StatusUnauthorized),
		"/v7/finance/quote":          failWith(http.StatusInternalServerError),
	})

	q, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "Apple Inc.", q.Name)
	require.NotNil(t, q.MarketCap)
	assert.Equal(t, 1000.0, *q.MarketCap)
	assert.Nil(t, q.PE)
	assert.Nil(t, q.ROE)
}

func TestFetchQuote_ChartFailure(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{
		"/v8/finance/chart/":         writeJSON(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`),
		"/v10/finance/quoteSummary/": writeJSON(summaryAAPL),
		"/v7/finance/quote":          writeJSON(v7AAPL),
	})

	q, err := c.FetchQuote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoChartData))
	assert.Nil(t, q)
}

func TestFetchQuote_KoreanSymbol(t *testing.T) {
	t.Parallel()
	var gotPath string
	c := newTestClient(t, routes{
		"/v8/finance/chart/": func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			writeJSON(`{"chart":{"result":[{"meta":{"symbol":"005930.KS","currency":"KRW","regularMarketPrice":70000,"previousClose":70000},"timestamp":[],"indicators":{"quote":[{}]}}]}}`)(w, r)
		},
		"/v10/finance/quoteSummary/": failWith(http.StatusNotFound),
		"/v7/finance/quote":          failWith(http.StatusNotFound),
	})

	q, err := c.FetchQuote(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/005930.KS", gotPath)
	assert.Equal(t, "005930", q.Symbol)
	assert.Equal(t, "삼성전자", q.NameKr)
	assert.Equal(t, "KRW", q.Currency)
	assert.Equal(t, 0.0, q.Change)
	assert.Equal(t, 0.0, q.ChangePercent)
}

func TestFetchQuote_PriceFromClosesWhenMetaMissing(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{
		"/v8/finance/chart/":         writeJSON(`{"chart":{"result":[{"meta":{"symbol":"X"},"timestamp":[1,2,3],"indicators":{"quote":[{"close":[40,null,50]}]}}]}}`),
		"/v10/finance/quoteSummary/": failWith(http.StatusNotFound),
		"/v7/finance/quote":          failWith(http.StatusNotFound),
	})

	q, err := c.FetchQuote(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, 50.0, q.Price)
	assert.Equal(t, 10.0, q.Change)
	assert.InDelta(t, 25.0, q.ChangePercent, 1e-9)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, "X", q.Name)
}

func TestFetchHistory_DropsNullCloses(t *testing.T) {
	t.Parallel()

	closes := make([]interface{}, 10)
	ts := make([]int64, 10)
	for i := range closes {
		closes[i] = float64(100 + i)
		ts[i] = 1704067200 + int64(i)*86400 // 2024-01-01 UTC
	}
	closes[3] = nil
	body, err := json.Marshal(map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []interface{}{map[string]interface{}{
				"meta":      map[string]interface{}{"symbol": "AAPL"},
				"timestamp": ts,
				"indicators": map[string]interface{}{
					"quote": []interface{}{map[string]interface{}{"close": closes}},
				},
			}},
		},
	})
	require.NoError(t, err)

	var gotRange string
	c := newTestClient(t, routes{
		"/v8/finance/chart/": func(w http.ResponseWriter, r *http.Request) {
			gotRange = r.URL.Query().Get("range")
			writeJSON(string(body))(w, r)
		},
	})

	points, err := c.FetchHistory(context.Background(), "AAPL", models.Period3mo)
	require.NoError(t, err)
	assert.Equal(t, "3mo", gotRange)
	require.Len(t, points, 9)
	assert.Equal(t, "1/1", points[0].Date)
	assert.Equal(t, "1/5", points[3].Date)
	assert.Equal(t, 104.0, points[3].Close)
	assert.Equal(t, 0.0, points[0].Open)
}

func TestFetchHistory_InvalidPeriodFallsBack(t *testing.T) {
	t.Parallel()
	var gotRange string
	c := newTestClient(t, routes{
		"/v8/finance/chart/": func(w http.ResponseWriter, r *http.Request) {
			gotRange = r.URL.Query().Get("range")
			writeJSON(chartAAPL)(w, r)
		},
	})

	_, err := c.FetchHistory(context.Background(), "AAPL", models.Period("10y"))
	require.NoError(t, err)
	assert.Equal(t, "1mo", gotRange)
}

func TestFetchNews_LatestFive(t *testing.T) {
	t.Parallel()
	body := `{"news":[
		{"title":"a","link":"la","publisher":"p","providerPublishTime":100},
		{"title":"b","link":"lb","publisher":"p","providerPublishTime":600,"thumbnail":{"resolutions":[{"url":"http://img/b"}]}},
		{"title":"c","link":"lc","publisher":"p","providerPublishTime":300},
		{"title":"d","link":"ld","publisher":"p","providerPublishTime":500},
		{"title":"e","link":"le","publisher":"p","providerPublishTime":200},
		{"title":"f","link":"lf","publisher":"p","providerPublishTime":400}
	]}`
	var gotQ string
	c := newTestClient(t, routes{
		"/v1/finance/search": func(w http.ResponseWriter, r *http.Request) {
			gotQ = r.URL.Query().Get("q")
			writeJSON(body)(w, r)
		},
	})

	items, err := c.FetchNews(context.Background(), "000660")
	require.NoError(t, err)
	assert.Equal(t, "000660.KS", gotQ)
	require.Len(t, items, 5)
	assert.Equal(t, "b", items[0].Title)
	assert.Equal(t, "http://img/b", items[0].Thumbnail)
	assert.Equal(t, int64(600), items[0].PublishedAt.Unix())
	assert.Equal(t, "e", items[4].Title)
}

func TestSearch_EquityOnly(t *testing.T) {
	t.Parallel()
	body := `{"quotes":[
		{"symbol":"AAPL","shortname":"Apple Inc.","quoteType":"EQUITY"},
		{"symbol":"AAPL240119C","shortname":"Option","quoteType":"OPTION"},
		{"symbol":"APLE","longname":"Apple Hospitality","quoteType":"EQUITY"},
		{"symbol":"APPX","quoteType":"EQUITY"},
		{"symbol":"AAPLX","shortname":"Fund","quoteType":"MUTUALFUND"}
	]}`
	c := newTestClient(t, routes{"/v1/finance/search": writeJSON(body)})

	results, err := c.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "EQUITY", r.Type)
	}
	assert.Equal(t, "Apple Inc.", results[0].Name)
	assert.Equal(t, "Apple Hospitality", results[1].Name)
	assert.Equal(t, "APPX", results[2].Name)
}

func TestSearch_UpstreamError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, routes{"/v1/finance/search": failWith(http.StatusTooManyRequests)})

	results, err := c.Search(context.Background(), "apple")
	require.Error(t, err)
	assert.Nil(t, results)
}
