package models

import "FinQuote/pkg/util"

// Quote is the normalized quote for one instrument. Fundamental fields are
// independently optional; partial data is expected.
type Quote struct {
	Symbol        string  `json:"symbol"` // base form
	Name          string  `json:"name"`
	NameKr        string  `json:"nameKr,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Currency      string  `json:"currency"`

	MarketCap        *float64 `json:"marketCap,omitempty"`
	Volume           *float64 `json:"volume,omitempty"`
	DayHigh          *float64 `json:"dayHigh,omitempty"`
	DayLow           *float64 `json:"dayLow,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow,omitempty"`
	PE               *float64 `json:"pe,omitempty"`
	PBR              *float64 `json:"pbr,omitempty"`
	EPS              *float64 `json:"eps,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`            // percent
	DividendYield    *float64 `json:"dividendYield,omitempty"` // percent
	Beta             *float64 `json:"beta,omitempty"`
}

// ApplyPrice sets price and derives change fields from previousClose.
// changePercent is 0 when previousClose is 0.
func (q *Quote) ApplyPrice(price, previousClose float64) {
	q.Price = price
	q.Change = price - previousClose
	if previousClose == 0 {
		q.ChangePercent = 0
		return
	}
	q.ChangePercent = q.Change / previousClose * 100
}

// PreviousClose recovers the reference price used for Change.
func (q *Quote) PreviousClose() float64 {
	return q.Price - q.Change
}

// MissingCoreMetrics reports whether any of pe, pbr, eps, roe is absent.
func (q *Quote) MissingCoreMetrics() bool {
	return q.PE == nil || q.PBR == nil || q.EPS == nil || q.ROE == nil
}

// Fundamentals is the metric bundle a secondary source can contribute.
type Fundamentals struct {
	Name          string   `json:"name,omitempty"`
	PE            *float64 `json:"pe,omitempty"`
	PBR           *float64 `json:"pbr,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	DividendYield *float64 `json:"dividendYield,omitempty"`
}

// Empty reports whether no metric was found.
func (f *Fundamentals) Empty() bool {
	return f.PE == nil && f.PBR == nil && f.EPS == nil && f.ROE == nil &&
		f.DividendYield == nil
}

// FillFrom copies metrics from f into fields of q that are still absent.
// Present values are never overwritten. It returns the filled field names.
func (q *Quote) FillFrom(f *Fundamentals) []string {
	if f == nil {
		return nil
	}
	var filled []string
	fill := func(name string, dst **float64, src *float64) {
		if util.FillMissing(dst, src) {
			filled = append(filled, name)
		}
	}
	fill("pe", &q.PE, f.PE)
	fill("pbr", &q.PBR, f.PBR)
	fill("eps", &q.EPS, f.EPS)
	fill("roe", &q.ROE, f.ROE)
	fill("dividendYield", &q.DividendYield, f.DividendYield)
	return filled
}
