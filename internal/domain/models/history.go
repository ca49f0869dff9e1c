package models

import "time"

// HistoricalPoint is one trading session.
type HistoricalPoint struct {
	Date   string  `json:"date"` // M/D
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
)

// DefaultPeriod is used when the period is missing or unknown.
const DefaultPeriod = Period1mo

// IsValid returns true if p is one of the supported history ranges.
func (p Period) IsValid() bool {
	switch p {
	case Period1d, Period5d, Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y:
		return true
	default:
		return false
	}
}

// NormalizePeriod converts raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	p := Period(s)
	if p.IsValid() {
		return p
	}
	return DefaultPeriod
}

// NewsItem is a headline linked to a symbol.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"publishedAt"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// SearchResult is a candidate instrument for a free-text query.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// AllData is the combined single-symbol payload. Quote is nil when the
// primary source had no data; slices are never nil.
type AllData struct {
	Quote   *Quote            `json:"quote"`
	History []HistoricalPoint `json:"history"`
	News    []NewsItem        `json:"news"`
}
