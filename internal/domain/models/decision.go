package models

import "time"

// Metrics is the scoring input. Zero means unknown, not bad.
type Metrics struct {
	PER           float64 `json:"per"`
	PBR           float64 `json:"pbr"`
	ROE           float64 `json:"roe"`
	Momentum      float64 `json:"momentum"` // 0-100
	EPS           float64 `json:"eps"`
	DividendYield float64 `json:"dividendYield"`
}

// MetricsFromQuote builds scoring input from a quote and a momentum score.
func MetricsFromQuote(q *Quote, momentum float64) Metrics {
	m := Metrics{Momentum: momentum}
	if q == nil {
		return m
	}
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	m.PER = val(q.PE)
	m.PBR = val(q.PBR)
	m.ROE = val(q.ROE)
	m.EPS = val(q.EPS)
	m.DividendYield = val(q.DividendYield)
	return m
}

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// AgentDecision is computed fresh from metrics and never persisted.
type AgentDecision struct {
	Signal         Signal   `json:"signal"`
	QuantScore     int      `json:"quantScore"`
	SentimentScore int      `json:"sentimentScore"`
	FinalScore     int      `json:"finalScore"`
	Confidence     int      `json:"confidence"`
	Reasoning      []string `json:"reasoning"`
}

// Performance summarizes a close-price series as a buy-and-hold run.
type Performance struct {
	TotalReturn float64 `json:"totalReturn"` // percent
	MaxDrawdown float64 `json:"maxDrawdown"` // percent, <= 0
	SharpeRatio float64 `json:"sharpeRatio"`
	Volatility  float64 `json:"volatility"` // annualized percent
}

// DecisionReport bundles a decision with the inputs it was computed from.
type DecisionReport struct {
	Symbol      string        `json:"symbol"`
	Period      Period        `json:"period"`
	Quote       *Quote        `json:"quote"`
	Metrics     Metrics       `json:"metrics"`
	Decision    AgentDecision `json:"decision"`
	Performance Performance   `json:"performance"`
	Curve       []EquityPoint `json:"curve,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// EquityPoint is one step of a normalized buy-and-hold curve (start = 100).
type EquityPoint struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Drawdown float64 `json:"drawdown"` // percent from running peak
}
