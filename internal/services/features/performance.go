package features

import (
	"math"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/util"
)

const (
	TradingDaysPerYear = 252
	RiskFreeRate       = 0.02
)

// Backtest replays a buy-and-hold position over history. It returns the
// normalized equity curve and its summary; both are empty for fewer than
// two points.
func Backtest(history []models.HistoricalPoint) ([]models.EquityPoint, models.Performance) {
	if len(history) < 2 || history[0].Close <= 0 {
		return []models.EquityPoint{}, models.Performance{}
	}

	start := history[0].Close
	peak := 100.0
	maxDrawdown := 0.0
	returns := make([]float64, 0, len(history)-1)
	curve := make([]models.EquityPoint, 0, len(history))

	for i, p := range history {
		value := p.Close / start * 100
		peak = math.Max(peak, value)
		drawdown := (value - peak) / peak * 100
		maxDrawdown = math.Min(maxDrawdown, drawdown)

		if i > 0 {
			if prev := history[i-1].Close; prev > 0 {
				returns = append(returns, (p.Close-prev)/prev)
			}
		}

		curve = append(curve, models.EquityPoint{
			Date:     p.Date,
			Value:    util.Round(value, 2),
			Drawdown: util.Round(drawdown, 2),
		})
	}

	last := history[len(history)-1].Close
	mean, std := meanStd(returns)
	annualReturn := mean * TradingDaysPerYear
	annualStd := std * math.Sqrt(TradingDaysPerYear)

	sharpe := 0.0
	if annualStd > 0 {
		sharpe = (annualReturn - RiskFreeRate) / annualStd
	}

	return curve, models.Performance{
		TotalReturn: util.Round((last-start)/start*100, 2),
		MaxDrawdown: util.Round(maxDrawdown, 2),
		SharpeRatio: util.Round(sharpe, 2),
		Volatility:  util.Round(annualStd*100, 2),
	}
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	sq := 0.0
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}
