package features

import (
	"math"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/util"
)

// NeutralMomentum is returned when the series is too short to trend.
const NeutralMomentum = 50.0

// Momentum maps the first-to-last percent change onto 0-100, centered on 50
// with each percent worth two points.
func Momentum(history []models.HistoricalPoint) float64 {
	if len(history) < 2 {
		return NeutralMomentum
	}
	first := nonZero(history[0].Close)
	last := nonZero(history[len(history)-1].Close)
	change := (last - first) / first * 100
	return math.Round(util.Clamp(NeutralMomentum+change*2, 0, 100))
}

// Closes extracts the close series.
func Closes(history []models.HistoricalPoint) []float64 {
	out := make([]float64, len(history))
	for i, p := range history {
		out[i] = p.Close
	}
	return out
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
