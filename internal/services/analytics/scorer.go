package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"FinQuote/internal/domain/models"
	domsvc "FinQuote/internal/domain/service"
	"FinQuote/pkg/util"
)

// Weights blends quant and sentiment scores into the final score.
type Weights struct {
	Quant     float64
	Sentiment float64
}

var (
	// LiveWeights apply when momentum stands in for sentiment.
	LiveWeights = Weights{Quant: 0.7, Sentiment: 0.3}
	// LegacyWeights apply to an independent sentiment series.
	LegacyWeights = Weights{Quant: 0.6, Sentiment: 0.4}
)

// Scorer is the rule-based decision engine. It is pure except for the
// optional HOLD confidence jitter, which is seeded.
type Scorer struct {
	mu     sync.Mutex
	jitter *rand.Rand
}

type ScorerOption func(*Scorer)

// WithHoldJitter spreads HOLD confidence uniformly over a 20-point band
// instead of using its midpoint.
func WithHoldJitter(seed uint64) ScorerOption {
	return func(s *Scorer) {
		s.jitter = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ domsvc.DecisionScorer  = (*Scorer)(nil)
	_ domsvc.SentimentScorer = (*Scorer)(nil)
)

// QuantScore applies the valuation, profitability, momentum and dividend
// rules to a base of 50 and clamps to [0,100].
func QuantScore(m models.Metrics) float64 {
	score := 50.0

	switch {
	case m.PER > 0 && m.PER < 15:
		score += 15
	case m.PER > 30:
		score -= 10
	}

	switch {
	case m.PBR > 0 && m.PBR < 1.5:
		score += 10
	case m.PBR > 3:
		score -= 5
	}

	switch {
	case m.ROE > 15:
		score += 15
	case m.ROE > 8:
		score += 5
	}

	switch {
	case m.Momentum > 70:
		score += 10
	case m.Momentum < 40:
		score -= 10
	}

	if m.DividendYield > 2 {
		score += 5
	}

	return util.Clamp(score, 0, 100)
}

// Score uses momentum as the sentiment proxy with LiveWeights.
func (s *Scorer) Score(m models.Metrics) models.AgentDecision {
	quant := QuantScore(m)
	sentiment := math.Round(m.Momentum)
	final := math.Round(quant*LiveWeights.Quant + sentiment*LiveWeights.Sentiment)

	d := models.AgentDecision{
		QuantScore:     int(math.Round(quant)),
		SentimentScore: int(sentiment),
		FinalScore:     int(final),
	}

	switch {
	case final >= 65:
		d.Signal = models.SignalBuy
		d.Confidence = int(math.Round(math.Min(90, final+10)))
		d.Reasoning = buyReasons(m)
	case final >= 40:
		d.Signal = models.SignalHold
		d.Confidence = int(math.Round(s.holdConfidence(50)))
		d.Reasoning = holdReasons(m)
	default:
		d.Signal = models.SignalSell
		d.Confidence = int(math.Round(math.Min(85, 100-final)))
		d.Reasoning = sellReasons(m)
	}
	return d
}

// ScoreWithSentiment is the older sentiment-series scheme: no PBR rule,
// a single ROE tier, LegacyWeights and wider thresholds. It is kept for
// callers that have a real sentiment reading; the live path uses Score.
func (s *Scorer) ScoreWithSentiment(m models.Metrics, sentiment float64) models.AgentDecision {
	quant := 50.0
	switch {
	case m.PER < 15:
		quant += 15
	case m.PER > 30:
		quant -= 10
	}
	if m.ROE > 15 {
		quant += 15
	}
	if m.Momentum > 70 {
		quant += 10
	}
	if m.DividendYield > 2 {
		quant += 5
	}
	quant = util.Clamp(quant, 0, 100)

	final := quant*LegacyWeights.Quant + sentiment*LegacyWeights.Sentiment

	d := models.AgentDecision{
		QuantScore:     int(math.Round(quant)),
		SentimentScore: int(math.Round(sentiment)),
		FinalScore:     int(math.Round(final)),
	}

	switch {
	case final >= 70:
		d.Signal = models.SignalBuy
		d.Confidence = int(math.Round(math.Min(95, final+10)))
		d.Reasoning = []string{
			"퀀트 지표가 강한 매수 신호를 보이고 있습니다.",
			"시장 심리가 긍정적이며 모멘텀이 유지되고 있습니다.",
			"밸류에이션 대비 성장성이 우수합니다.",
		}
	case final >= 45:
		d.Signal = models.SignalHold
		d.Confidence = int(math.Round(s.holdConfidence(60)))
		d.Reasoning = []string{
			"현재 가격 수준에서 관망이 적절합니다.",
			"추가 정보 확인 후 판단이 필요합니다.",
			"단기 변동성에 주의가 필요합니다.",
		}
	default:
		d.Signal = models.SignalSell
		d.Confidence = int(math.Round(math.Min(90, 100-final)))
		d.Reasoning = []string{
			"밸류에이션이 고평가 상태입니다.",
			"부정적 뉴스 심리가 지속되고 있습니다.",
			"모멘텀 약화가 관찰됩니다.",
		}
	}
	return d
}

// holdConfidence returns base+10 without jitter, else base+U(0,20).
func (s *Scorer) holdConfidence(base float64) float64 {
	if s.jitter == nil {
		return base + 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return base + s.jitter.Float64()*20
}

func buyReasons(m models.Metrics) []string {
	var out []string
	if m.PER > 0 && m.PER < 15 {
		out = append(out, fmt.Sprintf("PER %.1f배로 저평가 상태입니다.", m.PER))
	}
	if m.ROE > 15 {
		out = append(out, fmt.Sprintf("ROE %.1f%%로 높은 자본효율성을 보입니다.", m.ROE))
	}
	if m.Momentum > 60 {
		out = append(out, "최근 가격 모멘텀이 긍정적입니다.")
	}
	if len(out) == 0 {
		out = append(out, "종합 지표가 매수 신호를 보이고 있습니다.")
	}
	return out
}

func holdReasons(m models.Metrics) []string {
	valuation := "밸류에이션 데이터를 확인 중입니다."
	if m.PER > 0 {
		valuation = fmt.Sprintf("PER %.1f배, PBR %.2f배로 적정 수준입니다.", m.PER, m.PBR)
	}
	return []string{
		"현재 가격 수준에서 관망이 적절합니다.",
		valuation,
		"추가 모니터링이 필요합니다.",
	}
}

func sellReasons(m models.Metrics) []string {
	var out []string
	if m.PER > 30 {
		out = append(out, fmt.Sprintf("PER %.1f배로 고평가 상태입니다.", m.PER))
	}
	if m.Momentum < 40 {
		out = append(out, "가격 모멘텀이 약화되고 있습니다.")
	}
	if len(out) == 0 {
		out = append(out, "종합 지표가 매도 신호를 보이고 있습니다.")
	}
	return out
}
