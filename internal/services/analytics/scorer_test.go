package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinQuote/internal/domain/models"
)

func TestScore_StrongMetricsBuy(t *testing.T) {
	m := models.Metrics{PER: 10, PBR: 1.0, ROE: 20, Momentum: 80, DividendYield: 3}

	assert.Equal(t, 100.0, QuantScore(m))

	d := NewScorer().Score(m)
	assert.Equal(t, models.SignalBuy, d.Signal)
	assert.Equal(t, 100, d.QuantScore)
	assert.Equal(t, 80, d.SentimentScore)
	assert.Equal(t, 94, d.FinalScore)
	assert.Equal(t, 90, d.Confidence)
	assert.Equal(t, []string{
		"PER 10.0배로 저평가 상태입니다.",
		"ROE 20.0%로 높은 자본효율성을 보입니다.",
		"최근 가격 모멘텀이 긍정적입니다.",
	}, d.Reasoning)
}

func TestScore_WeakMetricsSell(t *testing.T) {
	m := models.Metrics{PER: 35, PBR: 4, ROE: 5, Momentum: 20, DividendYield: 0}

	assert.Equal(t, 25.0, QuantScore(m))

	d := NewScorer().Score(m)
	assert.Equal(t, models.SignalSell, d.Signal)
	assert.Equal(t, 25, d.QuantScore)
	assert.Equal(t, 24, d.FinalScore)
	assert.Equal(t, 76, d.Confidence)
	assert.Equal(t, []string{
		"PER 35.0배로 고평가 상태입니다.",
		"가격 모멘텀이 약화되고 있습니다.",
	}, d.Reasoning)
}

func TestScore_HoldAlwaysThreeReasons(t *testing.T) {
	cases := []struct {
		name  string
		m     models.Metrics
		valid string
	}{
		{"with valuation", models.Metrics{PER: 20, PBR: 2, Momentum: 50}, "PER 20.0배, PBR 2.00배로 적정 수준입니다."},
		{"missing valuation", models.Metrics{Momentum: 50}, "밸류에이션 데이터를 확인 중입니다."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewScorer().Score(tc.m)
			require.Equal(t, models.SignalHold, d.Signal)
			require.Len(t, d.Reasoning, 3)
			assert.Equal(t, tc.valid, d.Reasoning[1])
			assert.Equal(t, 60, d.Confidence)
		})
	}
}

func TestScore_HoldJitterSeeded(t *testing.T) {
	m := models.Metrics{Momentum: 50}

	a := NewScorer(WithHoldJitter(42))
	b := NewScorer(WithHoldJitter(42))
	for i := 0; i < 20; i++ {
		da, db := a.Score(m), b.Score(m)
		assert.Equal(t, da.Confidence, db.Confidence)
		assert.GreaterOrEqual(t, da.Confidence, 50)
		assert.LessOrEqual(t, da.Confidence, 70)
	}
}

func TestScore_FallbackReasons(t *testing.T) {
	// buys on pbr, roe tier two, momentum and dividend; only the momentum sentence applies
	d := NewScorer().Score(models.Metrics{PBR: 1, ROE: 10, Momentum: 100, DividendYield: 5})
	require.Equal(t, models.SignalBuy, d.Signal)
	assert.Equal(t, []string{"최근 가격 모멘텀이 긍정적입니다."}, d.Reasoning)

	d = NewScorer().Score(models.Metrics{PBR: 5, Momentum: 40})
	require.Equal(t, models.SignalHold, d.Signal)

	d = NewScorer().Score(models.Metrics{PER: 20, PBR: 5, Momentum: 0})
	require.Equal(t, models.SignalSell, d.Signal)
	assert.Equal(t, []string{"가격 모멘텀이 약화되고 있습니다."}, d.Reasoning)
}

func TestQuantScore_Clamped(t *testing.T) {
	assert.Equal(t, 25.0, QuantScore(models.Metrics{PER: 40, PBR: 10, Momentum: 0}))
	assert.Equal(t, 100.0, QuantScore(models.Metrics{PER: 1, PBR: 1, ROE: 50, Momentum: 99, DividendYield: 9}))
}

func TestScoreWithSentiment_Legacy(t *testing.T) {
	s := NewScorer()

	// 50+15+15+10+5 = 95; 95*0.6 + 80*0.4 = 89
	d := s.ScoreWithSentiment(models.Metrics{PER: 10, ROE: 20, Momentum: 80, DividendYield: 3}, 80)
	assert.Equal(t, models.SignalBuy, d.Signal)
	assert.Equal(t, 95, d.QuantScore)
	assert.Equal(t, 89, d.FinalScore)
	assert.Equal(t, 95, d.Confidence)
	assert.Len(t, d.Reasoning, 3)

	// PER 0 still counts as cheap in the legacy rules: 65*0.6 + 40*0.4 = 55
	d = s.ScoreWithSentiment(models.Metrics{}, 40)
	assert.Equal(t, models.SignalHold, d.Signal)
	assert.Equal(t, 65, d.QuantScore)
	assert.Equal(t, 55, d.FinalScore)
	assert.Equal(t, 70, d.Confidence)

	// 40*0.6 + 10*0.4 = 28
	d = s.ScoreWithSentiment(models.Metrics{PER: 40}, 10)
	assert.Equal(t, models.SignalSell, d.Signal)
	assert.Equal(t, 72, d.Confidence)
}
