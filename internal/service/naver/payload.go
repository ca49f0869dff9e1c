package naver

import (
	"encoding/json"
	"strings"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/util"
)

// basicResponse is /api/stock/{code}/basic. Metrics there only count when
// they are JSON numbers.
type basicResponse struct {
	StockName     string          `json:"stockName"`
	Per           json.RawMessage `json:"per"`
	Pbr           json.RawMessage `json:"pbr"`
	Eps           json.RawMessage `json:"eps"`
	DividendYield json.RawMessage `json:"dividendYield"`
}

type integrationResponse struct {
	TotalInfos []struct {
		Code  string          `json:"code"`
		Value json.RawMessage `json:"value"`
	} `json:"totalInfos"`
	InvestmentIndicator *indicatorValues `json:"investmentIndicator"`
}

type indicatorValues struct {
	Per           json.RawMessage `json:"per"`
	Pbr           json.RawMessage `json:"pbr"`
	Eps           json.RawMessage `json:"eps"`
	Roe           json.RawMessage `json:"roe"`
	DividendYield json.RawMessage `json:"dividendYield"`
}

type indicatorResponse struct {
	Annual []indicatorValues `json:"annual"`
	Yearly []indicatorValues `json:"yearly"`
}

// latest returns the most recent annual entry.
func (r *indicatorResponse) latest() *indicatorValues {
	rows := r.Annual
	if len(rows) == 0 {
		rows = r.Yearly
	}
	if len(rows) == 0 {
		return nil
	}
	return &rows[len(rows)-1]
}

// payloads holds whichever endpoints answered; nil means unavailable.
type payloads struct {
	basic       *basicResponse
	integration *integrationResponse
	indicator   *indicatorResponse
}

type metricExtractor = util.Extractor[*payloads, float64]

// Per-metric precedence: basic, integration key list, integration
// investment indicator, latest annual indicator.
var (
	peChain = []metricExtractor{
		fromBasic(func(b *basicResponse) json.RawMessage { return b.Per }),
		fromTotalInfos("per"),
		fromInvestment(func(v *indicatorValues) json.RawMessage { return v.Per }),
		fromLatest(func(v *indicatorValues) json.RawMessage { return v.Per }),
	}
	pbrChain = []metricExtractor{
		fromBasic(func(b *basicResponse) json.RawMessage { return b.Pbr }),
		fromTotalInfos("pbr"),
		fromInvestment(func(v *indicatorValues) json.RawMessage { return v.Pbr }),
		fromLatest(func(v *indicatorValues) json.RawMessage { return v.Pbr }),
	}
	epsChain = []metricExtractor{
		fromBasic(func(b *basicResponse) json.RawMessage { return b.Eps }),
		fromTotalInfos("eps"),
		fromInvestment(func(v *indicatorValues) json.RawMessage { return v.Eps }),
		fromLatest(func(v *indicatorValues) json.RawMessage { return v.Eps }),
	}
	roeChain = []metricExtractor{
		fromTotalInfos("roe"),
		fromInvestment(func(v *indicatorValues) json.RawMessage { return v.Roe }),
		fromLatest(func(v *indicatorValues) json.RawMessage { return v.Roe }),
	}
	dividendChain = []metricExtractor{
		fromBasic(func(b *basicResponse) json.RawMessage { return b.DividendYield }),
		fromTotalInfos("dividendyield", "dividend_yield"),
		fromLatest(func(v *indicatorValues) json.RawMessage { return v.DividendYield }),
	}
)

func (p *payloads) fundamentals() *models.Fundamentals {
	f := &models.Fundamentals{
		PE:            util.Coalesce(p, peChain...),
		PBR:           util.Coalesce(p, pbrChain...),
		EPS:           util.Coalesce(p, epsChain...),
		ROE:           util.Coalesce(p, roeChain...),
		DividendYield: util.Coalesce(p, dividendChain...),
	}
	if p.basic != nil {
		f.Name = p.basic.StockName
	}
	return f
}

func fromBasic(pick func(*basicResponse) json.RawMessage) metricExtractor {
	return func(p *payloads) *float64 {
		if p.basic == nil {
			return nil
		}
		return strictNumber(pick(p.basic))
	}
}

// fromTotalInfos matches the key list case-insensitively against codes.
func fromTotalInfos(codes ...string) metricExtractor {
	return func(p *payloads) *float64 {
		if p.integration == nil {
			return nil
		}
		for _, info := range p.integration.TotalInfos {
			code := strings.ToLower(info.Code)
			for _, want := range codes {
				if code != want {
					continue
				}
				if v := util.NumberFromJSON(info.Value); v != nil {
					return v
				}
			}
		}
		return nil
	}
}

func fromInvestment(pick func(*indicatorValues) json.RawMessage) metricExtractor {
	return func(p *payloads) *float64 {
		if p.integration == nil || p.integration.InvestmentIndicator == nil {
			return nil
		}
		return util.NumberFromJSON(pick(p.integration.InvestmentIndicator))
	}
}

func fromLatest(pick func(*indicatorValues) json.RawMessage) metricExtractor {
	return func(p *payloads) *float64 {
		if p.indicator == nil {
			return nil
		}
		row := p.indicator.latest()
		if row == nil {
			return nil
		}
		return util.NumberFromJSON(pick(row))
	}
}

// strictNumber accepts JSON numbers only; numeric strings are absent.
func strictNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
