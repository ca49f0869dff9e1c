package yahoo

import (
	"FinQuote/internal/domain/models"
	"FinQuote/pkg/util"
)

// sources holds the three quote payloads. meta is always set; summary and
// simple are nil when their request failed.
type sources struct {
	meta    *chartMeta
	closes  []float64
	summary *summaryResult
	simple  *v7Quote
}

type numExtractor = util.Extractor[*sources, float64]
type strExtractor = util.Extractor[*sources, string]

// numericField binds a quote field to its ordered extractors:
// quoteSummary first, then the v7 quote, then chart meta.
type numericField struct {
	name   string
	target func(q *models.Quote) **float64
	from   []numExtractor
}

var numericFields = []numericField{
	{"marketCap", func(q *models.Quote) **float64 { return &q.MarketCap }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.Price.MarketCap }),
		fromSimple(func(v *v7Quote) *float64 { return v.MarketCap }),
		fromMeta(func(m *chartMeta) *float64 { return m.MarketCap }),
	}},
	{"volume", func(q *models.Quote) **float64 { return &q.Volume }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.Volume }),
		fromSimple(func(v *v7Quote) *float64 { return v.RegularMarketVolume }),
		fromMeta(func(m *chartMeta) *float64 { return m.RegularMarketVolume }),
	}},
	{"dayHigh", func(q *models.Quote) **float64 { return &q.DayHigh }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.DayHigh }),
		fromSimple(func(v *v7Quote) *float64 { return v.RegularMarketDayHigh }),
		fromMeta(func(m *chartMeta) *float64 { return m.RegularMarketDayHi }),
	}},
	{"dayLow", func(q *models.Quote) **float64 { return &q.DayLow }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.DayLow }),
		fromSimple(func(v *v7Quote) *float64 { return v.RegularMarketDayLow }),
		fromMeta(func(m *chartMeta) *float64 { return m.RegularMarketDayLo }),
	}},
	{"fiftyTwoWeekHigh", func(q *models.Quote) **float64 { return &q.FiftyTwoWeekHigh }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.FiftyTwoWeekHigh }),
		fromSimple(func(v *v7Quote) *float64 { return v.FiftyTwoWeekHigh }),
		fromMeta(func(m *chartMeta) *float64 { return m.FiftyTwoWeekHigh }),
	}},
	{"fiftyTwoWeekLow", func(q *models.Quote) **float64 { return &q.FiftyTwoWeekLow }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.FiftyTwoWeekLow }),
		fromSimple(func(v *v7Quote) *float64 { return v.FiftyTwoWeekLow }),
		fromMeta(func(m *chartMeta) *float64 { return m.FiftyTwoWeekLow }),
	}},
	{"pe", func(q *models.Quote) **float64 { return &q.PE }, []numExtractor{
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.TrailingPE })),
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.DefaultKeyStatistics.TrailingPE })),
		fromSimple(func(v *v7Quote) *float64 { return v.TrailingPE }),
	}},
	{"pbr", func(q *models.Quote) **float64 { return &q.PBR }, []numExtractor{
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.PriceToBook })),
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.DefaultKeyStatistics.PriceToBook })),
		fromSimple(func(v *v7Quote) *float64 { return v.PriceToBook }),
	}},
	{"eps", func(q *models.Quote) **float64 { return &q.EPS }, []numExtractor{
		fromSummary(func(r *summaryResult) rawValue { return r.DefaultKeyStatistics.TrailingEps }),
		fromSimple(func(v *v7Quote) *float64 { return v.EpsTrailingTwelveMonths }),
	}},
	{"roe", func(q *models.Quote) **float64 { return &q.ROE }, []numExtractor{
		percent(nonZero(fromSummary(func(r *summaryResult) rawValue { return r.FinancialData.ReturnOnEquity }))),
	}},
	{"dividendYield", func(q *models.Quote) **float64 { return &q.DividendYield }, []numExtractor{
		percent(nonZero(fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.DividendYield }))),
		percent(fromSimple(func(v *v7Quote) *float64 { return v.TrailingAnnualDividendYield })),
		percent(fromSimple(func(v *v7Quote) *float64 { return v.DividendYield })),
	}},
	{"beta", func(q *models.Quote) **float64 { return &q.Beta }, []numExtractor{
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.SummaryDetail.Beta })),
		nonZero(fromSummary(func(r *summaryResult) rawValue { return r.DefaultKeyStatistics.Beta })),
		fromSimple(func(v *v7Quote) *float64 { return v.Beta }),
	}},
}

var nameExtractors = []strExtractor{
	func(s *sources) *string {
		if s.summary == nil {
			return nil
		}
		return nonEmpty(s.summary.Price.ShortName, s.summary.Price.LongName)
	},
	func(s *sources) *string {
		if s.simple == nil {
			return nil
		}
		return nonEmpty(s.simple.ShortName, s.simple.LongName)
	},
	func(s *sources) *string { return nonEmpty(s.meta.ShortName, s.meta.LongName, s.meta.Symbol) },
}

var currencyExtractors = []strExtractor{
	func(s *sources) *string {
		if s.summary == nil {
			return nil
		}
		return nonEmpty(s.summary.Price.Currency)
	},
	func(s *sources) *string {
		if s.simple == nil {
			return nil
		}
		return nonEmpty(s.simple.Currency)
	},
	func(s *sources) *string { return nonEmpty(s.meta.Currency) },
}

// price: regularMarketPrice, else the last close.
var priceExtractors = []numExtractor{
	func(s *sources) *float64 { return positive(s.meta.RegularMarketPrice) },
	func(s *sources) *float64 { return lastClose(s.closes, 1) },
}

// previous close: chartPreviousClose, previousClose, then the close before last.
var previousCloseExtractors = []numExtractor{
	func(s *sources) *float64 { return positive(s.meta.ChartPreviousClose) },
	func(s *sources) *float64 { return positive(s.meta.PreviousClose) },
	func(s *sources) *float64 { return lastClose(s.closes, 2) },
}

// buildQuote folds the payloads into a normalized quote for base.
func buildQuote(base string, src *sources) *models.Quote {
	q := &models.Quote{
		Symbol: base,
		NameKr: models.KoreanName(base),
	}

	price := util.Deref(util.Coalesce(src, priceExtractors...), 0)
	prev := util.Deref(util.Coalesce(src, previousCloseExtractors...), price)
	q.ApplyPrice(price, prev)

	q.Name = util.Deref(util.Coalesce(src, nameExtractors...), base)
	q.Currency = util.Deref(util.Coalesce(src, currencyExtractors...), "USD")

	for _, f := range numericFields {
		*f.target(q) = util.Coalesce(src, f.from...)
	}
	return q
}

func fromSummary(pick func(*summaryResult) rawValue) numExtractor {
	return func(s *sources) *float64 {
		if s.summary == nil {
			return nil
		}
		return pick(s.summary).Raw
	}
}

func fromSimple(pick func(*v7Quote) *float64) numExtractor {
	return func(s *sources) *float64 {
		if s.simple == nil {
			return nil
		}
		return pick(s.simple)
	}
}

func fromMeta(pick func(*chartMeta) *float64) numExtractor {
	return func(s *sources) *float64 {
		return pick(s.meta)
	}
}

// nonZero treats a zero ratio as unreported so later sources can supply it.
func nonZero(ex numExtractor) numExtractor {
	return func(s *sources) *float64 {
		v := ex(s)
		if v == nil || *v == 0 {
			return nil
		}
		return v
	}
}

// percent scales a fraction (0.123) to percent (12.3).
func percent(ex numExtractor) numExtractor {
	return func(s *sources) *float64 {
		v := ex(s)
		if v == nil {
			return nil
		}
		return util.Ptr(*v * 100)
	}
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// lastClose returns the n-th close from the end (1 = last).
func lastClose(closes []float64, n int) *float64 {
	if len(closes) < n {
		return nil
	}
	return positive(util.Ptr(closes[len(closes)-n]))
}

func nonEmpty(vals ...string) *string {
	for _, v := range vals {
		if v != "" {
			return util.Ptr(v)
		}
	}
	return nil
}
