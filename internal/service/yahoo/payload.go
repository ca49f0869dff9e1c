package yahoo

// Wire shapes for the Yahoo Finance endpoints. Only fields we read are
// declared; numeric fields are pointers so JSON null stays absent.

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartSeries `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol              string   `json:"symbol"`
	Currency            string   `json:"currency"`
	ShortName           string   `json:"shortName"`
	LongName            string   `json:"longName"`
	RegularMarketPrice  *float64 `json:"regularMarketPrice"`
	ChartPreviousClose  *float64 `json:"chartPreviousClose"`
	PreviousClose       *float64 `json:"previousClose"`
	RegularMarketVolume *float64 `json:"regularMarketVolume"`
	RegularMarketDayHi  *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLo  *float64 `json:"regularMarketDayLow"`
	FiftyTwoWeekHigh    *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow     *float64 `json:"fiftyTwoWeekLow"`
	MarketCap           *float64 `json:"marketCap"`
}

type chartSeries struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

func (r *chartResult) series() chartSeries {
	if len(r.Indicators.Quote) == 0 {
		return chartSeries{}
	}
	return r.Indicators.Quote[0]
}

// closes returns non-null closes in order.
func (r *chartResult) closes() []float64 {
	s := r.series()
	out := make([]float64, 0, len(s.Close))
	for _, c := range s.Close {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// rawValue is the {raw, fmt} wrapper quoteSummary uses for numbers.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price struct {
		ShortName string   `json:"shortName"`
		LongName  string   `json:"longName"`
		Currency  string   `json:"currency"`
		MarketCap rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE       rawValue `json:"trailingPE"`
		PriceToBook      rawValue `json:"priceToBook"`
		DividendYield    rawValue `json:"dividendYield"`
		Beta             rawValue `json:"beta"`
		Volume           rawValue `json:"volume"`
		DayHigh          rawValue `json:"dayHigh"`
		DayLow           rawValue `json:"dayLow"`
		FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		TrailingPE  rawValue `json:"trailingPE"`
		PriceToBook rawValue `json:"priceToBook"`
		TrailingEps rawValue `json:"trailingEps"`
		Beta        rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		ReturnOnEquity rawValue `json:"returnOnEquity"`
	} `json:"financialData"`
}

type v7Response struct {
	QuoteResponse struct {
		Result []v7Quote `json:"result"`
	} `json:"quoteResponse"`
}

type v7Quote struct {
	Symbol                      string   `json:"symbol"`
	Currency                    string   `json:"currency"`
	ShortName                   string   `json:"shortName"`
	LongName                    string   `json:"longName"`
	TrailingPE                  *float64 `json:"trailingPE"`
	PriceToBook                 *float64 `json:"priceToBook"`
	EpsTrailingTwelveMonths     *float64 `json:"epsTrailingTwelveMonths"`
	Beta                        *float64 `json:"beta"`
	MarketCap                   *float64 `json:"marketCap"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	DividendYield               *float64 `json:"dividendYield"`
	RegularMarketVolume         *float64 `json:"regularMarketVolume"`
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow"`
}

type searchResponse struct {
	Quotes []searchQuote `json:"quotes"`
	News   []searchNews  `json:"news"`
}

type searchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	QuoteType string `json:"quoteType"`
}

type searchNews struct {
	Title               string `json:"title"`
	Link                string `json:"link"`
	Publisher           string `json:"publisher"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
	Thumbnail           *struct {
		Resolutions []struct {
			URL string `json:"url"`
		} `json:"resolutions"`
	} `json:"thumbnail"`
}
