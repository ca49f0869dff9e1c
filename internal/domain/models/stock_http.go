package models

// Requests for the stock HTTP endpoints.

type Action string

const (
	ActionQuote   Action = "quote"
	ActionQuotes  Action = "quotes"
	ActionHistory Action = "history"
	ActionNews    Action = "news"
	ActionSearch  Action = "search"
	ActionAll     Action = "all"
)

// StockDataRequest is the single dispatch endpoint. Field requirements
// depend on Action and are checked by the handler.
type StockDataRequest struct {
	Action  string `query:"action" json:"action" default:"quote"`
	Symbol  string `query:"symbol" json:"symbol"`
	Symbols string `query:"symbols" json:"symbols"`
	Query   string `query:"query" json:"query"`
	Period  string `query:"period" json:"period" default:"1mo"`
}

type DecisionRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20,stocksymbol"`
	Period string `query:"period" json:"period" default:"1mo"`
}

type StreamRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
}
