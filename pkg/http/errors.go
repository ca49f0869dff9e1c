package http

import (
	"fmt"
	"net/http"
)

// Codes reported in the envelope's data[].code.
const (
	CodeInvalidSymbol = "ERR_INVALID_SYMBOL"
	CodeNoQuote       = "ERR_NO_QUOTE"
	CodeUpstream      = "ERR_UPSTREAM"
)

// AppError is a failure reported inside the APIResponse envelope. Err is
// logged server side and never serialized.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Symbol  string `json:"symbol,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Symbol != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Symbol)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Because attaches the underlying cause.
func (e *AppError) Because(err error) *AppError {
	e.Err = err
	return e
}

// InvalidSymbolError rejects a symbol that fails validation (400).
func InvalidSymbolError(symbol, message string) *AppError {
	return &AppError{Code: CodeInvalidSymbol, Message: message, Symbol: symbol, Status: http.StatusBadRequest}
}

// NoQuoteError reports that no source produced a quote for symbol (404).
func NoQuoteError(symbol string) *AppError {
	return &AppError{
		Code:    CodeNoQuote,
		Message: fmt.Sprintf("no quote data for %s", symbol),
		Symbol:  symbol,
		Status:  http.StatusNotFound,
	}
}

// UpstreamError hides a provider failure behind a fixed message (500).
func UpstreamError(symbol, message string) *AppError {
	return &AppError{Code: CodeUpstream, Message: message, Symbol: symbol, Status: http.StatusInternalServerError}
}
