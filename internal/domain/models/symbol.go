package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxSymbolLength = 20
	MaxSymbols      = 20
	MaxQueryLength  = 100
	MinQueryLength  = 2
)

var (
	ErrInvalidSymbol = errors.New("invalid symbol format")

	symbolPattern   = regexp.MustCompile(`(?i)^[A-Z0-9.]+$`)
	krNumberPattern = regexp.MustCompile(`^\d{6}$`)
)

// Market classifies a symbol for regional fallback dispatch.
type Market string

const (
	MarketGlobal Market = "global"
	MarketKR     Market = "kr"
)

// IsValidSymbol checks the allow-list: alphanumerics and dots, at most 20 chars.
func IsValidSymbol(s string) bool {
	return len(s) > 0 && len(s) <= MaxSymbolLength && symbolPattern.MatchString(s)
}

// ValidateSymbol returns ErrInvalidSymbol when s fails the allow-list.
func ValidateSymbol(s string) error {
	if !IsValidSymbol(s) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return nil
}

// BaseSymbol strips regional suffixes (".KS", ".KQ").
func BaseSymbol(s string) string {
	s = strings.ReplaceAll(s, ".KS", "")
	return strings.ReplaceAll(s, ".KQ", "")
}

// ProviderSymbol returns the form the primary quote provider expects:
// 6-digit numeric codes get ".KS" appended.
func ProviderSymbol(s string) string {
	base := BaseSymbol(s)
	if krNumberPattern.MatchString(base) {
		return base + ".KS"
	}
	return s
}

// ClassifySymbol returns the market a symbol belongs to.
func ClassifySymbol(s string) Market {
	if krNumberPattern.MatchString(BaseSymbol(s)) {
		return MarketKR
	}
	return MarketGlobal
}

// SanitizeSymbols splits a comma-separated list, drops entries failing the
// allow-list and caps the result at MaxSymbols.
func SanitizeSymbols(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !IsValidSymbol(p) {
			continue
		}
		out = append(out, p)
		if len(out) == MaxSymbols {
			break
		}
	}
	return out
}

var koreanNames = map[string]string{
	"005930": "삼성전자",
	"000660": "SK하이닉스",
	"373220": "LG에너지솔루션",
	"035420": "네이버",
	"035720": "카카오",
	"006400": "삼성SDI",
	"207940": "삼성바이오로직스",
	"068270": "셀트리온",
	"105560": "KB금융",
	"055550": "신한지주",
	"066570": "LG전자",
	"051910": "LG화학",
	"017670": "SK텔레콤",
	"030200": "KT",
	"003550": "LG",
	"012330": "현대모비스",
	"005380": "현대차",
	"000270": "기아",
	"028260": "삼성물산",
	"096770": "SK이노베이션",
}

// KoreanName returns the localized display name for a base symbol, if known.
func KoreanName(base string) string {
	return koreanNames[base]
}
