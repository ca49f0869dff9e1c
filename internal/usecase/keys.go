package usecase

import (
	"strings"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/cache"
)

// Cache keys. Symbols are always in base form.

func quoteKey(base string) string { return cache.GenerateKey("quote", base) }

func historyKey(base string, p models.Period) string {
	return cache.GenerateKeyWithParams("history", base, p)
}

func newsKey(base string) string { return cache.GenerateKey("news", base) }

func searchKey(query string) string { return cache.GenerateKey("search", strings.ToLower(query)) }

func fundamentalsKey(source, base string) string { return cache.GenerateKey(source, base) }
