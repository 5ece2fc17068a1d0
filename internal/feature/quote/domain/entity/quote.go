// Package entity defines the domain models for the quote feature.
package entity

import "strings"

// Quote is a point-in-time price snapshot for a symbol.
// A Quote with CurrentPrice == 0 carries no data and is never cached or returned.
type Quote struct {
	Symbol           string  // Ticker (e.g., "AAPL")
	CurrentPrice     float64 // Current price
	Change           float64 // Change from previous close
	PercentChange    float64 // Percent change from previous close
	HighPrice        float64 // High price of the day
	LowPrice         float64 // Low price of the day
	OpenPrice        float64 // Open price of the day
	PreviousClose    float64 // Previous close price
	TimestampSeconds int64   // Unix time of the quote, in seconds
}

// HasData reports whether the upstream returned a usable price.
func (q Quote) HasData() bool {
	return q.CurrentPrice != 0
}

// SearchResult is a single instrument matched by a symbol search.
type SearchResult struct {
	Symbol      string
	Description string
	Type        string
}

// NormalizeSymbol trims and upper-cases a ticker so that lookups, cache keys
// and persistence comparisons all agree.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
