// Package oracle resolves tickers to trading symbols and fetches current
// prices and display names from external market-data providers. Lookup
// failures are soft: the caller treats them as "price currently unavailable"
// and must not mutate any state because of them.
package oracle

import (
	"context"
	"errors"
)

// DomesticSuffix is appended to purely numeric tickers, which are assumed
// to be domestic exchange codes.
const DomesticSuffix = ".KS"

// ErrQuoteUnavailable marks a soft quote failure: network error, unknown
// symbol, or a stale/missing quote.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// ErrNameUnavailable marks a failed display-name lookup. Callers fall back
// to the raw ticker.
var ErrNameUnavailable = errors.New("display name unavailable")

// Quoter is the price oracle contract.
type Quoter interface {
	// Quote returns the current price for a trading symbol.
	Quote(ctx context.Context, symbol string) (float64, error)

	// Name returns a display name for a trading symbol. Only called when
	// no cached name exists on a holding, to avoid redundant external
	// calls.
	Name(ctx context.Context, symbol string) (string, error)
}

// ResolveSymbol maps a normalized ticker to the provider symbol: numeric
// tickers get the domestic exchange suffix, anything else passes through as
// an international symbol.
func ResolveSymbol(ticker string) string {
	if numericTicker(ticker) {
		return ticker + DomesticSuffix
	}
	return ticker
}

func numericTicker(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
