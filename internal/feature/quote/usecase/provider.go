package usecase

import (
	"context"

	"stock_watchlist/internal/feature/quote/domain/entity"
)

// QuoteProvider abstracts the upstream quote API. Each call is exactly one network round trip.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform).
type QuoteProvider interface {
	// FetchQuote returns the raw quote for symbol. Unknown symbols yield a zero-price quote, not an error.
	FetchQuote(ctx context.Context, symbol string) (entity.Quote, error)
	// SearchSymbol returns unfiltered search hits for query.
	SearchSymbol(ctx context.Context, query string) ([]entity.SearchResult, error)
}

// QuoteFetcher resolves a symbol to a quote or reports it as absent.
// RetryPolicy implements it; the quote cache decorates it.
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (entity.Quote, bool)
}

// QuoteCache is the memoizing layer consulted by the usecase.
type QuoteCache interface {
	GetOrFetch(ctx context.Context, symbol string) (entity.Quote, bool)
}
