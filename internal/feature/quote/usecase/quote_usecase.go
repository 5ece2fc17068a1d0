package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock_watchlist/internal/feature/quote/domain/entity"
)

const (
	// MaxSearchResults は検索結果の最大件数です。
	MaxSearchResults = 10
	// DefaultBatchConcurrency はバッチ取得時の同時実行数のデフォルト値です。
	DefaultBatchConcurrency = 8
)

// allowedSearchTypes は検索結果として返す銘柄種別（部分一致、大文字小文字を区別）です。
// 種別が空の結果も許可されます。
var allowedSearchTypes = []string{"Common Stock", "ETP"}

// QuoteUsecase は株価取得と銘柄検索のユースケースを提供します。
type QuoteUsecase struct {
	cache       QuoteCache
	provider    QuoteProvider
	concurrency int
}

// NewQuoteUsecase はQuoteUsecaseの新しいインスタンスを生成します。
// concurrency が0以下の場合は DefaultBatchConcurrency を使用します。
func NewQuoteUsecase(cache QuoteCache, provider QuoteProvider, concurrency int) *QuoteUsecase {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &QuoteUsecase{cache: cache, provider: provider, concurrency: concurrency}
}

// GetQuote は1銘柄の株価を返します。データがない場合は false を返します。
func (u *QuoteUsecase) GetQuote(ctx context.Context, symbol string) (entity.Quote, bool) {
	s := entity.NormalizeSymbol(symbol)
	if s == "" {
		return entity.Quote{}, false
	}
	return u.cache.GetOrFetch(ctx, s)
}

// GetQuotes は複数銘柄の株価を銘柄ごとに独立して取得します。
// 取得できなかった銘柄は結果から除外され、他の銘柄の結果には影響しません。
// 重複した銘柄は1回だけ取得されます。
func (u *QuoteUsecase) GetQuotes(ctx context.Context, symbols []string) []entity.Quote {
	unique := uniqueSymbols(symbols)
	if len(unique) == 0 {
		return []entity.Quote{}
	}

	quotes := make([]entity.Quote, len(unique))
	found := make([]bool, len(unique))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, s := range unique {
		g.Go(func() error {
			quotes[i], found[i] = u.cache.GetOrFetch(ctx, s)
			return nil
		})
	}
	_ = g.Wait() // 各銘柄の失敗は absent として表現されるため、エラーは返らない

	out := make([]entity.Quote, 0, len(unique))
	for i, q := range quotes {
		if found[i] {
			out = append(out, q)
		}
	}
	return out
}

// SearchSymbol は銘柄コードまたは会社名で検索し、許可された種別の結果を最大10件返します。
// プロバイダの障害は ErrServiceUnavailable として返します。
func (u *QuoteUsecase) SearchSymbol(ctx context.Context, query string) ([]entity.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	slog.Info("searching symbols", "query", query)
	hits, err := u.provider.SearchSymbol(ctx, query)
	if err != nil {
		slog.Error("symbol search failed", "query", query, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	out := make([]entity.SearchResult, 0, MaxSearchResults)
	for _, h := range hits {
		if !isAllowedType(h.Type) {
			continue
		}
		out = append(out, h)
		if len(out) == MaxSearchResults {
			break
		}
	}
	return out, nil
}

func isAllowedType(t string) bool {
	if t == "" {
		return true
	}
	for _, allowed := range allowedSearchTypes {
		if strings.Contains(t, allowed) {
			return true
		}
	}
	return false
}

// uniqueSymbols は銘柄を正規化し、空文字と重複を除いて入力順に返します。
func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = entity.NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
