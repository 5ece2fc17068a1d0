package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_watchlist/internal/feature/quote/domain/entity"
)

const (
	// DefaultMaxAttempts は1回の論理呼び出しで許可されるプロバイダ呼び出しの総数です。
	DefaultMaxAttempts = 3
	// DefaultInitialDelay は最初のリトライ前の待機時間です。以降は倍々で増えます。
	DefaultInitialDelay = 500 * time.Millisecond
)

// RetryPolicy はQuoteProviderの呼び出しを指数バックオフで繰り返します。
// 一時的な失敗のみリトライし、恒久的な失敗と「データなし」は即座に absent として返します。
type RetryPolicy struct {
	provider     QuoteProvider
	maxAttempts  int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// RetryPolicyがQuoteFetcherを実装していることをコンパイル時に検証します。
var _ QuoteFetcher = (*RetryPolicy)(nil)

// NewRetryPolicy はデフォルト設定（最大3回、初回500ms）でRetryPolicyを生成します。
func NewRetryPolicy(provider QuoteProvider) *RetryPolicy {
	return &RetryPolicy{
		provider:     provider,
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		sleep:        sleepContext,
	}
}

// Fetch は symbol の株価を取得します。取得できなかった場合は false を返し、
// エラーは呼び出し側に伝播しません。
// バックオフ待機中にctxがキャンセルされた場合は直ちに false を返します。
func (p *RetryPolicy) Fetch(ctx context.Context, symbol string) (entity.Quote, bool) {
	delay := p.initialDelay

	for attempt := 1; ; attempt++ {
		slog.Info("fetching quote", "symbol", symbol, "attempt", attempt)

		q, err := p.provider.FetchQuote(ctx, symbol)
		switch Classify(q, err) {
		case OutcomeSuccess:
			return q, true
		case OutcomePermanent:
			if err != nil {
				slog.Error("quote fetch failed", "symbol", symbol, "attempt", attempt, "error", err)
			} else {
				slog.Warn("no quote data found", "symbol", symbol)
			}
			return entity.Quote{}, false
		}

		if attempt >= p.maxAttempts {
			slog.Error("quote fetch retries exhausted", "symbol", symbol, "attempts", attempt, "error", err)
			return entity.Quote{}, false
		}

		slog.Warn("retrying quote fetch", "symbol", symbol, "delay", delay, "error", err)
		if err := p.sleep(ctx, delay); err != nil {
			slog.Warn("quote fetch cancelled during backoff", "symbol", symbol, "error", err)
			return entity.Quote{}, false
		}
		delay *= 2
	}
}

// sleepContext は d だけ待機します。ctx が先に終了した場合は ctx.Err() を返します。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
