// Package di はアプリケーションコンポーネントを生成する依存性注入用ファクトリーを提供します。
package di

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	quoteusecase "stock_watchlist/internal/feature/quote/usecase"
	"stock_watchlist/internal/platform/cache"
	"stock_watchlist/internal/platform/externalapi/finnhub"
	infrahttp "stock_watchlist/internal/platform/http"
	"stock_watchlist/internal/shared/ratelimiter"
)

// QuoteConfig は株価キャッシュとバッチ取得の設定を保持します。
type QuoteConfig struct {
	CacheTTL         time.Duration
	CacheMaxEntries  int
	BatchConcurrency int
}

// LoadQuoteConfig は環境変数から株価キャッシュとバッチ取得の設定を読み込みます。
// 不正な値は無視され、デフォルト値が使われます。
func LoadQuoteConfig() QuoteConfig {
	cfg := QuoteConfig{
		CacheTTL:         cache.DefaultTTL,
		CacheMaxEntries:  cache.DefaultMaxEntries,
		BatchConcurrency: quoteusecase.DefaultBatchConcurrency,
	}
	if v := os.Getenv("QUOTE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if n, ok := positiveIntEnv("QUOTE_CACHE_MAX_ENTRIES"); ok {
		cfg.CacheMaxEntries = n
	}
	if n, ok := positiveIntEnv("QUOTE_BATCH_CONCURRENCY"); ok {
		cfg.BatchConcurrency = n
	}
	return cfg
}

// NewQuoteProvider はFinnhubクライアントと、それが使うHTTPクライアントを生成します。
// ベースURLまたはAPIキーが未設定の場合は *finnhub.ConfigError を返します。
// batchConcurrency は保持するアイドル接続数に使い、同時接続数は制限しません。
// 返したHTTPクライアントはシャットダウン時にアイドル接続を閉じるために使います。
func NewQuoteProvider(batchConcurrency int) (*finnhub.Client, *http.Client, error) {
	cfg := finnhub.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, batchConcurrency)

	// インターフェースに nil ポインタを入れないよう、無効時は limiter を代入しない
	var limiter ratelimiter.RateLimiterInterface
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	return finnhub.NewClient(cfg, httpClient, limiter), httpClient, nil
}

// NewQuoteUsecase はリトライ・キャッシュ層を組み立てたQuoteUsecaseを生成します。
// rdb が nil の場合はプロセス内キャッシュのみを使用します。
func NewQuoteUsecase(cfg QuoteConfig, rdb *redis.Client, provider quoteusecase.QuoteProvider) *quoteusecase.QuoteUsecase {
	retry := quoteusecase.NewRetryPolicy(provider)
	quoteCache := cache.NewQuoteCache(rdb, cfg.CacheTTL, retry, "quotes").WithMaxEntries(cfg.CacheMaxEntries)
	return quoteusecase.NewQuoteUsecase(quoteCache, provider, cfg.BatchConcurrency)
}

func positiveIntEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
