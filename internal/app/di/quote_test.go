package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quoteusecase "stock_watchlist/internal/feature/quote/usecase"
	"stock_watchlist/internal/platform/cache"
	"stock_watchlist/internal/platform/externalapi/finnhub"
)

func TestLoadQuoteConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected QuoteConfig
	}{
		{
			name:     "defaults",
			env:      map[string]string{},
			expected: QuoteConfig{CacheTTL: cache.DefaultTTL, CacheMaxEntries: cache.DefaultMaxEntries, BatchConcurrency: quoteusecase.DefaultBatchConcurrency},
		},
		{
			name:     "overrides",
			env:      map[string]string{"QUOTE_CACHE_TTL": "45s", "QUOTE_CACHE_MAX_ENTRIES": "500", "QUOTE_BATCH_CONCURRENCY": "4"},
			expected: QuoteConfig{CacheTTL: 45 * time.Second, CacheMaxEntries: 500, BatchConcurrency: 4},
		},
		{
			name:     "invalid values fall back",
			env:      map[string]string{"QUOTE_CACHE_TTL": "-1s", "QUOTE_CACHE_MAX_ENTRIES": "many", "QUOTE_BATCH_CONCURRENCY": "0"},
			expected: QuoteConfig{CacheTTL: cache.DefaultTTL, CacheMaxEntries: cache.DefaultMaxEntries, BatchConcurrency: quoteusecase.DefaultBatchConcurrency},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"QUOTE_CACHE_TTL", "QUOTE_CACHE_MAX_ENTRIES", "QUOTE_BATCH_CONCURRENCY"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.expected, LoadQuoteConfig())
		})
	}
}

func TestNewQuoteProvider_ConfigError(t *testing.T) {
	t.Setenv("FINNHUB_BASE_URL", "")
	t.Setenv("FINNHUB_API_KEY", "key")

	client, httpClient, err := NewQuoteProvider(8)

	assert.Nil(t, client)
	assert.Nil(t, httpClient)
	var ce *finnhub.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, finnhub.ErrMissingBaseURL)
}

// TestNewQuoteUsecase_EndToEnd はプロバイダ→リトライ→キャッシュ→ユースケースの組み立てを検証します。
func TestNewQuoteUsecase_EndToEnd(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			_, _ = w.Write([]byte(`{"c":190.5,"d":1.25,"dp":0.66}`))
		default:
			_, _ = w.Write([]byte(`{"c":0}`))
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("FINNHUB_BASE_URL", server.URL)
	t.Setenv("FINNHUB_API_KEY", "key")
	t.Setenv("FINNHUB_RATE_LIMIT_PER_MIN", "600")

	provider, httpClient, err := NewQuoteProvider(4)
	require.NoError(t, err)
	t.Cleanup(httpClient.CloseIdleConnections)

	uc := NewQuoteUsecase(QuoteConfig{CacheTTL: 30 * time.Second, CacheMaxEntries: 100, BatchConcurrency: 4}, nil, provider)

	got := uc.GetQuotes(context.Background(), []string{"aapl", "ZZZZ"})
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, int32(2), calls.Load())

	// キャッシュヒットはプロバイダを呼ばない。ミスはキャッシュされない
	q, ok := uc.GetQuote(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, 190.5, q.CurrentPrice)
	_, ok = uc.GetQuote(context.Background(), "ZZZZ")
	assert.False(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}
