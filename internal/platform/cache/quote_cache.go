// Package cache provides caching implementations for quote lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_watchlist/internal/feature/quote/domain/entity"
	"stock_watchlist/internal/feature/quote/usecase"
)

const (
	// DefaultTTL は株価キャッシュのデフォルト有効期間です。
	DefaultTTL = 30 * time.Second
	// MinTTL と MaxTTL は株価の鮮度を保つためのTTLの許容範囲です。
	MinTTL = 15 * time.Second
	MaxTTL = 60 * time.Second
	// DefaultMaxEntries はプロセス内キャッシュの最大エントリ数です。
	DefaultMaxEntries = 10000
)

// entry はキャッシュされた株価と格納時刻の組です。常に丸ごと置き換えられ、変更されません。
type entry struct {
	quote      entity.Quote
	insertedAt time.Time
}

// storedQuote はRedisに保存するJSON表現です。
type storedQuote struct {
	Quote    entity.Quote `json:"quote"`
	CachedAt time.Time    `json:"cachedAt"`
}

// QuoteCache decorates a QuoteFetcher with a TTL-bounded two-tier cache.
// L1 is an in-process map; L2 is an optional Redis tier shared across instances.
// Only successful quotes are stored, so a miss never suppresses a later fetch.
// Concurrent misses for the same symbol may each call through to the fetcher.
type QuoteCache struct {
	inner      usecase.QuoteFetcher
	rdb        *redis.Client
	ttl        time.Duration
	namespace  string
	maxEntries int
	now        func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

// QuoteCacheがusecase.QuoteCacheを実装していることをコンパイル時に検証します。
var _ usecase.QuoteCache = (*QuoteCache)(nil)

// NewQuoteCache decorates a QuoteFetcher with caching.
// ttl <= 0 defaults to DefaultTTL and is clamped to [MinTTL, MaxTTL]. An empty namespace uses "quotes".
// rdb may be nil, in which case only the in-process tier is used.
func NewQuoteCache(rdb *redis.Client, ttl time.Duration, inner usecase.QuoteFetcher, namespace string) *QuoteCache {
	switch {
	case ttl <= 0:
		ttl = DefaultTTL
	case ttl < MinTTL:
		ttl = MinTTL
	case ttl > MaxTTL:
		ttl = MaxTTL
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &QuoteCache{
		inner:      inner,
		rdb:        rdb,
		ttl:        ttl,
		namespace:  namespace,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		items:      make(map[string]entry),
	}
}

// WithMaxEntries sets the in-process entry cap. n <= 0 disables the cap.
func (c *QuoteCache) WithMaxEntries(n int) *QuoteCache {
	c.maxEntries = n
	return c
}

// GetOrFetch returns the cached quote for symbol, fetching and caching it on a miss.
func (c *QuoteCache) GetOrFetch(ctx context.Context, symbol string) (entity.Quote, bool) {
	key := entity.NormalizeSymbol(symbol)
	if key == "" {
		return entity.Quote{}, false
	}

	// 1) プロセス内キャッシュ
	if q, ok := c.getLocal(key); ok {
		return q, true
	}

	// 2) Redis
	if q, ok := c.getRemote(ctx, key); ok {
		return q, true
	}

	// 3) リトライ付きでプロバイダから取得
	q, ok := c.inner.Fetch(ctx, key)
	if !ok || !q.HasData() {
		return entity.Quote{}, false
	}

	c.store(ctx, key, q)
	return q, true
}

// getLocal はL1を参照し、期限切れのエントリはその場で削除します。
func (c *QuoteCache) getLocal(key string) (entity.Quote, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return entity.Quote{}, false
	}
	if !c.expired(e.insertedAt) {
		return e.quote, true
	}

	c.mu.Lock()
	// 他のゴルーチンが新しいエントリで置き換えている場合は残す
	if cur, ok := c.items[key]; ok && cur.insertedAt.Equal(e.insertedAt) {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return entity.Quote{}, false
}

// getRemote はL2を参照し、ヒットした場合は元の格納時刻のままL1に昇格させます。
func (c *QuoteCache) getRemote(ctx context.Context, key string) (entity.Quote, bool) {
	if c.rdb == nil {
		return entity.Quote{}, false
	}

	rkey := c.cacheKey(key)
	b, err := c.rdb.Get(ctx, rkey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("quote cache read failed", "key", rkey, "error", err)
		}
		return entity.Quote{}, false
	}

	var sq storedQuote
	if err := json.Unmarshal(b, &sq); err != nil {
		// 破損したエントリを削除
		_ = c.rdb.Del(ctx, rkey).Err()
		return entity.Quote{}, false
	}
	if !sq.Quote.HasData() || c.expired(sq.CachedAt) {
		return entity.Quote{}, false
	}

	c.putLocal(key, entry{quote: sq.Quote, insertedAt: sq.CachedAt})
	return sq.Quote, true
}

// store は取得した株価を両方の層に保存します（Redisはベストエフォート）。
func (c *QuoteCache) store(ctx context.Context, key string, q entity.Quote) {
	now := c.now()
	c.putLocal(key, entry{quote: q, insertedAt: now})

	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(storedQuote{Quote: q, CachedAt: now})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.cacheKey(key), b, c.ttl).Err(); err != nil {
		slog.Warn("quote cache write failed", "key", c.cacheKey(key), "error", err)
	}
}

func (c *QuoteCache) putLocal(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = e
	if c.maxEntries > 0 && len(c.items) > c.maxEntries {
		c.evictLocked(key)
	}
}

// evictLocked は上限を超えた場合に期限切れのエントリから削除し、
// それでも超える場合は keep 以外の任意のエントリを削除します。
func (c *QuoteCache) evictLocked(keep string) {
	for k, e := range c.items {
		if len(c.items) <= c.maxEntries {
			return
		}
		if k != keep && c.expired(e.insertedAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) <= c.maxEntries {
			return
		}
		if k != keep {
			delete(c.items, k)
		}
	}
}

func (c *QuoteCache) expired(insertedAt time.Time) bool {
	return c.now().Sub(insertedAt) >= c.ttl
}

// cacheKey generates the Redis key for a symbol.
func (c *QuoteCache) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
