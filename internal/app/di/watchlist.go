package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	watchlistadapters "stock_watchlist/internal/feature/watchlist/adapters"
	watchlistusecase "stock_watchlist/internal/feature/watchlist/usecase"
	"stock_watchlist/internal/platform/http/handler"
)

// NewWatchlistUsecase はGORMリポジトリと株価バッチ取得を組み合わせたWatchlistUsecaseを生成します。
func NewWatchlistUsecase(db *gorm.DB, quotes watchlistusecase.QuoteBatchGetter) *watchlistusecase.WatchlistUsecase {
	return watchlistusecase.NewWatchlistUsecase(watchlistadapters.NewWatchlistGorm(db), quotes)
}

// NewHealthChecks は /healthz で確認する依存先を返します。
// Redis が無効（rdb == nil）の場合は確認対象に含めません。
func NewHealthChecks(db *gorm.DB, rdb *redis.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
