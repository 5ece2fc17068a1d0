// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stock_watchlist/internal/feature/watchlist/domain/entity"
	"stock_watchlist/internal/feature/watchlist/usecase"
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

// watchlistGorm はWatchlistRepositoryインターフェースのGORM実装です。
// MySQL・PostgreSQL・SQLiteのいずれでも動作します。
type watchlistGorm struct {
	db *gorm.DB
}

// watchlistGormがWatchlistRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WatchlistRepository = (*watchlistGorm)(nil)

// NewWatchlistGorm は指定されたgorm.DB接続でwatchlistGormの新しいインスタンスを生成します。
func NewWatchlistGorm(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

// ListByUser はユーザーのエントリを登録日時の降順で返します。
func (r *watchlistGorm) ListByUser(ctx context.Context, userID uint) ([]entity.WatchlistEntry, error) {
	var rows []WatchlistItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.WatchlistEntry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

// Create はエントリを保存します。(user_id, symbol) が重複する場合は usecase.ErrAlreadyInWatchlist を返します。
func (r *watchlistGorm) Create(ctx context.Context, e *entity.WatchlistEntry) error {
	m := WatchlistItemModelFromEntity(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrAlreadyInWatchlist
		}
		return err
	}
	e.ID = m.ID
	return nil
}

// Exists は (userID, symbol) のエントリが存在するかを返します。
func (r *watchlistGorm) Exists(ctx context.Context, userID uint, symbol string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&WatchlistItemModel{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Limit(1).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete は (userID, symbol) のエントリを削除します。該当行がない場合は usecase.ErrNotInWatchlist を返します。
func (r *watchlistGorm) Delete(ctx context.Context, userID uint, symbol string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&WatchlistItemModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotInWatchlist
	}
	return nil
}

// Count はユーザーのエントリ数を返します。
func (r *watchlistGorm) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&WatchlistItemModel{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// isDuplicateKey は一意制約違反をドライバーごとのエラーから判定します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation
}
