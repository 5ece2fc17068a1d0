package adapters

import (
	"time"

	"stock_watchlist/internal/feature/watchlist/domain/entity"
)

// WatchlistItemModel はwatchlist_itemsテーブルのGORMモデルです。
type WatchlistItemModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_symbol;index:idx_watchlist_user_added,priority:1"`
	Symbol      string    `gorm:"size:20;not null;uniqueIndex:idx_watchlist_user_symbol"`
	CompanyName string    `gorm:"size:255"`
	AddedAt     time.Time `gorm:"not null;index:idx_watchlist_user_added,priority:2"`
}

// TableName returns the table name for GORM.
func (WatchlistItemModel) TableName() string {
	return "watchlist_items"
}

// ToEntity はGORMモデルをドメインエンティティに変換します。
func (m *WatchlistItemModel) ToEntity() entity.WatchlistEntry {
	return entity.WatchlistEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		Symbol:      m.Symbol,
		CompanyName: m.CompanyName,
		AddedAt:     m.AddedAt,
	}
}

// WatchlistItemModelFromEntity はドメインエンティティをGORMモデルに変換します。
func WatchlistItemModelFromEntity(e *entity.WatchlistEntry) *WatchlistItemModel {
	return &WatchlistItemModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Symbol:      e.Symbol,
		CompanyName: e.CompanyName,
		AddedAt:     e.AddedAt,
	}
}
