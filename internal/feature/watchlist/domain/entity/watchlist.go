package entity

import "time"

// WatchlistEntry はユーザーのウォッチリストに登録された1銘柄です。
// (UserID, Symbol) の組はユーザーごとに一意です。
type WatchlistEntry struct {
	ID          uint
	UserID      uint
	Symbol      string
	CompanyName string
	AddedAt     time.Time
}

// WatchlistView はウォッチリストの1行に最新の価格情報を付加した表示用レコードです。
// 株価が取得できなかった場合、価格フィールドは nil になります。
type WatchlistView struct {
	ID            uint
	Symbol        string
	CompanyName   string
	CurrentPrice  *float64
	Change        *float64
	PercentChange *float64
	AddedAt       *string // "2006-01-02 15:04" 形式。登録日時が不明な場合は nil
}
