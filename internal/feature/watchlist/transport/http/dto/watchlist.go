// Package dto はwatchlistフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import "stock_watchlist/internal/feature/watchlist/domain/entity"

// AddStockRequest はウォッチリスト追加APIのリクエストボディです。
type AddStockRequest struct {
	Symbol      string `json:"symbol" binding:"required"`
	CompanyName string `json:"companyName"`
}

// WatchlistItemResponse はウォッチリストの1行です。価格が取得できない場合は null になります。
type WatchlistItemResponse struct {
	ID            uint     `json:"id"`
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"companyName"`
	CurrentPrice  *float64 `json:"currentPrice"`
	Change        *float64 `json:"change"`
	PercentChange *float64 `json:"percentChange"`
	AddedAt       *string  `json:"addedAt"`
}

// CheckResponse は登録有無の確認結果です。
type CheckResponse struct {
	InWatchlist bool `json:"inWatchlist"`
}

// CountResponse は登録数です。
type CountResponse struct {
	Count int64 `json:"count"`
}

// NewWatchlistItemResponse は表示用レコードをレスポンスDTOに変換します。
func NewWatchlistItemResponse(v entity.WatchlistView) WatchlistItemResponse {
	return WatchlistItemResponse{
		ID:            v.ID,
		Symbol:        v.Symbol,
		CompanyName:   v.CompanyName,
		CurrentPrice:  v.CurrentPrice,
		Change:        v.Change,
		PercentChange: v.PercentChange,
		AddedAt:       v.AddedAt,
	}
}
