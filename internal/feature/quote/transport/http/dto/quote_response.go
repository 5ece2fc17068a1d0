// Package dto はquoteフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import "stock_watchlist/internal/feature/quote/domain/entity"

// QuoteResponse は株価スナップショットのレスポンスDTOです。
type QuoteResponse struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`  // 現在値
	Change        float64 `json:"change"`        // 前日比
	PercentChange float64 `json:"percentChange"` // 前日比（%）
	HighPrice     float64 `json:"highPrice"`     // 高値
	LowPrice      float64 `json:"lowPrice"`      // 安値
	OpenPrice     float64 `json:"openPrice"`     // 始値
	PreviousClose float64 `json:"previousClose"` // 前日終値
	Timestamp     int64   `json:"timestamp"`     // UNIX秒
}

// SearchResultItem は銘柄検索結果の1件です。
type SearchResultItem struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// NewQuoteResponse はエンティティをレスポンスDTOに変換します。
func NewQuoteResponse(q entity.Quote) QuoteResponse {
	return QuoteResponse{
		Symbol:        q.Symbol,
		CurrentPrice:  q.CurrentPrice,
		Change:        q.Change,
		PercentChange: q.PercentChange,
		HighPrice:     q.HighPrice,
		LowPrice:      q.LowPrice,
		OpenPrice:     q.OpenPrice,
		PreviousClose: q.PreviousClose,
		Timestamp:     q.TimestampSeconds,
	}
}
