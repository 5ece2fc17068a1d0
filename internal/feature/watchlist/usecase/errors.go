// Package usecase はwatchlistフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrAlreadyInWatchlist は同じ銘柄が既にウォッチリストに存在する場合に返されます。
	ErrAlreadyInWatchlist = errors.New("stock already in watchlist")

	// ErrNotInWatchlist は削除対象の銘柄がウォッチリストに存在しない場合に返されます。
	ErrNotInWatchlist = errors.New("stock not in watchlist")

	// ErrInvalidSymbol は銘柄コードが空または長すぎる場合に返されます。
	ErrInvalidSymbol = errors.New("invalid symbol")
)
