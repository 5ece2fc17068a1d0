// Package router はHTTPルーティングを組み立てます。
package router

import (
	"github.com/gin-gonic/gin"

	quotehandler "stock_watchlist/internal/feature/quote/transport/handler"
	watchlisthandler "stock_watchlist/internal/feature/watchlist/transport/handler"
	infrahttp "stock_watchlist/internal/platform/http"
	jwtmw "stock_watchlist/internal/platform/jwt"
)

// NewRouter は株価APIとウォッチリストAPIのルートを登録したGinエンジンを返します。
// health には handler.NewHealth で生成したハンドラーを渡します。
func NewRouter(health gin.HandlerFunc, quotes *quotehandler.QuoteHandler, watchlist *watchlisthandler.WatchlistHandler,
	jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), infrahttp.RequestID())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	stocks := r.Group("/api/stocks")
	{
		stocks.GET("/search", quotes.Search)
		stocks.GET("/quote/:symbol", quotes.GetQuote)
		stocks.GET("/quotes", quotes.GetQuotes)
	}

	// 認証必須のルート
	// → リクエストヘッダーに Bearer トークンが必要になる
	wl := r.Group("/api/watchlist")
	wl.Use(jwtmw.AuthRequired(jwtSecret))
	{
		wl.GET("", watchlist.List)
		wl.POST("", watchlist.Add)
		wl.DELETE("/:symbol", watchlist.Remove)
		wl.GET("/check/:symbol", watchlist.Check)
		wl.GET("/count", watchlist.Count)
	}

	return r
}
