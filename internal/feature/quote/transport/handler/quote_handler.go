// Package handler はquoteフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_watchlist/internal/api"
	"stock_watchlist/internal/feature/quote/domain/entity"
	"stock_watchlist/internal/feature/quote/transport/http/dto"
	"stock_watchlist/internal/feature/quote/usecase"
)

// QuoteUsecase は株価取得と銘柄検索のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuoteUsecase interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, bool)
	GetQuotes(ctx context.Context, symbols []string) []entity.Quote
	SearchSymbol(ctx context.Context, query string) ([]entity.SearchResult, error)
}

// QuoteHandler は株価・銘柄検索のHTTPリクエストを処理します。
type QuoteHandler struct {
	uc QuoteUsecase
}

// NewQuoteHandler は指定されたusecaseでQuoteHandlerの新しいインスタンスを生成します。
func NewQuoteHandler(uc QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Search は銘柄コードまたは会社名で銘柄を検索します。
//
// エンドポイント例:
// GET /api/stocks/search?q=apple
func (h *QuoteHandler) Search(c *gin.Context) {
	results, err := h.uc.SearchSymbol(c.Request.Context(), c.Query("q"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
		case errors.Is(err, usecase.ErrServiceUnavailable):
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "stock search is temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		}
		return
	}

	out := make([]dto.SearchResultItem, 0, len(results))
	for _, r := range results {
		out = append(out, dto.SearchResultItem{Symbol: r.Symbol, Description: r.Description, Type: r.Type})
	}
	c.JSON(http.StatusOK, out)
}

// GetQuote は1銘柄の株価を返します。データがない場合は404です。
//
// エンドポイント例:
// GET /api/stocks/quote/AAPL
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, ok := h.uc.GetQuote(c.Request.Context(), c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "quote not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// GetQuotes はカンマ区切りで指定された複数銘柄の株価を返します。
// 取得できなかった銘柄は結果に含まれません。
//
// エンドポイント例:
// GET /api/stocks/quotes?symbols=AAPL,MSFT,GOOGL
func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("symbols"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbols is required"})
		return
	}

	quotes := h.uc.GetQuotes(c.Request.Context(), strings.Split(raw, ","))

	out := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.NewQuoteResponse(q))
	}
	c.JSON(http.StatusOK, out)
}
