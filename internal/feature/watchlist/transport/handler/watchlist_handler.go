// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_watchlist/internal/api"
	"stock_watchlist/internal/feature/watchlist/domain/entity"
	"stock_watchlist/internal/feature/watchlist/transport/http/dto"
	"stock_watchlist/internal/feature/watchlist/usecase"
	jwtmw "stock_watchlist/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type WatchlistUsecase interface {
	GetUserWatchlist(ctx context.Context, userID uint) ([]entity.WatchlistView, error)
	AddToWatchlist(ctx context.Context, userID uint, symbol, companyName string) (entity.WatchlistView, error)
	RemoveFromWatchlist(ctx context.Context, userID uint, symbol string) error
	IsInWatchlist(ctx context.Context, userID uint, symbol string) (bool, error)
	WatchlistCount(ctx context.Context, userID uint) (int64, error)
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
// すべてのエンドポイントは jwtmw.AuthRequired の後段で使用されることを前提とします。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler はWatchlistHandlerの新しいインスタンスを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// List はログインユーザーのウォッチリストを価格情報付きで返します。
//
// GET /api/watchlist
func (h *WatchlistHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	views, err := h.uc.GetUserWatchlist(c.Request.Context(), userID)
	if err != nil {
		internalError(c, "failed to load watchlist", err)
		return
	}

	out := make([]dto.WatchlistItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewWatchlistItemResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

// Add は銘柄をウォッチリストに追加します。
// - 銘柄コードが空の場合は400
// - 登録済みの場合は409
// - 成功時は追加した行を201で返却
//
// POST /api/watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		return
	}

	view, err := h.uc.AddToWatchlist(c.Request.Context(), userID, req.Symbol, req.CompanyName)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSymbol):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "symbol is required"})
		case errors.Is(err, usecase.ErrAlreadyInWatchlist):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "stock already in watchlist"})
		default:
			internalError(c, "failed to add to watchlist", err)
		}
		return
	}
	c.JSON(http.StatusCreated, dto.NewWatchlistItemResponse(view))
}

// Remove は銘柄をウォッチリストから削除します。未登録の場合は404です。
//
// DELETE /api/watchlist/:symbol
func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.uc.RemoveFromWatchlist(c.Request.Context(), userID, c.Param("symbol")); err != nil {
		if errors.Is(err, usecase.ErrNotInWatchlist) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "stock not in watchlist"})
			return
		}
		internalError(c, "failed to remove from watchlist", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Stock removed from watchlist"})
}

// Check は銘柄がウォッチリストに登録済みかを返します。
//
// GET /api/watchlist/check/:symbol
func (h *WatchlistHandler) Check(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	in, err := h.uc.IsInWatchlist(c.Request.Context(), userID, c.Param("symbol"))
	if err != nil {
		internalError(c, "failed to check watchlist", err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckResponse{InWatchlist: in})
}

// Count はウォッチリストの登録数を返します。
//
// GET /api/watchlist/count
func (h *WatchlistHandler) Count(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	n, err := h.uc.WatchlistCount(c.Request.Context(), userID)
	if err != nil {
		internalError(c, "failed to count watchlist", err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func requireUser(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
		return 0, false
	}
	return id, true
}

func internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
}
