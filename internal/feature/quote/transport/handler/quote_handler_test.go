package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_watchlist/internal/feature/quote/domain/entity"
	"stock_watchlist/internal/feature/quote/transport/handler"
	"stock_watchlist/internal/feature/quote/usecase"
)

// mockQuoteUsecase はQuoteUsecaseインターフェースのモック実装です。
type mockQuoteUsecase struct {
	GetQuoteFunc     func(ctx context.Context, symbol string) (entity.Quote, bool)
	GetQuotesFunc    func(ctx context.Context, symbols []string) []entity.Quote
	SearchSymbolFunc func(ctx context.Context, query string) ([]entity.SearchResult, error)
}

func (m *mockQuoteUsecase) GetQuote(ctx context.Context, symbol string) (entity.Quote, bool) {
	return m.GetQuoteFunc(ctx, symbol)
}

func (m *mockQuoteUsecase) GetQuotes(ctx context.Context, symbols []string) []entity.Quote {
	return m.GetQuotesFunc(ctx, symbols)
}

func (m *mockQuoteUsecase) SearchSymbol(ctx context.Context, query string) ([]entity.SearchResult, error) {
	return m.SearchSymbolFunc(ctx, query)
}

func newRouter(uc handler.QuoteUsecase) *gin.Engine {
	h := handler.NewQuoteHandler(uc)
	r := gin.New()
	r.GET("/api/stocks/search", h.Search)
	r.GET("/api/stocks/quote/:symbol", h.GetQuote)
	r.GET("/api/stocks/quotes", h.GetQuotes)
	return r
}

func serve(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

// TestQuoteHandler_Search は検索エンドポイントのステータスとボディをテストします。
func TestQuoteHandler_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockSearch     func(ctx context.Context, query string) ([]entity.SearchResult, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			url:  "/api/stocks/search?q=apple",
			mockSearch: func(ctx context.Context, query string) ([]entity.SearchResult, error) {
				assert.Equal(t, "apple", query)
				return []entity.SearchResult{{Symbol: "AAPL", Description: "APPLE INC", Type: "Common Stock"}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"symbol":"AAPL","description":"APPLE INC","type":"Common Stock"}]`,
		},
		{
			name: "no results",
			url:  "/api/stocks/search?q=zzzz",
			mockSearch: func(ctx context.Context, query string) ([]entity.SearchResult, error) {
				return []entity.SearchResult{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "blank query",
			url:  "/api/stocks/search?q=",
			mockSearch: func(ctx context.Context, query string) ([]entity.SearchResult, error) {
				return nil, usecase.ErrEmptyQuery
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"query is required"}`,
		},
		{
			name: "provider unavailable",
			url:  "/api/stocks/search?q=apple",
			mockSearch: func(ctx context.Context, query string) ([]entity.SearchResult, error) {
				return nil, fmt.Errorf("%w: http 503", usecase.ErrServiceUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"stock search is temporarily unavailable"}`,
		},
		{
			name: "unexpected error",
			url:  "/api/stocks/search?q=apple",
			mockSearch: func(ctx context.Context, query string) ([]entity.SearchResult, error) {
				return nil, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(&mockQuoteUsecase{SearchSymbolFunc: tt.mockSearch}), tt.url)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestQuoteHandler_GetQuote は単一銘柄エンドポイントをテストします。
func TestQuoteHandler_GetQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockQuoteUsecase{
		GetQuoteFunc: func(ctx context.Context, symbol string) (entity.Quote, bool) {
			if symbol != "aapl" {
				return entity.Quote{}, false
			}
			return entity.Quote{
				Symbol: "AAPL", CurrentPrice: 190.5, Change: 1.25, PercentChange: 0.66,
				HighPrice: 191.2, LowPrice: 188.9, OpenPrice: 189, PreviousClose: 189.25, TimestampSeconds: 1718380800,
			}, true
		},
	}
	r := newRouter(uc)

	w := serve(r, "/api/stocks/quote/aapl")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"AAPL","currentPrice":190.5,"change":1.25,"percentChange":0.66,
		"highPrice":191.2,"lowPrice":188.9,"openPrice":189,"previousClose":189.25,"timestamp":1718380800}`, w.Body.String())

	w = serve(r, "/api/stocks/quote/ZZZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"quote not found"}`, w.Body.String())
}

// TestQuoteHandler_GetQuotes は複数銘柄エンドポイントをテストします。
func TestQuoteHandler_GetQuotes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		url             string
		expectedSymbols []string
		expectedStatus  int
		expectedBody    string
	}{
		{
			name:            "partial results",
			url:             "/api/stocks/quotes?symbols=AAPL,FAIL,MSFT",
			expectedSymbols: []string{"AAPL", "FAIL", "MSFT"},
			expectedStatus:  http.StatusOK,
			expectedBody: `[
				{"symbol":"AAPL","currentPrice":1,"change":0,"percentChange":0,"highPrice":0,"lowPrice":0,"openPrice":0,"previousClose":0,"timestamp":0},
				{"symbol":"MSFT","currentPrice":1,"change":0,"percentChange":0,"highPrice":0,"lowPrice":0,"openPrice":0,"previousClose":0,"timestamp":0}
			]`,
		},
		{
			name:            "all missing",
			url:             "/api/stocks/quotes?symbols=FAIL",
			expectedSymbols: []string{"FAIL"},
			expectedStatus:  http.StatusOK,
			expectedBody:    `[]`,
		},
		{
			name:           "blank symbols",
			url:            "/api/stocks/quotes?symbols=%20",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"symbols is required"}`,
		},
		{
			name:           "missing parameter",
			url:            "/api/stocks/quotes",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"symbols is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			uc := &mockQuoteUsecase{
				GetQuotesFunc: func(ctx context.Context, symbols []string) []entity.Quote {
					got = symbols
					out := []entity.Quote{}
					for _, s := range symbols {
						if s != "FAIL" {
							out = append(out, entity.Quote{Symbol: s, CurrentPrice: 1})
						}
					}
					return out
				},
			}

			w := serve(newRouter(uc), tt.url)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedSymbols, got)
		})
	}
}
