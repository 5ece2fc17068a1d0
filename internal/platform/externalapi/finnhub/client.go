package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"stock_watchlist/internal/feature/quote/domain/entity"
	"stock_watchlist/internal/feature/quote/usecase"
	"stock_watchlist/internal/platform/externalapi/finnhub/dto"
	"stock_watchlist/internal/shared/ratelimiter"
)

// StatusError はFinnhubが4xx/5xxを返したことを表します。
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("finnhub %s: http %d", e.Endpoint, e.StatusCode)
}

// HTTPStatus はレスポンスのステータスコードを返します。
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// Client はFinnhub外部APIから株価と銘柄検索結果を取得するQuoteProvider実装です。
// 1回の呼び出しにつき1回だけHTTPリクエストを発行し、内部でリトライはしません。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// ClientがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiter が nil の場合はレート制限を行いません。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// FetchQuote は /quote エンドポイントから指定銘柄の現在値を取得します。
// 未知の銘柄はエラーではなく CurrentPrice == 0 のQuoteとして返ります。
func (c *Client) FetchQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", c.cfg.APIKey)

	var body dto.QuoteResponse
	if err := c.get(ctx, "quote", q, &body); err != nil {
		return entity.Quote{}, err
	}
	if body.Error != "" {
		return entity.Quote{}, fmt.Errorf("finnhub quote: %s", body.Error)
	}

	return entity.Quote{
		Symbol:           symbol,
		CurrentPrice:     body.C,
		Change:           body.D,
		PercentChange:    body.DP,
		HighPrice:        body.H,
		LowPrice:         body.L,
		OpenPrice:        body.O,
		PreviousClose:    body.PC,
		TimestampSeconds: body.T,
	}, nil
}

// SearchSymbol は /search エンドポイントで銘柄コードまたは会社名を検索し、
// 未加工の検索結果をそのまま返します。種別のフィルタリングは呼び出し側の責務です。
func (c *Client) SearchSymbol(ctx context.Context, query string) ([]entity.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("token", c.cfg.APIKey)

	var body dto.SearchResponse
	if err := c.get(ctx, "search", q, &body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("finnhub search: %s", body.Error)
	}

	out := make([]entity.SearchResult, 0, len(body.Result))
	for _, r := range body.Result {
		out = append(out, entity.SearchResult{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return out, nil
}

// get はGETリクエストを1回発行し、JSONボディを out にデコードします。
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("finnhub %s: rate limit wait: %w", endpoint, err)
		}
	}

	base := strings.TrimRight(c.cfg.BaseURL, "/")
	u := fmt.Sprintf("%s/%s?%s", base, endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		// url.Error はクエリ文字列ごとURLを保持するため、トークンを含まない形に置き換える
		var ue *url.Error
		if errors.As(err, &ue) {
			return &url.Error{Op: ue.Op, URL: base + "/" + endpoint, Err: ue.Err}
		}
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub %s: decode response: %w", endpoint, err)
	}
	return nil
}
