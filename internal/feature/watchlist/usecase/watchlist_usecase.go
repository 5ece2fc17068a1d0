package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	quoteentity "stock_watchlist/internal/feature/quote/domain/entity"
	"stock_watchlist/internal/feature/watchlist/domain/entity"
)

const (
	// MaxSymbolLength は銘柄コードの最大文字数です。
	MaxSymbolLength = 20
	// AddedAtLayout は登録日時の表示フォーマットです。
	AddedAtLayout = "2006-01-02 15:04"
)

// WatchlistRepository はウォッチリストの永続化を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type WatchlistRepository interface {
	// ListByUser は userID のエントリを登録日時の降順で返します。
	ListByUser(ctx context.Context, userID uint) ([]entity.WatchlistEntry, error)
	// Create はエントリを保存し、ID を設定します。重複時は ErrAlreadyInWatchlist を返します。
	Create(ctx context.Context, e *entity.WatchlistEntry) error
	// Exists は (userID, symbol) のエントリが存在するかを返します。
	Exists(ctx context.Context, userID uint, symbol string) (bool, error)
	// Delete は (userID, symbol) のエントリを削除します。存在しない場合は ErrNotInWatchlist を返します。
	Delete(ctx context.Context, userID uint, symbol string) error
	// Count は userID のエントリ数を返します。
	Count(ctx context.Context, userID uint) (int64, error)
}

// QuoteBatchGetter は複数銘柄の株価をまとめて取得します。取得できなかった銘柄は結果に含まれません。
type QuoteBatchGetter interface {
	GetQuotes(ctx context.Context, symbols []string) []quoteentity.Quote
}

// WatchlistUsecase はウォッチリストの管理と価格情報のマージを提供します。
type WatchlistUsecase struct {
	repo   WatchlistRepository
	quotes QuoteBatchGetter
	now    func() time.Time
}

// NewWatchlistUsecase はWatchlistUsecaseの新しいインスタンスを生成します。
func NewWatchlistUsecase(repo WatchlistRepository, quotes QuoteBatchGetter) *WatchlistUsecase {
	return &WatchlistUsecase{repo: repo, quotes: quotes, now: time.Now}
}

// GetUserWatchlist はユーザーのウォッチリストを新しい順に、最新の価格情報付きで返します。
func (u *WatchlistUsecase) GetUserWatchlist(ctx context.Context, userID uint) ([]entity.WatchlistView, error) {
	entries, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.MergeWithQuotes(ctx, entries), nil
}

// AddToWatchlist は銘柄をウォッチリストに追加し、追加した行を価格情報付きで返します。
// 既に登録済みの場合は ErrAlreadyInWatchlist を返します。
func (u *WatchlistUsecase) AddToWatchlist(ctx context.Context, userID uint, symbol, companyName string) (entity.WatchlistView, error) {
	s, err := validSymbol(symbol)
	if err != nil {
		return entity.WatchlistView{}, err
	}

	exists, err := u.repo.Exists(ctx, userID, s)
	if err != nil {
		return entity.WatchlistView{}, err
	}
	if exists {
		return entity.WatchlistView{}, ErrAlreadyInWatchlist
	}

	e := entity.WatchlistEntry{
		UserID:      userID,
		Symbol:      s,
		CompanyName: strings.TrimSpace(companyName),
		AddedAt:     u.now(),
	}
	// Exists と Create の間に並行リクエストが割り込んだ場合は一意制約で検出される
	if err := u.repo.Create(ctx, &e); err != nil {
		return entity.WatchlistView{}, err
	}
	slog.Info("added to watchlist", "user_id", userID, "symbol", s)

	return u.MergeWithQuotes(ctx, []entity.WatchlistEntry{e})[0], nil
}

// RemoveFromWatchlist は銘柄をウォッチリストから削除します。
// 登録されていない場合は ErrNotInWatchlist を返します。
func (u *WatchlistUsecase) RemoveFromWatchlist(ctx context.Context, userID uint, symbol string) error {
	s, err := validSymbol(symbol)
	if err != nil {
		return ErrNotInWatchlist
	}
	if err := u.repo.Delete(ctx, userID, s); err != nil {
		return err
	}
	slog.Info("removed from watchlist", "user_id", userID, "symbol", s)
	return nil
}

// IsInWatchlist は銘柄がウォッチリストに登録されているかを返します。
func (u *WatchlistUsecase) IsInWatchlist(ctx context.Context, userID uint, symbol string) (bool, error) {
	s, err := validSymbol(symbol)
	if err != nil {
		return false, nil
	}
	return u.repo.Exists(ctx, userID, s)
}

// WatchlistCount はウォッチリストの登録数を返します。
func (u *WatchlistUsecase) WatchlistCount(ctx context.Context, userID uint) (int64, error) {
	return u.repo.Count(ctx, userID)
}

// MergeWithQuotes は entries の順序を保ったまま、各行に価格情報を付加します。
// 株価が取得できない行も除外されず、価格フィールドが nil の行として返ります。
func (u *WatchlistUsecase) MergeWithQuotes(ctx context.Context, entries []entity.WatchlistEntry) []entity.WatchlistView {
	out := make([]entity.WatchlistView, 0, len(entries))
	if len(entries) == 0 {
		return out
	}

	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}

	bySymbol := make(map[string]quoteentity.Quote, len(entries))
	for _, q := range u.quotes.GetQuotes(ctx, symbols) {
		bySymbol[q.Symbol] = q
	}

	for _, e := range entries {
		v := entity.WatchlistView{
			ID:          e.ID,
			Symbol:      e.Symbol,
			CompanyName: e.CompanyName,
			AddedAt:     formatAddedAt(e.AddedAt),
		}
		if q, ok := bySymbol[quoteentity.NormalizeSymbol(e.Symbol)]; ok {
			v.CurrentPrice = ptr(q.CurrentPrice)
			v.Change = ptr(q.Change)
			v.PercentChange = ptr(q.PercentChange)
		}
		out = append(out, v)
	}
	return out
}

func validSymbol(symbol string) (string, error) {
	s := quoteentity.NormalizeSymbol(symbol)
	if s == "" || len(s) > MaxSymbolLength {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

func formatAddedAt(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Local().Format(AddedAtLayout)
	return &s
}

func ptr(f float64) *float64 {
	return &f
}
