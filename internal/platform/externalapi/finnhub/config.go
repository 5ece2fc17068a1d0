// Package finnhub provides a client for the Finnhub stock quote API.
package finnhub

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
)

var (
	// ErrMissingBaseURL は FINNHUB_BASE_URL が未設定の場合に返されます。
	ErrMissingBaseURL = errors.New("finnhub base url is not configured")
	// ErrMissingAPIKey は FINNHUB_API_KEY が未設定の場合に返されます。
	ErrMissingAPIKey = errors.New("finnhub api key is not configured")
)

// ConfigError は起動時に検出される設定エラーです。実行時の障害とは区別されます。
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("finnhub config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config はFinnhub APIクライアントの設定を保持します。
type Config struct {
	APIKey             string        // 認証用APIトークン
	BaseURL            string        // APIのベースURL（例: "https://finnhub.io/api/v1"）
	Timeout            time.Duration // HTTPリクエストタイムアウト
	RateLimitPerMinute int           // 1分あたりの呼び出し上限（0は無制限）
}

// LoadConfig は環境変数からFinnhubの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: os.Getenv("FINNHUB_BASE_URL"),
		Timeout: defaultTimeout,
	}
	if v := os.Getenv("FINNHUB_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("FINNHUB_RATE_LIMIT_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		}
	}
	return cfg
}

// Validate は必須項目（ベースURLとAPIキー）が設定されているか検証します。
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Err: ErrMissingBaseURL}
	}
	if c.APIKey == "" {
		return &ConfigError{Err: ErrMissingAPIKey}
	}
	return nil
}
