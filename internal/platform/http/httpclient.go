// Package http は外部API呼び出し用のHTTPクライアントとサーバー共通ミドルウェアを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultMaxIdleConnsPerHost は同一ホストに保持するアイドル接続数のデフォルト値です。
const DefaultMaxIdleConnsPerHost = 16

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
// プロセス起動時に1度だけ生成し、プロバイダクライアントに注入して使い回します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConnsPerHost: 接続先は単一ホストのため、バッチ取得の並列数に合わせてアイドル接続を保持（0以下ならDefaultMaxIdleConnsPerHost）
//   - MaxConnsPerHost: 設定しない。クライアントはプロセス全体で共有されるため、上限を置くと接続待ちが
//     Client.Timeout を消費してリトライ対象のタイムアウトになる。呼び出し頻度はレートリミッタで制御する
//   - Client.Timeout: 1リクエスト全体のタイムアウト。超過はリトライ可能な失敗として扱われる
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration, maxIdleConnsPerHost int) *http.Client {
	if maxIdleConnsPerHost <= 0 {
		maxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
