package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID はリクエストIDを伝播するヘッダー名です。
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID はリクエストIDをgin.Contextに格納するキーです。
	ContextRequestID = "requestID"

	maxRequestIDLength = 128
)

// RequestID はリクエストごとにIDを割り当て、レスポンスヘッダーに付与してアクセスログを出力するミドルウェアです。
// クライアントが X-Request-ID を送ってきた場合はその値を引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		slog.Info("http request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"remote_addr", c.ClientIP(),
		)
	}
}
