// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"feedback-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 用于在请求与响应之间传递请求 ID
const RequestIDHeader = "X-Request-ID"

// RequestIDKey 是请求 ID 在 gin.Context 中的键
const RequestIDKey = "requestId"

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 将响应同时写入 gin.ResponseWriter 和内部 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestLogger 是一个 Gin 中间件，用于记录详细的请求和响应日志。
// 请求未携带 X-Request-ID 时生成一个新的 ID 并回写到响应头。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		// 读取并重新缓存请求体，以便后续处理函数可以正常读取
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		responseBody := blw.body.String()
		// HTML 页面体积较大，只记录 JSON 响应体
		if ct := c.Writer.Header().Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
			responseBody = ""
		}

		log.Infow("HTTP Request Log",
			"requestId", requestID,
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestBody", string(requestBody),
			"responseBody", responseBody,
		)
	}
}
