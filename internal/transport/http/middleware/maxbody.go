package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "theme-catalog/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；超限在读取 body 时报错
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
