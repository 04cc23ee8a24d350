package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theme-catalog/internal/core/throttle"
	resp "theme-catalog/internal/transport/http/response"
)

// Allower 由 throttle.FixedWindow 实现
type Allower interface {
	Allow(ctx context.Context, key string) (throttle.Decision, error)
	Reset(ctx context.Context, key string) error
}

// LoginThrottle 按 IP+email 计数登录尝试；redis 出错时放行
func LoginThrottle(lim Allower, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := peekEmail(c)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		key := c.ClientIP() + ":" + email

		d, err := lim.Allow(c.Request.Context(), key)
		if err != nil {
			l.Warn("login throttle unavailable", zap.Error(err))
			c.Next()
			return
		}
		if d.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		}
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(1, secs)))
			resp.Abort(c, resp.CodeTooManyRequests, "too many login attempts, try again later")
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			if err := lim.Reset(c.Request.Context(), key); err != nil {
				l.Warn("login throttle reset", zap.Error(err))
			}
		}
	}
}

// peekEmail 读出 body 里的 email 后把 body 放回去；只返回读取错误，JSON 不合法交给后续绑定
func peekEmail(c *gin.Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(body.Email)), nil
}
