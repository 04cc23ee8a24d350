package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"theme-catalog/internal/core/auth"
	"theme-catalog/internal/transport/http/ez"
	resp "theme-catalog/internal/transport/http/response"
)

// AuthJWT 校验 Bearer token，写入 userId / email
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if len(ah) < 7 || !strings.EqualFold(ah[:7], "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(ah[7:]))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		c.Set(ez.KeyUserID, claims.Subject)
		c.Set(ez.KeyEmail, claims.Email)
		c.Next()
	}
}
