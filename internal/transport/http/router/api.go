package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"theme-catalog/internal/core/auth"
	"theme-catalog/internal/core/config"
	"theme-catalog/internal/core/server"
	"theme-catalog/internal/transport/http/ez"
	mdw "theme-catalog/internal/transport/http/middleware"
	resp "theme-catalog/internal/transport/http/response"
)

type Deps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Env     string
	Limits  config.Limits
	Health  func(ctx context.Context) error // nil 表示只做存活检查
	Modules []APIModule
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter(d.Env, d.Limits.CORSAllowedOrigins)

	// 中间件（顺序即执行顺序）
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.RateLimit(rate.Limit(d.Limits.RPS), d.Limits.Burst),
		mdw.RateLimitPerIP(rate.Limit(d.Limits.PerIPRPS), d.Limits.PerIPBurst),
		mdw.ConcurrencyLimit(d.Limits.Concurrency),
		mdw.MaxBodyBytes(maxBody(d.Limits.MaxBodyBytes)),
		mdw.Timeout(time.Duration(d.Limits.TimeoutSec)*time.Second),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "route not found"))
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := r.Group("/api/v1")
	pub := ez.New(api, l)
	authed := ez.New(api.Group("", mdw.AuthJWT(d.JWT)), l)

	MountAll(pub, authed, d.Modules...)
	return r
}

func maxBody(n int64) int64 {
	if n <= 0 {
		return 1 << 20
	}
	return n
}
