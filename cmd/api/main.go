package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"theme-catalog/internal/core/auth"
	"theme-catalog/internal/core/config"
	"theme-catalog/internal/core/database"
	"theme-catalog/internal/core/logger"
	"theme-catalog/internal/core/server"
	"theme-catalog/internal/core/throttle"
	"theme-catalog/internal/repo"
	"theme-catalog/internal/service"
	"theme-catalog/internal/transport/http/handler"
	mdw "theme-catalog/internal/transport/http/middleware"
	"theme-catalog/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.Options{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected")

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("migrate failed", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	// redis 只用于登录限流；连不上时降级为放行
	rdb := throttle.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := throttle.Ping(context.Background(), rdb); err != nil {
		log.Warn("redis unavailable, login throttle fails open", zap.Error(err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	loginLimiter := throttle.NewFixedWindow(rdb, "login:", cfg.Limits.LoginAttempts,
		time.Duration(cfg.Limits.LoginWindowSec)*time.Second)

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 依赖装配：repo -> service -> handler
	userSvc := service.NewUserService(repo.NewUserRepo(db), log)
	authSvc := service.NewAuthService(userSvc, jwter, log)
	themeSvc := service.NewThemeService(repo.NewThemeRepo(db), log)

	r := router.NewAPIEngine(router.Deps{
		Log:    log,
		JWT:    jwter,
		Env:    cfg.App.Env,
		Limits: cfg.Limits,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Modules: []router.APIModule{
			handler.NewAuthHandler(authSvc, mdw.LoginThrottle(loginLimiter, log)),
			handler.NewUserHandler(userSvc),
			handler.NewThemeHandler(themeSvc),
		},
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("theme api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("theme api stopped with error", zap.Error(err))
		return
	}
	log.Info("theme api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		SlowQueryMs:        cfg.DB.SlowQueryMs,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
