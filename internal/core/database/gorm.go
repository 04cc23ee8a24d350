package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"theme-catalog/internal/core/logger"
)

type Opts struct {
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	SlowQueryMs        int
	LogLevel           string
	Logger             *zap.Logger
}

var ErrEmptyDSN = errors.New("database: empty dsn")

// NewGorm 只支持 postgres：主题查询依赖数组重叠、ILIKE 与 SQLSTATE 错误码
func NewGorm(o Opts) (*gorm.DB, error) {
	if o.DSN == "" {
		return nil, ErrEmptyDSN
	}
	db, err := gorm.Open(postgres.Open(o.DSN), &gorm.Config{
		Logger: newGormLogger(o),
		// 保留驱动原始错误（*pgconn.PgError），由 service 层按错误码映射
		TranslateError: false,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)

	db = db.Session(&gorm.Session{
		PrepareStmt:            true, // 预编译缓存
		SkipDefaultTransaction: true, // 单语句写入不需要隐式事务
	})
	return db, nil
}

func newGormLogger(o Opts) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	if o.Logger == nil {
		return gormlogger.Default.LogMode(lvl)
	}
	std, err := logger.ToStdLogger(o.Logger.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return gormlogger.Default.LogMode(lvl)
	}
	slow := time.Duration(o.SlowQueryMs) * time.Millisecond
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
