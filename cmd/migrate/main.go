package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"theme-catalog/internal/core/config"
	"theme-catalog/internal/core/database"
	"theme-catalog/internal/core/logger"
)

// 用法：migrate [-config path] up|down|status|version|reset
func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] up|down|status|version|reset\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadDB(*cfgPath)
	log, cleanup := logger.New(logger.Options{Service: cfg.App.Name + "-migrate", Env: cfg.App.Env, Level: cfg.Log.Level, NoSample: true})
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		DSN:          cfg.DB.DSN,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     cfg.DB.LogLevel,
		Logger:       log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	cmd := flag.Arg(0)
	if err := database.RunCommand(db, cmd); err != nil {
		log.Fatal("migrate failed", zap.String("cmd", cmd), zap.Error(err))
	}
	log.Info("migrate done", zap.String("cmd", cmd))
}
