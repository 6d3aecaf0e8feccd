package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mathclass-bot/internal/bot"
	"mathclass-bot/internal/config"
	"mathclass-bot/internal/ratelimit"
	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/session"
	"mathclass-bot/internal/storage"
	"mathclass-bot/pkg/logger"
)

// ENTRY POINT

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir, cfg.CacheTTL, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init file storage", zap.Error(err))
	}
	go fileStorage.RunBackups(ctx, cfg.BackupInterval, cfg.MaxBackups)

	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		defer redisStore.Close()
		sessions = redisStore
		zapLogger.Info("Using redis sessions", zap.String("addr", cfg.RedisAddr))
	} else {
		memStore := session.NewMemoryStore(cfg.SessionTTL)
		go memStore.RunJanitor(ctx, cfg.SessionSweepInterval)
		sessions = memStore
		zapLogger.Info("Using in-memory sessions")
	}

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	go limiter.RunCleanup(ctx, cfg.RateLimitSweepInterval)

	machine := registration.NewMachine(fileStorage, limiter, zapLogger)

	tgBot, err := bot.New(cfg, machine, sessions, fileStorage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
