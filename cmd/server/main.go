package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_watchlist/internal/app/di"
	"stock_watchlist/internal/app/router"
	quotehandler "stock_watchlist/internal/feature/quote/transport/handler"
	watchlisthandler "stock_watchlist/internal/feature/watchlist/transport/handler"
	infradb "stock_watchlist/internal/platform/db"
	"stock_watchlist/internal/platform/externalapi/finnhub"
	"stock_watchlist/internal/platform/http/handler"
	jwtmw "stock_watchlist/internal/platform/jwt"
	infraredis "stock_watchlist/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// .env はローカル開発用。存在しなくてもよい
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not loaded, using process environment", "error", err)
	}

	if err := run(); err != nil {
		var ce *finnhub.ConfigError
		if errors.As(err, &ce) {
			slog.Error("invalid configuration", "error", err)
		} else {
			slog.Error("server stopped with error", "error", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 株価プロバイダ（設定不備は起動時に失敗させる）
	quoteCfg := di.LoadQuoteConfig()
	provider, httpClient, err := di.NewQuoteProvider(quoteCfg.BatchConcurrency)
	if err != nil {
		return err
	}
	defer httpClient.CloseIdleConnections()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
	}

	// Redis（任意。未設定または接続失敗時はプロセス内キャッシュのみ）
	var rdb *redisv9.Client
	if redisCfg := infraredis.LoadConfig(); redisCfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
			slog.Warn("Redis unavailable. Running with in-process quote cache only.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Usecase
	quoteUC := di.NewQuoteUsecase(quoteCfg, rdb, provider)
	watchlistUC := di.NewWatchlistUsecase(db, quoteUC)

	// Handler
	quoteH := quotehandler.NewQuoteHandler(quoteUC)
	watchlistH := watchlisthandler.NewWatchlistHandler(watchlistUC)
	health := handler.NewHealth(di.NewHealthChecks(db, rdb))

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. Watchlist endpoints will respond with 500.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router.NewRouter(health, quoteH, watchlistH, secret),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
