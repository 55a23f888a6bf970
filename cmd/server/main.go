package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docshare-sync/internal/auth"
	"docshare-sync/internal/config"
	"docshare-sync/internal/handlers"
	httpx "docshare-sync/internal/http"
	"docshare-sync/internal/idgen"
	"docshare-sync/internal/presence"
	"docshare-sync/internal/relay"
	"docshare-sync/internal/repo"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// The relay runs fine with neither Redis nor Postgres: the bus only
	// adds cross-process fan-out, and without a user store every token
	// degrades to guest.
	var bus relay.Bus
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolTimeout:  4 * time.Second,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		bus = relay.NewRedisBus(rdb, idgen.NewULID(), logger)
		logger.Info("connected to redis, cross-process bus enabled",
			zap.String("addr", cfg.RedisAddr))
	}

	var users repo.UserRepo
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		users = repo.NewPostgresUserRepo(pool)
		logger.Info("connected to postgres, token validation enabled")
	} else {
		logger.Warn("no DATABASE_URL set, all participants will join as guests")
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, signed tokens will not verify")
	}

	reg := presence.NewRegistry()
	validator := auth.NewValidator(cfg.JWTSecret, users, logger)
	hub := relay.NewHub(bus, cfg.SendQueueSize, logger)
	ws := handlers.NewWebSocketHandler(hub, reg, validator, logger)
	pres := handlers.NewPresenceHandler(hub, logger)
	router := httpx.NewRouter(ws, pres, logger, cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
