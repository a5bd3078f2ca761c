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

	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"checkinboard/internal/auth"
	"checkinboard/internal/config"
	"checkinboard/internal/live"
	"checkinboard/internal/server"
	"checkinboard/internal/service"
	"checkinboard/internal/storage/sqlite"
	"checkinboard/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)
	log := logging.Component("server")

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info("store opened", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		log.Info("redis connected", "addr", cfg.RedisAddr)
	}

	hub := live.NewHub()
	broadcaster := live.NewBroadcaster(store, hub, rdb, logging.Component("live"))
	go broadcaster.Run(ctx)

	svc := service.New(store, broadcaster, cfg.ClearArmTTL, logging.Component("service"))
	if err := svc.EnsureCatalog(ctx); err != nil {
		return err
	}

	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL)
	srv := server.New(svc, sessions, store, hub, logging.Component("http"))

	// h2c lets browsers multiplex many SSE streams over one connection
	// without TLS termination in front.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(srv.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
