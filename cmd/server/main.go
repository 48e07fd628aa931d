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

	"github.com/zenstudy/backend/internal/auth"
	"github.com/zenstudy/backend/internal/config"
	"github.com/zenstudy/backend/internal/server"
	"github.com/zenstudy/backend/internal/service"
	"github.com/zenstudy/backend/internal/storage/sqlite"
	"github.com/zenstudy/backend/pkg/logging"
)

func main() {
	logging.Setup()
	logger := slog.Default()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DatabasePath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager, logger)
	taskService := service.NewTaskService(store, service.DefaultRewardPolicy, logger)
	statsService := service.NewStatsService(store, logger)

	srv := server.New(authService, taskService, statsService, jwtManager, cfg.StaticPath, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
	}

	// Serve until interrupted, then drain in-flight requests.
	go func() {
		logger.Info("Server starting", "address", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
