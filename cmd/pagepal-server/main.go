package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pagepal-backend/internal/config"
	"pagepal-backend/internal/llm"
	"pagepal-backend/internal/logging"
	"pagepal-backend/internal/prompts"
	"pagepal-backend/internal/relay"
	"pagepal-backend/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.NewStdout(cfg)
	defer func() { _ = logger.Sync() }()

	if !cfg.KeyLoaded() {
		logger.Warn("OPENAI_API_KEY is not set; model endpoints will fail until provided")
	}

	set, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		logger.Fatal("failed to load prompts", zap.String("path", cfg.PromptsFile), zap.Error(err))
	}

	svc := relay.NewService(cfg, llm.New(cfg, logger), set, logger)
	s := server.NewServer(cfg, svc, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Timeout + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("pagepal server listening",
			zap.String("addr", cfg.Addr()),
			zap.String("model", cfg.Model),
			zap.String("api_style", cfg.APIStyle),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
