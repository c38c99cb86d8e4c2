// Package main provides the entry point for the Diya book server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/diyabooks/diya-server/internal/api"
	"github.com/diyabooks/diya-server/internal/config"
	"github.com/diyabooks/diya-server/internal/ingest"
	"github.com/diyabooks/diya-server/internal/logger"
	"github.com/diyabooks/diya-server/internal/ratelimit"
	"github.com/diyabooks/diya-server/internal/service"
	"github.com/diyabooks/diya-server/internal/store"
	"github.com/diyabooks/diya-server/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	st, err := store.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	storage, err := ingest.NewStorage(filepath.Join(cfg.Data.Dir, "books"))
	if err != nil {
		return fmt.Errorf("open artifact storage: %w", err)
	}

	v := validation.New()
	loginLimiter := ratelimit.New(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst)

	authService := service.NewAuthService(st, v, loginLimiter, cfg.Auth.SessionDuration, log.Logger)
	bookService := service.NewBookService(st, storage, ingest.NewPipeline(st, storage, log.Logger), v, log.Logger)
	searchService := service.NewSearchService(st, service.SearchLimits{
		Default: cfg.Search.DefaultLimit,
		Max:     cfg.Search.MaxLimit,
		ListAll: cfg.Search.ListAllLimit,
	}, log.Logger)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewServer(authService, bookService, searchService, log.Logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", cfg.Addr(), "environment", cfg.App.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server gracefully...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
