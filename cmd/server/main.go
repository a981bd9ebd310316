package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrymomot/pdfkit/internal/api"
	"github.com/dmitrymomot/pdfkit/internal/config"
	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/pkg/httpserver"
	"github.com/dmitrymomot/pdfkit/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.NewFromConfig(cfg.Logger, "pdfkit")
	logger.SetAsDefault(log)

	svc := api.New(cfg, log, engine.New(log))
	handler, store, err := svc.Handle()
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	log.Info("starting server",
		"addr", cfg.Addr(),
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"max_file_size", cfg.MaxFileSize,
	)

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr()),
		httpserver.WithLogger(log),
	)
	if err := srv.Run(ctx, handler); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
