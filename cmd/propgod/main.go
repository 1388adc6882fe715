package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/propgo/propgo"
	"github.com/propgo/propgo/config"
	"github.com/propgo/propgo/dataset"
	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger.Logger)

	store, report, err := dataset.Load(cfg.Dataset.Path, cfg.Dataset.Columns)
	if err != nil && !errors.Is(err, propgo.ErrEmptyDataset) {
		slog.Error("failed to load dataset", "path", cfg.Dataset.Path, "error", err)
		os.Exit(1)
	}
	if errors.Is(err, propgo.ErrEmptyDataset) {
		slog.Warn("dataset is empty, all queries will return no results", "path", cfg.Dataset.Path)
	}
	slog.Info("dataset loaded",
		"path", cfg.Dataset.Path,
		"rows", report.Rows,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
	)

	metrics := server.NewMetrics()

	engine, err := propgo.New(store,
		propgo.WithBuckets(index.Buckets{
			PriceWidth: cfg.Index.PriceBucketWidth,
			YearWidth:  cfg.Index.YearBucketWidth,
		}),
		propgo.WithParallelBuild(cfg.Index.ParallelBuild),
		propgo.WithLogger(logger),
		propgo.WithMetricsCollector(metrics),
	)
	if err != nil {
		slog.Error("failed to build indexes", "error", err)
		os.Exit(1)
	}
	slog.Info("indexes built", "properties", engine.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine, logger.Logger, metrics)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(cfg.Server, cfg.Metrics),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("propgod listening", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("propgod stopped")
}

func newLogger(cfg config.LoggingConfig) *propgo.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Format == "json" {
		return propgo.NewJSONLogger(level)
	}
	return propgo.NewTextLogger(level)
}
