package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/epw-etl/internal/adapter/archive"
	"github.com/couchcryptid/epw-etl/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/epw-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/epw-etl/internal/adapter/kafka"
	"github.com/couchcryptid/epw-etl/internal/config"
	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/couchcryptid/epw-etl/internal/observability"
	"github.com/couchcryptid/epw-etl/internal/pipeline"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.MaxLines, logger)

	loaders := pipeline.FanOutLoader{writer}
	var arc *archive.Archive
	if cfg.ArchiveDir != "" {
		arc, err = archive.Open(cfg.ArchiveDir, logger, metrics)
		if err != nil {
			logger.Error("failed to open archive", "dir", cfg.ArchiveDir, "error", err)
			os.Exit(1)
		}
		loaders = append(loaders, arc)
		logger.Info("dataset archive enabled", "dir", cfg.ArchiveDir)
	} else {
		logger.Info("dataset archive disabled")
	}

	p := pipeline.New(reader, transformer, loaders, logger, metrics, cfg.BatchSize)

	parser := cache.NewCachedParser(domain.EPWParser{}, cfg.ParseCacheSize, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, parser, cfg.MaxUploadBytes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Start ETL pipeline.
	g.Go(func() error {
		if err := p.Run(gctx); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		return nil
	})

	<-gctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// The pipeline may still be inside a load; the sinks stay open until it returns.
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Error("service stopped with error", "error", err)
		}
	case <-shutdownCtx.Done():
		logger.Error("pipeline did not stop before shutdown timeout", "timeout", cfg.ShutdownTimeout)
		os.Exit(1)
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if arc != nil {
		if err := arc.Close(); err != nil {
			logger.Error("archive close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
