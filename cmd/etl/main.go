package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/clean-energy-etl/internal/adapter/console"
	"github.com/couchcryptid/clean-energy-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/clean-energy-etl/internal/adapter/fetch"
	"github.com/couchcryptid/clean-energy-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/clean-energy-etl/internal/adapter/kafka"
	"github.com/couchcryptid/clean-energy-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/clean-energy-etl/internal/config"
	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	"github.com/couchcryptid/clean-energy-etl/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, metrics); err != nil {
		logger.Error("etl failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	if err := fetchSources(ctx, cfg, logger, metrics); err != nil {
		return err
	}

	loaders := pipeline.Loaders{console.NewPrinter(os.Stdout)}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, metrics, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(
		xlsx.NewReader(cfg.EnergyFile, cfg.HeaderRow, logger),
		csvsource.NewReader(cfg.PopulationFile, logger),
		pipeline.NewTransformer(pipeline.SettingsFromConfig(cfg)),
		loaders,
		logger,
		metrics,
	)

	if cfg.HTTPAddr == "" {
		_, err := p.Run(ctx)
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	_, runErr := p.Run(ctx)
	if runErr == nil {
		logger.Info("serving ranking until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	return runErr
}

// fetchSources downloads both datasets concurrently unless already cached.
func fetchSources(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	f := fetch.NewFetcher(cfg.FetchTimeout, cfg.FetchAttempts, metrics, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := f.Fetch(gctx, cfg.EnergyURL, cfg.EnergyFile); err != nil {
			return fmt.Errorf("fetch energy workbook: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := f.Fetch(gctx, cfg.PopulationURL, cfg.PopulationFile); err != nil {
			return fmt.Errorf("fetch population table: %w", err)
		}
		return nil
	})
	return g.Wait()
}
