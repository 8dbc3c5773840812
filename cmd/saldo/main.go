package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"saldo/internal/cache"
	"saldo/internal/cli"
	"saldo/internal/core"
	apphttp "saldo/internal/http"
	"saldo/internal/log"
	"saldo/internal/services"
	"saldo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	res, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// The server keeps running on an unreadable store; the next save replaces it.
	ledger := services.LoadLedger(context.Background(), res.Store, logger)

	saver := worker.NewSaveWorker(res.Store, cfg.SaveTimeout, logger)

	projections := cache.NewLRUCache[core.Money](cfg.ProjectionCacheSize, cfg.ProjectionCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(projections)
	cacheManager.StartCleanup(time.Minute)

	tracker := services.NewTracker(ledger,
		services.WithSink(saver),
		services.WithProjectionCache(projections),
		services.WithLogger(logger),
	)
	exporter := services.NewExportService(tracker, res.Publisher, cfg.AppVersion, logger)

	srv := apphttp.NewServer(tracker, exporter, apphttp.Options{
		Addr:               ":" + cfg.Port,
		Currency:           cfg.Currency,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ping:               res.Ping,
		Logger:             logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := saver.Close(); err != nil {
			logger.Error("Save worker shutdown error", log.FieldError, err)
		}
		cacheManager.Stop()
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	if err := saver.Start(ctx); err != nil {
		logger.Error("Failed to start save worker", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting saldo server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"transactions", len(ledger.Transactions),
		"amqp_enabled", res.Publisher != nil,
		"version", cfg.AppVersion)

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", "saved", saver.Saved(), "failed_saves", saver.Failed())
}
