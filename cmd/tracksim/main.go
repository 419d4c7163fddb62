package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/config"
	dbValkey "github.com/kailas-cloud/tracksim/internal/db/valkey"
	logpkg "github.com/kailas-cloud/tracksim/internal/logger"
	"github.com/kailas-cloud/tracksim/internal/metrics"
	"github.com/kailas-cloud/tracksim/internal/repository/reccache"
	chiTransport "github.com/kailas-cloud/tracksim/internal/transport/chi"
	healthuc "github.com/kailas-cloud/tracksim/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tracksim/internal/usecase/recommend"
	"github.com/kailas-cloud/tracksim/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tracksim API server",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("algorithm", cfg.Index.Algorithm),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	metrics.Register()

	ctx := context.Background()

	// Catalog snapshot, feature matrix and index are built once and never mutated.
	snap, err := buildSnapshot(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build recommendation index", zap.Error(err))
	}

	var finder recommenduc.Finder = recommenduc.NewIndexFinder(snap.matrix, snap.index)

	// Pass nil interface (not typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to recommendation cache", zap.Strings("addrs", cfg.Cache.Addrs))

		finder = reccache.New(finder, store, snap.matrix.Fingerprint(),
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.RecCacheTotal, logger)
		cachePinger = store
	}

	recommendSvc := recommenduc.New(snap.catalog, finder, cfg.Recommend.ArtistFilter).
		WithBatch(cfg.Recommend.BatchParallelism, cfg.Recommend.MaxBatchSize)
	healthSvc := healthuc.New(snap.index, cachePinger)

	logger.Info("Recommendation service ready",
		zap.Int("tracks", recommendSvc.CatalogSize()),
		zap.String("artist_filter", recommendSvc.ArtistFilter()),
		zap.Int("default_k", cfg.Recommend.DefaultK),
		zap.Int("max_k", cfg.Recommend.MaxK),
	)

	server := chiTransport.NewServer(recommendSvc, healthSvc, logger).
		WithLimits(cfg.Recommend.DefaultK, cfg.Recommend.MaxK)

	r := newRouter(logger, cfg.Auth.APIKeys, server)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
