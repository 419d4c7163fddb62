package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/config"
	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/features"
	"github.com/kailas-cloud/tracksim/internal/metrics"
	"github.com/kailas-cloud/tracksim/internal/neighbors"
	catalogrepo "github.com/kailas-cloud/tracksim/internal/repository/catalog"
)

// snapshot is the immutable state one process serves.
type snapshot struct {
	catalog *catalog.Catalog
	matrix  *features.Matrix
	index   neighbors.Index
}

// buildSnapshot loads the catalog, normalizes features and builds the neighbor index.
func buildSnapshot(ctx context.Context, cfg config.Config, logger *zap.Logger) (*snapshot, error) {
	format, err := catalogrepo.ParseFormat(cfg.Catalog.Format)
	if err != nil {
		return nil, fmt.Errorf("catalog format: %w", err)
	}
	algo, err := neighbors.ParseAlgorithm(cfg.Index.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("index algorithm: %w", err)
	}

	start := time.Now()
	c, err := catalogrepo.Load(ctx, cfg.Catalog.Path, format)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.CatalogTracks.Set(float64(c.Len()))
	logger.Info("Catalog loaded",
		zap.Int("tracks", c.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	m, err := features.Build(c)
	if err != nil {
		return nil, fmt.Errorf("build feature matrix: %w", err)
	}

	start = time.Now()
	idx, err := neighbors.Build(m, neighbors.Options{
		Algorithm:           algo,
		LeafSize:            cfg.Index.LeafSize,
		BruteForceThreshold: cfg.Index.BruteForceThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	elapsed := time.Since(start)
	metrics.IndexBuildSeconds.Set(elapsed.Seconds())
	logger.Info("Neighbor index built",
		zap.String("index", idx.Name()),
		zap.Int("rows", idx.Len()),
		zap.String("fingerprint", m.Fingerprint()),
		zap.Duration("elapsed", elapsed),
	)

	return &snapshot{catalog: c, matrix: m, index: idx}, nil
}
