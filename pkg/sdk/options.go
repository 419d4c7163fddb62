package tracksim

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogPath   string
	catalogFormat string
	tracks        []Track

	algorithm      string
	leafSize       int
	bruteThreshold int

	artistFilter     string
	batchParallelism int
	maxBatchSize     int

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogFile loads the catalog from a CSV or Parquet file.
// The format is taken from the extension; see WithCatalogFormat.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithCatalogFormat forces "csv" or "parquet" regardless of extension.
func WithCatalogFormat(format string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogFormat = format
	})
}

// WithTracks serves an in-memory catalog instead of a file.
func WithTracks(tracks []Track) Option {
	return optionFunc(func(c *clientConfig) {
		c.tracks = tracks
	})
}

// WithAlgorithm selects "kdtree", "brute" or "auto" (default).
func WithAlgorithm(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.algorithm = name
	})
}

// WithKDTree tunes the tree leaf size and the row count below which auto picks brute force.
func WithKDTree(leafSize, bruteForceThreshold int) Option {
	return optionFunc(func(c *clientConfig) {
		c.leafSize = leafSize
		c.bruteThreshold = bruteForceThreshold
	})
}

// WithArtistFilter sets the literal, case-sensitive artist substring used by Fallback.
func WithArtistFilter(filter string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artistFilter = filter
	})
}

// WithBatch sets batch parallelism and the maximum number of seeds per batch.
// Defaults: 4 and 100.
func WithBatch(parallelism, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchParallelism = parallelism
		c.maxBatchSize = maxSize
	})
}

// WithValkeyCache caches primary-path results in Valkey for ttl.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
