// Package reccache caches primary-path recommendations in a key-value store.
package reccache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/db"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/usecase/recommend"
)

const keyPrefix = "tracksim:rec:"

// store is the consumer interface for the recommendation cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var _ recommend.Finder = (*CachedFinder)(nil)

// CachedFinder decorates a recommend.Finder with a read-through cache.
// Entries are keyed by the feature matrix fingerprint, so a new catalog
// snapshot never reads results computed for an older one.
type CachedFinder struct {
	inner       recommend.Finder
	store       store
	fingerprint string
	ttl         time.Duration
	cacheTotal  *prometheus.CounterVec
	logger      *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	inner recommend.Finder,
	s store,
	fingerprint string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFinder {
	return &CachedFinder{
		inner:       inner,
		store:       s,
		fingerprint: fingerprint,
		ttl:         ttl,
		cacheTotal:  cacheTotal,
		logger:      logger,
	}
}

// Nearest returns cached neighbors or computes and stores them.
// Store failures are logged and bypassed; only inner errors are returned.
func (c *CachedFinder) Nearest(ctx context.Context, seedID string, k int) ([]recommendation.Recommendation, error) {
	key := c.key(seedID, k)

	if recs, ok := c.get(ctx, key); ok {
		c.inc("hit")
		return recs, nil
	}
	c.inc("miss")

	recs, err := c.inner.Nearest(ctx, seedID, k)
	if err != nil {
		return nil, fmt.Errorf("nearest %s: %w", seedID, err)
	}

	c.put(ctx, key, recs)
	return recs, nil
}

func (c *CachedFinder) key(seedID string, k int) string {
	return keyPrefix + c.fingerprint + ":" + seedID + ":" + strconv.Itoa(k)
}

func (c *CachedFinder) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedFinder) get(ctx context.Context, key string) ([]recommendation.Recommendation, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var recs []recommendation.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	for _, r := range recs {
		if !r.Path.IsValid() {
			c.logger.Warn("Cached recommendations carry unknown path", zap.String("key", key), zap.String("path", string(r.Path)))
			return nil, false
		}
	}
	return recs, true
}

func (c *CachedFinder) put(ctx context.Context, key string, recs []recommendation.Recommendation) {
	data, err := json.Marshal(recs)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}
