package tracksim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbValkey "github.com/kailas-cloud/tracksim/internal/db/valkey"
	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
	"github.com/kailas-cloud/tracksim/internal/features"
	"github.com/kailas-cloud/tracksim/internal/neighbors"
	catalogrepo "github.com/kailas-cloud/tracksim/internal/repository/catalog"
	"github.com/kailas-cloud/tracksim/internal/repository/reccache"
	healthuc "github.com/kailas-cloud/tracksim/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tracksim/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type recommendUseCase interface {
	Similar(ctx context.Context, seedID string, k int) ([]recommendation.Recommendation, error)
	Fallback(ctx context.Context, seedID string, k int) ([]recommendation.Recommendation, error)
	RecommendBatch(ctx context.Context, seeds []string, k int, useFallback bool) ([]recommenduc.BatchItem, error)
	Track(id string) (track.Track, error)
	FindByTitle(title string) ([]track.Track, error)
	CatalogSize() int
}

// Client is the tracksim SDK entry point.
type Client struct {
	recommend recommendUseCase
	healthSvc healthUseCase
	closeFn   func()
	obs       *observer
}

// Open loads the catalog, builds the index and optionally connects the cache.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m, err := features.Build(c)
	if err != nil {
		return nil, fmt.Errorf("tracksim: build features: %w", err)
	}

	algo, err := neighbors.ParseAlgorithm(cfg.algorithm)
	if err != nil {
		return nil, fmt.Errorf("tracksim: %w", err)
	}
	idx, err := neighbors.Build(m, neighbors.Options{
		Algorithm:           algo,
		LeafSize:            cfg.leafSize,
		BruteForceThreshold: cfg.bruteThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("tracksim: build index: %w", err)
	}

	var (
		finder      recommenduc.Finder = recommenduc.NewIndexFinder(m, idx)
		cachePinger healthuc.CachePinger
		closeFn     = func() {}
	)
	if len(cfg.cacheAddrs) > 0 {
		store, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			return nil, fmt.Errorf("tracksim: cache: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("tracksim: cache not ready: %w", err)
		}
		finder = reccache.New(finder, store, m.Fingerprint(), cfg.cacheTTL, nil, zap.NewNop())
		cachePinger = store
		closeFn = store.Close
	}

	svc := recommenduc.New(c, finder, cfg.artistFilter).WithBatch(cfg.batchParallelism, cfg.maxBatchSize)

	return &Client{
		recommend: svc,
		healthSvc: healthuc.New(idx, cachePinger),
		closeFn:   closeFn,
		obs:       obs,
	}, nil
}

func loadCatalog(ctx context.Context, cfg *clientConfig) (*catalog.Catalog, error) {
	switch {
	case cfg.catalogPath != "" && cfg.tracks != nil:
		return nil, errors.New("tracksim: WithCatalogFile and WithTracks are mutually exclusive")
	case cfg.catalogPath != "":
		format, err := catalogrepo.ParseFormat(cfg.catalogFormat)
		if err != nil {
			return nil, fmt.Errorf("tracksim: %w", err)
		}
		c, err := catalogrepo.Load(ctx, cfg.catalogPath, format)
		if err != nil {
			return nil, fmt.Errorf("tracksim: load catalog: %w", err)
		}
		return c, nil
	case cfg.tracks != nil:
		tracks := make([]track.Track, len(cfg.tracks))
		for i := range cfg.tracks {
			in := &cfg.tracks[i]
			t, err := track.New(in.ID, in.Name, in.Artists, in.ReleaseDate, in.Features.vector())
			if err != nil {
				return nil, fmt.Errorf("tracksim: track %d: %w", i, err)
			}
			tracks[i] = t
		}
		c, err := catalog.New(tracks)
		if err != nil {
			return nil, fmt.Errorf("tracksim: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("tracksim: catalog source required (use WithCatalogFile or WithTracks): %w",
			domain.ErrInvalidArgument)
	}
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Len returns the number of tracks served.
func (c *Client) Len() int { return c.recommend.CatalogSize() }

// Recommend returns up to k identifiers for a seed on the chosen path.
func (c *Client) Recommend(ctx context.Context, seedID string, k int, useFallback bool) ([]string, error) {
	var (
		recs []Recommendation
		err  error
	)
	if useFallback {
		recs, err = c.Fallback(ctx, seedID, k)
	} else {
		recs, err = c.Similar(ctx, seedID, k)
	}
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out, nil
}

// Similar returns the k tracks nearest to the seed, seed excluded, by ascending distance.
func (c *Client) Similar(ctx context.Context, seedID string, k int) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("similar", start, err) }()

	recs, err := c.recommend.Similar(ctx, seedID, k)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	return c.enrich(recs), nil
}

// Fallback returns the least popular tracks matching the artist filter.
func (c *Client) Fallback(ctx context.Context, seedID string, k int) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("fallback", start, err) }()

	recs, err := c.recommend.Fallback(ctx, seedID, k)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	return c.enrich(recs), nil
}

// RecommendBatch answers several seeds concurrently, preserving input order.
func (c *Client) RecommendBatch(
	ctx context.Context, seeds []string, k int, useFallback bool,
) (_ []BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("batch", start, err) }()

	items, err := c.recommend.RecommendBatch(ctx, seeds, k, useFallback)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	out := make([]BatchResult, len(items))
	for i, it := range items {
		out[i] = BatchResult{SeedID: it.SeedID, Recommendations: c.enrich(it.Recommendations)}
	}
	return out, nil
}

// Track returns catalog metadata and raw features.
func (c *Client) Track(id string) (Track, error) {
	t, err := c.recommend.Track(id)
	if err != nil {
		return Track{}, fmt.Errorf("track: %w", err)
	}
	return trackFrom(&t), nil
}

// FindByTitle lists tracks whose name matches title case-insensitively.
func (c *Client) FindByTitle(title string) ([]Track, error) {
	found, err := c.recommend.FindByTitle(title)
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	out := make([]Track, len(found))
	for i := range found {
		out[i] = trackFrom(&found[i])
	}
	return out, nil
}

func (c *Client) enrich(recs []recommendation.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{ID: r.ID, Distance: r.Distance, Fallback: r.Path == recommendation.Fallback}
		if t, err := c.recommend.Track(r.ID); err == nil {
			out[i].Name = t.Name()
			out[i].Artists = t.Artists()
		}
	}
	return out
}
