package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// Batch defaults.
const (
	DefaultBatchParallelism = 4
	DefaultMaxBatchSize     = 100
)

// Service answers recommendation queries against one immutable catalog snapshot.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	catalog      *catalog.Catalog
	finder       Finder
	artistFilter string
	parallelism  int
	maxBatch     int
}

// New creates a recommendation service.
// artistFilter is the literal substring the fallback path matches against the artist field.
func New(c *catalog.Catalog, finder Finder, artistFilter string) *Service {
	return &Service{
		catalog:      c,
		finder:       finder,
		artistFilter: artistFilter,
		parallelism:  DefaultBatchParallelism,
		maxBatch:     DefaultMaxBatchSize,
	}
}

// WithBatch overrides batch parallelism and maximum batch size. Non-positive values keep defaults.
func (s *Service) WithBatch(parallelism, maxBatch int) *Service {
	if parallelism > 0 {
		s.parallelism = parallelism
	}
	if maxBatch > 0 {
		s.maxBatch = maxBatch
	}
	return s
}

// ArtistFilter returns the configured fallback filter.
func (s *Service) ArtistFilter() string { return s.artistFilter }

// Recommend returns up to k track identifiers for a seed.
// useFallback=false ranks by feature distance; true ignores the index and
// returns the configured artist's least popular tracks.
func (s *Service) Recommend(ctx context.Context, seedID string, k int, useFallback bool) ([]string, error) {
	var (
		recs []recommendation.Recommendation
		err  error
	)
	if useFallback {
		recs, err = s.Fallback(ctx, seedID, k)
	} else {
		recs, err = s.Similar(ctx, seedID, k)
	}
	if err != nil {
		return nil, err
	}
	return recommendation.IDs(recs), nil
}

// Similar runs the primary path and keeps distances.
// Output length is min(k, catalog size - 1), in non-decreasing distance.
func (s *Service) Similar(ctx context.Context, seedID string, k int) ([]recommendation.Recommendation, error) {
	if err := s.validate(seedID, k); err != nil {
		return nil, err
	}
	recs, err := s.finder.Nearest(ctx, seedID, k)
	if err != nil {
		return nil, fmt.Errorf("nearest to %q: %w", seedID, err)
	}
	return recs, nil
}

// Fallback runs the artist filter + popularity sort path.
// The seed must exist but does not influence the result.
func (s *Service) Fallback(_ context.Context, seedID string, k int) ([]recommendation.Recommendation, error) {
	if err := s.validate(seedID, k); err != nil {
		return nil, err
	}
	return popularByArtist(s.catalog, s.artistFilter, k), nil
}

// Track returns catalog metadata for an identifier.
func (s *Service) Track(id string) (track.Track, error) {
	if s.catalog == nil || s.catalog.IsEmpty() {
		return track.Track{}, domain.ErrEmptyCatalog
	}
	t, err := s.catalog.Get(id)
	if err != nil {
		return track.Track{}, fmt.Errorf("get track: %w", err)
	}
	return t, nil
}

// FindByTitle lists tracks whose name matches title case-insensitively, in catalog order.
func (s *Service) FindByTitle(title string) ([]track.Track, error) {
	if s.catalog == nil || s.catalog.IsEmpty() {
		return nil, domain.ErrEmptyCatalog
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	return s.catalog.FindByName(title), nil
}

// CatalogSize returns the number of tracks served.
func (s *Service) CatalogSize() int {
	if s.catalog == nil {
		return 0
	}
	return s.catalog.Len()
}

func (s *Service) validate(seedID string, k int) error {
	if s.catalog == nil || s.catalog.IsEmpty() {
		return domain.ErrEmptyCatalog
	}
	if k <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}
	if _, ok := s.catalog.Position(seedID); !ok {
		return fmt.Errorf("seed %q: %w", seedID, domain.ErrNotFound)
	}
	return nil
}
