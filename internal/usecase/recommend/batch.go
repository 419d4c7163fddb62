package recommend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
)

// BatchItem holds the recommendations for one seed of a batch.
type BatchItem struct {
	SeedID          string
	Recommendations []recommendation.Recommendation
}

// RecommendBatch answers several seeds concurrently, preserving input order.
// The first failing seed cancels the remaining work and its error is returned.
func (s *Service) RecommendBatch(
	ctx context.Context, seeds []string, k int, useFallback bool,
) ([]BatchItem, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: at least one seed is required", domain.ErrInvalidArgument)
	}
	if len(seeds) > s.maxBatch {
		return nil, fmt.Errorf("%w: batch of %d seeds exceeds limit %d",
			domain.ErrInvalidArgument, len(seeds), s.maxBatch)
	}

	items := make([]BatchItem, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("seed %q: %w", seed, err)
			}
			var (
				recs []recommendation.Recommendation
				err  error
			)
			if useFallback {
				recs, err = s.Fallback(gctx, seed, k)
			} else {
				recs, err = s.Similar(gctx, seed, k)
			}
			if err != nil {
				return err
			}
			items[i] = BatchItem{SeedID: seed, Recommendations: recs}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return items, nil
}
