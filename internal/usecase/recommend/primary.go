package recommend

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
)

// IndexFinder runs nearest-neighbor queries against a built index.
type IndexFinder struct {
	rows  FeatureRows
	index NeighborSearcher
}

var _ Finder = (*IndexFinder)(nil)

// NewIndexFinder creates the primary-path finder.
func NewIndexFinder(rows FeatureRows, index NeighborSearcher) *IndexFinder {
	return &IndexFinder{rows: rows, index: index}
}

// Nearest queries k+1 neighbors of the seed row and drops the seed itself,
// which is always among the closest at distance 0.
func (f *IndexFinder) Nearest(
	_ context.Context, seedID string, k int,
) ([]recommendation.Recommendation, error) {
	row, ok := f.rows.RowOf(seedID)
	if !ok {
		return nil, fmt.Errorf("seed %q: %w", seedID, domain.ErrNotFound)
	}

	// Clamp before adding one so k = math.MaxInt cannot overflow.
	want := f.index.Len()
	if k < want {
		want = k + 1
	}
	hits, err := f.index.Search(f.rows.Row(row), want)
	if err != nil {
		return nil, fmt.Errorf("search neighbors: %w", err)
	}

	out := make([]recommendation.Recommendation, 0, min(k, len(hits)))
	for _, h := range hits {
		if h.ID == seedID {
			continue
		}
		if len(out) == k {
			break
		}
		out = append(out, recommendation.Recommendation{
			ID:       h.ID,
			Distance: h.Distance,
			Path:     recommendation.Primary,
		})
	}
	return out, nil
}
