package recommend

import (
	"context"

	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/neighbors"
)

// Finder answers the primary path: the k tracks nearest to a seed, seed excluded.
// The cache decorator in repository/reccache implements it too.
type Finder interface {
	Nearest(ctx context.Context, seedID string, k int) ([]recommendation.Recommendation, error)
}

// FeatureRows is the read side of the feature matrix.
type FeatureRows interface {
	Row(i int) []float64
	RowOf(id string) (int, bool)
}

// NeighborSearcher is the read side of a neighbor index.
type NeighborSearcher interface {
	Search(query []float64, k int) ([]neighbors.Neighbor, error)
	Len() int
}
