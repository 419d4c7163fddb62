// Package neighbors provides exact K-nearest-neighbor search over a frozen
// feature matrix.
//
// Two implementations share one contract:
//
//   - KDTree: median-split k-d tree, O(n log n) build, O(log n) average query.
//   - BruteForce: linear scan, the reference the tree is checked against.
//
// Both use Euclidean distance and order results by (distance, identifier),
// so equal-distance candidates come back in the same order from either one.
package neighbors

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain"
)

// Source is the read-only row store an index is built over.
// *features.Matrix satisfies it.
type Source interface {
	Len() int
	Dim() int
	Row(i int) []float64
	ID(i int) string
}

// Neighbor is a single search hit.
type Neighbor struct {
	Row      int
	ID       string
	Distance float64
}

// Index answers K-nearest-neighbor queries. Implementations are immutable
// after construction and safe for concurrent use.
type Index interface {
	// Search returns up to k rows closest to query in ascending
	// (distance, ID) order. k >= Len returns every row; k <= 0 returns none.
	Search(query []float64, k int) ([]Neighbor, error)
	Len() int
	Name() string
}

// Algorithm selects an index implementation.
type Algorithm string

const (
	// AlgorithmAuto picks brute force below Options.BruteForceThreshold rows, KD-tree otherwise.
	AlgorithmAuto Algorithm = "auto"
	// AlgorithmKDTree always builds a KD-tree.
	AlgorithmKDTree Algorithm = "kdtree"
	// AlgorithmBrute always uses a linear scan.
	AlgorithmBrute Algorithm = "brute"
)

// ParseAlgorithm parses a configured algorithm name (case-insensitive; empty means auto).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlgorithmAuto, nil
	case AlgorithmAuto, AlgorithmKDTree, AlgorithmBrute:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown index algorithm %q", domain.ErrInvalidArgument, s)
	}
}

// Default build parameters.
const (
	DefaultLeafSize            = 16
	DefaultBruteForceThreshold = 10000
)

// Options configures Build.
type Options struct {
	Algorithm           Algorithm
	LeafSize            int
	BruteForceThreshold int
}

// DefaultOptions returns auto selection with the default tree parameters.
func DefaultOptions() Options {
	return Options{
		Algorithm:           AlgorithmAuto,
		LeafSize:            DefaultLeafSize,
		BruteForceThreshold: DefaultBruteForceThreshold,
	}
}

// Build validates src and constructs the configured index.
func Build(src Source, opts Options) (Index, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	if opts.BruteForceThreshold <= 0 {
		opts.BruteForceThreshold = DefaultBruteForceThreshold
	}

	switch opts.Algorithm {
	case AlgorithmBrute:
		return newBruteForce(src), nil
	case AlgorithmKDTree:
		return newKDTree(src, opts.LeafSize), nil
	case AlgorithmAuto, "":
		if src.Len() < opts.BruteForceThreshold {
			return newBruteForce(src), nil
		}
		return newKDTree(src, opts.LeafSize), nil
	default:
		return nil, fmt.Errorf("%w: unknown index algorithm %q", domain.ErrInvalidArgument, opts.Algorithm)
	}
}

// validateSource rejects inputs that cannot back a meaningful index:
// no rows at all, a single row (nothing to recommend), or ragged rows.
func validateSource(src Source) error {
	if src == nil || src.Len() == 0 {
		return domain.ErrEmptyCatalog
	}
	if src.Len() < 2 {
		return fmt.Errorf("%w: need at least 2 rows, got %d", domain.ErrIndexBuild, src.Len())
	}
	dim := src.Dim()
	if dim <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", domain.ErrIndexBuild, dim)
	}
	for i := 0; i < src.Len(); i++ {
		if len(src.Row(i)) != dim {
			return fmt.Errorf("%w: row %d has width %d, want %d", domain.ErrIndexBuild, i, len(src.Row(i)), dim)
		}
	}
	return nil
}

func checkQuery(src Source, query []float64) error {
	if len(query) != src.Dim() {
		return fmt.Errorf("%w: query dimension %d, index dimension %d",
			domain.ErrInvalidArgument, len(query), src.Dim())
	}
	return nil
}
