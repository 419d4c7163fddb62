// Package features turns a track catalog into the normalized numeric matrix
// the neighbor index is built over.
package features

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/tracksim/internal/domain"
)

// Normalize min-max scales column into [0,1] and returns a new slice.
// The column minimum maps to exactly 0 and the maximum to exactly 1.
// A constant column has no defined scaling and fails with a ConstantColumnError.
func Normalize(column []float64) ([]float64, error) {
	out := make([]float64, len(column))
	if len(column) == 0 {
		return out, nil
	}

	lo, hi := column[0], column[0]
	for _, v := range column {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %v", domain.ErrInvalidArgument, v)
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return nil, &domain.ConstantColumnError{Value: lo}
	}

	span := hi - lo
	for i, v := range column {
		out[i] = (v - lo) / span
	}
	return out, nil
}
