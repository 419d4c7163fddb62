package neighbors

import "math"

// squaredL2 is the squared Euclidean distance. Callers guarantee equal lengths.
func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean returns the L2 distance between two equal-length vectors.
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(squaredL2(a, b))
}
