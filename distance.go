package kdtree

import "math"

// SquaredDistance returns the squared Euclidean distance between a and b.
// Both slices must have the same length. All pruning and ranking inside the
// index is done on this value; no square root is ever taken internally.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Distance returns the Euclidean (L2) distance between a and b.
func Distance(a, b []float64) float64 {
	return math.Sqrt(SquaredDistance(a, b))
}
