package kdtree

import "math"

// Interval is a closed [Low, High] range along one dimension.
type Interval struct {
	Low, High float64
}

// Span returns High - Low.
func (iv Interval) Span() float64 { return iv.High - iv.Low }

// BoundingBox is an axis-aligned box with one Interval per dimension.
// Bounds are inclusive on both ends.
type BoundingBox []Interval

// NewBoundingBox builds a box from per-dimension low and high corners.
// It panics if the slices differ in length.
func NewBoundingBox(low, high []float64) BoundingBox {
	if len(low) != len(high) {
		panic("kdtree: NewBoundingBox: low and high must have the same length")
	}
	return boxFromExtents(low, high)
}

// Dims returns the number of dimensions of the box.
func (b BoundingBox) Dims() int { return len(b) }

// Clone returns an independent copy of b.
func (b BoundingBox) Clone() BoundingBox {
	out := make(BoundingBox, len(b))
	copy(out, b)
	return out
}

// Empty reports whether some dimension has Low > High, in which case the box
// contains no points.
func (b BoundingBox) Empty() bool {
	for _, iv := range b {
		if iv.Low > iv.High {
			return true
		}
	}
	return false
}

// Contains reports whether p lies inside b in every dimension.
func (b BoundingBox) Contains(p []float64) bool {
	for d, iv := range b {
		if p[d] < iv.Low || p[d] > iv.High {
			return false
		}
	}
	return true
}

// Intersects reports whether b and o overlap in every dimension.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	for d, iv := range b {
		if iv.High < o[d].Low || iv.Low > o[d].High {
			return false
		}
	}
	return true
}

// MinSquaredDistance returns a lower bound on the squared Euclidean distance
// from p to any point inside b: the sum over dimensions of the squared gap to
// the nearest face, zero along dimensions where p lies within the interval.
func (b BoundingBox) MinSquaredDistance(p []float64) float64 {
	var sum float64
	for d, iv := range b {
		sum += axisGap(p[d], iv.Low, iv.High)
	}
	return sum
}

// axisGap is the squared distance from v to [lo, hi] along one axis.
func axisGap(v, lo, hi float64) float64 {
	if v < lo {
		return (lo - v) * (lo - v)
	}
	if v > hi {
		return (v - hi) * (v - hi)
	}
	return 0
}

// computeExtents writes the tight per-dimension min/max of the points in
// perm[start:end] into low and high (each of length dims).
func computeExtents(data []float64, dims int, perm []int, start, end int, low, high []float64) {
	for d := 0; d < dims; d++ {
		low[d] = math.Inf(1)
		high[d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		base := perm[i] * dims
		for d := 0; d < dims; d++ {
			v := data[base+d]
			if v < low[d] {
				low[d] = v
			}
			if v > high[d] {
				high[d] = v
			}
		}
	}
}

// boxFromExtents copies flat low/high slices into a new BoundingBox.
func boxFromExtents(low, high []float64) BoundingBox {
	box := make(BoundingBox, len(low))
	for d := range low {
		box[d] = Interval{Low: low[d], High: high[d]}
	}
	return box
}
