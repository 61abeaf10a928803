package kdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when an index is constructed from zero points.
	ErrEmptyDataset = errors.New("kdtree: dataset is empty")

	// ErrInvalidLeafSize is returned when Config.LeafMaxSize is less than 1.
	ErrInvalidLeafSize = errors.New("kdtree: leaf max size must be >= 1")

	// ErrInvalidDims is returned when points have zero dimensions.
	ErrInvalidDims = errors.New("kdtree: dimensionality must be >= 1")

	// ErrNonFiniteCoordinate is returned when a point has a NaN or infinite
	// coordinate.
	ErrNonFiniteCoordinate = errors.New("kdtree: coordinate is not finite")

	// ErrInvalidK is returned by k-nearest-neighbor queries when k < 1.
	ErrInvalidK = errors.New("kdtree: k must be >= 1")

	// ErrNotBuilt is returned by queries issued before a successful Build.
	ErrNotBuilt = errors.New("kdtree: index has not been built")

	// ErrDimensionMismatch matches any *DimensionMismatchError via errors.Is.
	ErrDimensionMismatch = errors.New("kdtree: dimension mismatch")
)

// DimensionMismatchError reports a point, target or box whose length differs
// from the index dimensionality. Row is the offending input row, or -1 when
// the input is a single query argument.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Row      int
}

func (e *DimensionMismatchError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("kdtree: dimension mismatch at row %d: expected %d, got %d", e.Row, e.Expected, e.Actual)
	}
	return fmt.Sprintf("kdtree: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

func checkDims(expected, actual, row int) error {
	if expected != actual {
		return &DimensionMismatchError{Expected: expected, Actual: actual, Row: row}
	}
	return nil
}
