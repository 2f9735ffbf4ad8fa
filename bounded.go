package gamerules

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Bounded accepts values in [lower, upper] and adapts out-of-range values by
// clamping them to the nearest bound. NaN is never accepted.
func Bounded[T constraints.Ordered](lower, upper T) (ValidatorAdapter[T], error) {
	if lower > upper {
		return nil, fmt.Errorf("%w: %s (lower bound %v is greater than upper bound %v)",
			ErrConstruction, ErrCodeBounds, lower, upper)
	}
	return bounded[T]{lower: lower, upper: upper}, nil
}

type bounded[T constraints.Ordered] struct {
	lower, upper T
}

func (b bounded[T]) Validate(v T) bool {
	return v >= b.lower && v <= b.upper
}

func (b bounded[T]) Adapt(v T) (T, bool) {
	switch {
	case v < b.lower:
		return b.lower, true
	case v > b.upper:
		return b.upper, true
	}
	return v, true
}
