package gamerules

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Rounding selects which neighbour a parity adapter moves a rejected value to.
type Rounding int

const (
	// RoundNone never proposes a replacement.
	RoundNone Rounding = iota

	// RoundCeiling moves to the next value up.
	RoundCeiling

	// RoundFloor moves to the next value down.
	RoundFloor

	// RoundNearest prefers the ceiling and falls back to the floor when the
	// ceiling would overflow. Both neighbours are equally near.
	RoundNearest
)

// Rounding names as returned by String.
const (
	RoundNoneStr    = "none"
	RoundCeilingStr = "ceiling"
	RoundFloorStr   = "floor"
	RoundNearestStr = "nearest"
)

// String returns the lowercase rounding name.
func (r Rounding) String() string {
	switch r {
	case RoundNone:
		return RoundNoneStr
	case RoundCeiling:
		return RoundCeilingStr
	case RoundFloor:
		return RoundFloorStr
	case RoundNearest:
		return RoundNearestStr
	default:
		return "unknown"
	}
}

// ParseRounding parses a rounding name, ignoring case and surrounding space.
// "round" is accepted as an alias for RoundNearest.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case RoundNoneStr:
		return RoundNone, nil
	case RoundCeilingStr:
		return RoundCeiling, nil
	case RoundFloorStr:
		return RoundFloor, nil
	case RoundNearestStr, "round":
		return RoundNearest, nil
	default:
		return RoundNone, fmt.Errorf("unknown rounding: %q", s)
	}
}

// Even accepts even integers. Odd values are moved by one according to r;
// a move past the type's bounds yields no replacement.
func Even[T constraints.Integer](r Rounding) ValidatorAdapter[T] {
	return parity[T]{even: true, rounding: r}
}

// Odd accepts odd integers. Even values are moved by one according to r;
// a move past the type's bounds yields no replacement.
func Odd[T constraints.Integer](r Rounding) ValidatorAdapter[T] {
	return parity[T]{even: false, rounding: r}
}

type parity[T constraints.Integer] struct {
	even     bool
	rounding Rounding
}

func (p parity[T]) Validate(v T) bool {
	return (v%2 == 0) == p.even
}

func (p parity[T]) Adapt(v T) (T, bool) {
	if p.Validate(v) {
		return v, true
	}
	switch p.rounding {
	case RoundCeiling:
		return up(v)
	case RoundFloor:
		return down(v)
	case RoundNearest:
		if u, ok := up(v); ok {
			return u, true
		}
		return down(v)
	default:
		return v, false
	}
}

// up returns v+1 unless it wraps around.
func up[T constraints.Integer](v T) (T, bool) {
	n := v + 1
	if n < v {
		return v, false
	}
	return n, true
}

// down returns v-1 unless it wraps around.
func down[T constraints.Integer](v T) (T, bool) {
	n := v - 1
	if n > v {
		return v, false
	}
	return n, true
}
