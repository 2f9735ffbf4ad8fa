package gamerules

import (
	"context"
	"errors"
	"time"
)

// Validator is a pure acceptance predicate for a candidate rule value.
// It may be called several times per acceptance attempt and must not have side effects.
type Validator[T any] func(candidate T) bool

// Validate reports whether the candidate is acceptable.
func (v Validator[T]) Validate(candidate T) bool {
	return v(candidate)
}

// And accepts a value iff both validators accept it.
func (v Validator[T]) And(other Validator[T]) Validator[T] {
	return func(t T) bool { return v(t) && other(t) }
}

// Or accepts a value iff either validator accepts it.
func (v Validator[T]) Or(other Validator[T]) Validator[T] {
	return func(t T) bool { return v(t) || other(t) }
}

// Xor accepts a value iff exactly one of the validators accepts it.
func (v Validator[T]) Xor(other Validator[T]) Validator[T] {
	return func(t T) bool { return v(t) != other(t) }
}

// Not inverts the validator.
func (v Validator[T]) Not() Validator[T] {
	return func(t T) bool { return !v(t) }
}

// AlwaysTrue returns a validator accepting every value of T.
func AlwaysTrue[T any]() Validator[T] {
	return func(T) bool { return true }
}

// Adapter proposes a single replacement for a rejected candidate.
// The boolean result is false when the candidate cannot be coerced.
type Adapter[T any] func(rejected T) (T, bool)

// Adapt returns the replacement candidate, if any.
func (a Adapter[T]) Adapt(rejected T) (T, bool) {
	return a(rejected)
}

// And chains two adapters: the output of a is fed to other.
// The chain stops as soon as one adapter declines.
func (a Adapter[T]) And(other Adapter[T]) Adapter[T] {
	return func(t T) (T, bool) {
		r, ok := a(t)
		if !ok {
			return r, false
		}
		return other(r)
	}
}

// Identity returns an adapter that hands the value back unchanged.
// With it the pipeline degenerates to validator-only gating.
func Identity[T any]() Adapter[T] {
	return func(t T) (T, bool) { return t, true }
}

// Reject returns an adapter that never proposes a replacement.
func Reject[T any]() Adapter[T] {
	return func(t T) (T, bool) {
		var zero T
		return zero, false
	}
}

// ValidatorAdapter bundles a validator and its matching adapter.
type ValidatorAdapter[T any] interface {
	Validate(candidate T) bool
	Adapt(rejected T) (T, bool)
}

type combined[T any] struct {
	validator Validator[T]
	adapter   Adapter[T]
}

func (c combined[T]) Validate(candidate T) bool { return c.validator(candidate) }
func (c combined[T]) Adapt(rejected T) (T, bool) { return c.adapter(rejected) }

// Combine bundles a validator and an adapter into a ValidatorAdapter.
func Combine[T any](v Validator[T], a Adapter[T]) ValidatorAdapter[T] {
	return combined[T]{validator: v, adapter: a}
}

// Server is the opaque host handle handed to change callbacks. It may be nil.
type Server = any

// ChangeCallback is invoked after a player or operator action commits a new value.
type ChangeCallback[T any] func(server Server, rule *Rule[T])

// NoopCallback ignores every change.
func NoopCallback[T any]() ChangeCallback[T] {
	return func(Server, *Rule[T]) {}
}

// Source supplies rule overrides keyed by rule name. Values are scalars
// (string, bool, integer or float) as decoded from the backing store.
type Source interface {
	// Load returns the current overrides.
	Load(ctx context.Context) (map[string]any, error)

	// Watch emits a ChangeEvent whenever the backing store changes.
	// Sources that cannot watch return ErrWatchNotSupported.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)

	// Name identifies the source in provenance (e.g., "file:rules.yaml").
	Name() string
}

// SourceWithKeys is implemented by sources that can report the original key
// each override was read from, such as the environment variable name.
type SourceWithKeys interface {
	Source
	LoadWithKeys(ctx context.Context) (values map[string]any, originalKeys map[string]string, err error)
}

// ChangeEvent notifies that a source changed.
type ChangeEvent struct {
	At    time.Time
	Cause string // Description (e.g., "file:rules.yaml write")
}

// ErrWatchNotSupported is returned by sources that cannot watch for changes.
var ErrWatchNotSupported = errors.New("gamerules: watch not supported by this source")
