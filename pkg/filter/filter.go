package filter

import "strings"

type (
	// Predicate reports whether a value passes.
	Predicate[T any] func(v T) bool

	// Filter keeps the values matching Predicate in input order.
	Filter[T any] struct {
		Predicate Predicate[T]
	}
)

// New returns a Filter matching values that satisfy every predicate.
func New[T any](predicates ...Predicate[T]) Filter[T] {
	return Filter[T]{Predicate: AllOf(predicates...)}
}

func (f Filter[T]) Apply(inputs ...T) []T {
	result := make([]T, 0, len(inputs))
	for _, input := range inputs {
		if f.Predicate(input) {
			result = append(result, input)
		}
	}
	return result
}

func (f Filter[T]) Find(inputs ...T) (T, bool) {
	for _, input := range inputs {
		if f.Predicate(input) {
			return input, true
		}
	}
	var zero T
	return zero, false
}

func Not[T any](p Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return !p(v)
	}
}

// AllOf is true when no predicate is false, so an empty list matches everything.
func AllOf[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range predicates {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

func AnyOf[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range predicates {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// KeyHasPrefix matches values whose key starts with prefix.
func KeyHasPrefix[T any](key func(T) string, prefix string) Predicate[T] {
	return func(v T) bool {
		return strings.HasPrefix(key(v), prefix)
	}
}
