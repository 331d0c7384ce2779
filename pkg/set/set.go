package set

import (
	"fmt"
	"sort"
	"strings"
)

type Set[T comparable] map[T]struct{}

func SetOf[T comparable](vs ...T) Set[T] {
	s := make(Set[T])
	s.Add(vs...)
	return s
}

func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

// ToSlice returns the members in no particular order.
func (s Set[T]) ToSlice() []T {
	slice := make([]T, 0, len(s))
	for k := range s {
		slice = append(slice, k)
	}
	return slice
}

// String renders the members sorted so the output is stable in logs.
func (s Set[T]) String() string {
	members := make([]string, 0, len(s))
	for k := range s {
		members = append(members, fmt.Sprintf("%v", k))
	}
	sort.Strings(members)
	return "{" + strings.Join(members, ", ") + "}"
}
