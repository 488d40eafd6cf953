// Package set provides an unordered collection of unique values
// with the usual set algebra. Two sets are equal when they hold
// the same elements, regardless of insertion order or how many
// times an element was added.
package set

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Set is an unordered collection of unique comparable values.
// The zero value is an empty set ready to use.
type Set[T comparable] struct {
	m map[T]struct{}
}

// Of creates a set holding the given elements. Duplicates are
// collapsed.
func Of[T comparable](items ...T) Set[T] {
	return FromSlice(items)
}

// FromSlice creates a set from the elements of a slice.
func FromSlice[T comparable](items []T) Set[T] {
	s := Set[T]{m: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.m[item] = struct{}{}
	}
	return s
}

// Chars creates a set of the single-character strings in s.
func Chars(s string) Set[string] {
	return FromSlice(strings.Split(s, ""))
}

// Add inserts items into the set.
func (s *Set[T]) Add(items ...T) {
	if s.m == nil {
		s.m = make(map[T]struct{}, len(items))
	}
	for _, item := range items {
		s.m[item] = struct{}{}
	}
}

// Remove deletes items from the set. Missing items are ignored.
func (s *Set[T]) Remove(items ...T) {
	for _, item := range items {
		delete(s.m, item)
	}
}

// Contains reports whether item is a member of the set.
func (s Set[T]) Contains(item T) bool {
	_, ok := s.m[item]
	return ok
}

// Len returns the number of elements.
func (s Set[T]) Len() int { return len(s.m) }

// Clone returns an independent copy of the set.
func (s Set[T]) Clone() Set[T] {
	out := Set[T]{m: make(map[T]struct{}, len(s.m))}
	for item := range s.m {
		out.m[item] = struct{}{}
	}
	return out
}

// Items returns the elements in a deterministic order: sorted by
// their formatted representation.
func (s Set[T]) Items() []T {
	out := make([]T, 0, len(s.m))
	for item := range s.m {
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b T) int {
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
	return out
}

// Difference returns the elements of s that are not in other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	out := Set[T]{m: make(map[T]struct{})}
	for item := range s.m {
		if !other.Contains(item) {
			out.m[item] = struct{}{}
		}
	}
	return out
}

// Union returns the elements that are in either set.
func (s Set[T]) Union(other Set[T]) Set[T] {
	out := s.Clone()
	for item := range other.m {
		out.m[item] = struct{}{}
	}
	return out
}

// Intersection returns the elements that are in both sets.
func (s Set[T]) Intersection(other Set[T]) Set[T] {
	out := Set[T]{m: make(map[T]struct{})}
	for item := range s.m {
		if other.Contains(item) {
			out.m[item] = struct{}{}
		}
	}
	return out
}

// SymmetricDifference returns the elements that are in exactly
// one of the two sets.
func (s Set[T]) SymmetricDifference(other Set[T]) Set[T] {
	return s.Difference(other).Union(other.Difference(s))
}

// IsSubset reports whether every element of s is in other.
func (s Set[T]) IsSubset(other Set[T]) bool {
	if s.Len() > other.Len() {
		return false
	}
	for item := range s.m {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// IsSuperset reports whether every element of other is in s.
func (s Set[T]) IsSuperset(other Set[T]) bool {
	return other.IsSubset(s)
}

// IsProperSubset reports whether s is a subset of other and the
// two sets differ.
func (s Set[T]) IsProperSubset(other Set[T]) bool {
	return s.Len() < other.Len() && s.IsSubset(other)
}

// IsProperSuperset reports whether s is a superset of other and
// the two sets differ.
func (s Set[T]) IsProperSuperset(other Set[T]) bool {
	return other.IsProperSubset(s)
}

// Equal reports whether both sets hold exactly the same
// elements. go-cmp uses this method when comparing sets.
func (s Set[T]) Equal(other Set[T]) bool {
	return s.Len() == other.Len() && s.IsSubset(other)
}

// String renders the set as {a, b, c} in Items order.
func (s Set[T]) String() string {
	items := s.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		if str, ok := any(item).(string); ok {
			parts[i] = fmt.Sprintf("%q", str)
			continue
		}
		parts[i] = fmt.Sprint(item)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the set as a JSON array in Items order.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// MarshalYAML encodes the set as a YAML sequence in Items order.
func (s Set[T]) MarshalYAML() (any, error) {
	return s.Items(), nil
}

// Sorted returns the elements of an ordered set in ascending
// order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	out := make([]T, 0, s.Len())
	for item := range s.m {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}

// Join concatenates the sorted elements of a string set.
func Join(s Set[string], sep string) string {
	return strings.Join(Sorted(s), sep)
}
