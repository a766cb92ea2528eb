// Package detset provides the small deterministic collection helpers the
// core's builders and selectors use for dedup-before-sort work: a generic
// set with a deterministic SortedList so iteration order is never left
// to Go's randomized map order, and a compressed range set (backed by
// github.com/RoaringBitmap/roaring/v2's roaring64) for access-range
// membership and overlap queries over COMPONENT_SET/INTEREST_SET spans.
package detset

import (
	"sort"

	"golang.org/x/exp/maps"
)

const minSetSize = 16

// Set is a set of comparable, ordered elements.
type Set[T Ordered] map[T]struct{}

// Ordered is any type usable with <.
type Ordered interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~string
}

// Of returns a Set initialized with elts.
func Of[T Ordered](elts ...T) Set[T] {
	s := New[T](len(elts))
	s.Add(elts...)
	return s
}

// New returns a new set with initial capacity size.
func New[T Ordered](size int) Set[T] {
	if size < 0 {
		return Set[T]{}
	}
	if size < minSetSize {
		size = minSetSize
	}
	return make(Set[T], size)
}

func (s *Set[T]) resize(size int) {
	if *s == nil {
		if size < minSetSize {
			size = minSetSize
		}
		*s = make(Set[T], size)
	}
}

// Add adds every element to the set.
func (s *Set[T]) Add(elts ...T) {
	s.resize(2 * len(elts))
	for _, e := range elts {
		(*s)[e] = struct{}{}
	}
}

// Contains reports set membership.
func (s Set[T]) Contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

// Len returns the number of elements.
func (s Set[T]) Len() int { return len(s) }

// SortedList returns every element in ascending order. Plain map
// iteration is randomized and unsafe anywhere this module needs
// reproducible output.
func (s Set[T]) SortedList() []T {
	out := maps.Keys(s)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
