// Package workqueue implements the bounded sorted work queue that every
// scheduler-owned queue in the core uses: sorted insert, stable pop, and
// deterministic merge.
package workqueue

import (
	"sort"

	"github.com/Julesc013/dominium-sub017/detcode"
	"github.com/Julesc013/dominium-sub017/orderkey"
)

// Queue is a bounded ordered array of work items.
type Queue struct {
	items        []orderkey.Item
	capacity     int
	ownsStorage  bool
	probeRefused uint64
}

// New returns an empty queue with the given bounded capacity.
func New(capacity int) *Queue {
	return &Queue{
		items:       make([]orderkey.Item, 0, capacity),
		capacity:    capacity,
		ownsStorage: true,
	}
}

func (q *Queue) Count() int            { return len(q.items) }
func (q *Queue) Capacity() int         { return q.capacity }
func (q *Queue) ProbeRefused() uint64  { return q.probeRefused }
func (q *Queue) OwnsStorage() bool     { return q.ownsStorage }

func (q *Queue) upperBound(key orderkey.Key) int {
	return sort.Search(len(q.items), func(i int) bool {
		return orderkey.Less(key, q.items[i].Key)
	})
}

// Push inserts item at the upper bound of its key (ties preserve insertion
// order). On overflow, state is unchanged and ProbeRefused is
// incremented; a refusal is a signal, never silent loss.
func (q *Queue) Push(item orderkey.Item) detcode.Code {
	if len(q.items) >= q.capacity {
		q.probeRefused++
		return detcode.CapacityExceeded
	}
	idx := q.upperBound(item.Key)
	q.items = append(q.items, orderkey.Item{})
	copy(q.items[idx+1:], q.items[idx:len(q.items)-1])
	q.items[idx] = item
	return detcode.OK
}

// PopNext removes and returns the first item, reporting whether a pop
// occurred.
func (q *Queue) PopNext() (orderkey.Item, bool) {
	if len(q.items) == 0 {
		return orderkey.Item{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// PeekNext is a read-only view of the first item.
func (q *Queue) PeekNext() (orderkey.Item, bool) {
	if len(q.items) == 0 {
		return orderkey.Item{}, false
	}
	return q.items[0], true
}

// At is a read-only view of the item at index i.
func (q *Queue) At(i int) (orderkey.Item, bool) {
	if i < 0 || i >= len(q.items) {
		return orderkey.Item{}, false
	}
	return q.items[i], true
}

// IsSorted reports whether the items array is strictly non-decreasing by
// order key — the invariant every push/pop/merge must preserve. Debug
// builds (callers wiring this under a build tag or test) assert this
// after every mutation; the queue itself maintains it structurally so
// the assertion is expected to always hold.
func (q *Queue) IsSorted() bool {
	for i := 1; i < len(q.items); i++ {
		if orderkey.Less(q.items[i].Key, q.items[i-1].Key) {
			return false
		}
	}
	return true
}

// Merge consumes src in canonical order and pushes each item into dst. On
// dst overflow, unmoved src items remain in src (in their original
// relative order) and dst's probe_refused is credited the exact number of
// refused items.
func Merge(dst, src *Queue) detcode.Code {
	consumed := 0
	for consumed < len(src.items) {
		item := src.items[consumed]
		if code := dst.Push(item); !code.Ok() {
			break
		}
		consumed++
	}
	remaining := len(src.items) - consumed
	src.items = src.items[consumed:]
	if remaining > 0 {
		// The failed Push credited the first refused item already; the
		// rest were never attempted but count as refused all the same.
		dst.probeRefused += uint64(remaining - 1)
		return detcode.CapacityExceeded
	}
	return detcode.OK
}
