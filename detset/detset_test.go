package detset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetSortedListIsDeterministicRegardlessOfInsertOrder(t *testing.T) {
	a := Of(3, 1, 2)
	b := Of(1, 2, 3)
	require.Equal(t, []int{1, 2, 3}, a.SortedList())
	require.Equal(t, a.SortedList(), b.SortedList())
}

func TestSetContainsAndLen(t *testing.T) {
	s := New[string](0)
	s.Add("a", "b")
	require.True(t, s.Contains("a"))
	require.False(t, s.Contains("z"))
	require.Equal(t, 2, s.Len())
}

func TestRangeSetAddRangeAndContains(t *testing.T) {
	r := NewRangeSet()
	r.AddRange(10, 12)
	require.True(t, r.Contains(10))
	require.True(t, r.Contains(11))
	require.True(t, r.Contains(12))
	require.False(t, r.Contains(13))
	require.Equal(t, uint64(3), r.Cardinality())
}

func TestRangeSetAddRangeRejectsInvertedRange(t *testing.T) {
	r := NewRangeSet()
	r.AddRange(5, 3)
	require.Equal(t, uint64(0), r.Cardinality())
}

func TestRangeSetOverlapsDetectsSharedIDs(t *testing.T) {
	a := NewRangeSet()
	a.AddRange(1, 5)
	b := NewRangeSet()
	b.AddRange(5, 10)
	require.True(t, a.Overlaps(b))

	c := NewRangeSet()
	c.AddRange(100, 200)
	require.False(t, a.Overlaps(c))
}

func TestRangeSetHandlesMaxUint64Endpoint(t *testing.T) {
	r := NewRangeSet()
	r.AddRange(^uint64(0)-1, ^uint64(0))
	require.True(t, r.Contains(^uint64(0)-1))
	require.True(t, r.Contains(^uint64(0)))
	require.Equal(t, uint64(2), r.Cardinality())
}
