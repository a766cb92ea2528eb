package domains

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Julesc013/dominium-sub017/sysreg"
)

func TestCursorTakeAdvancesByBudget(t *testing.T) {
	c := NewCursor()
	lo, hi, atEnd := c.Take(10, 4)
	require.Equal(t, 0, lo)
	require.Equal(t, 4, hi)
	require.False(t, atEnd)
	require.Equal(t, 4, c.Pos())

	lo, hi, atEnd = c.Take(10, 4)
	require.Equal(t, 4, lo)
	require.Equal(t, 8, hi)
	require.False(t, atEnd)
}

func TestCursorTakeReachesEndExactly(t *testing.T) {
	c := NewCursor()
	c.Take(10, 8)
	_, hi, atEnd := c.Take(10, 8)
	require.Equal(t, 10, hi)
	require.True(t, atEnd)
}

func TestCursorTakeWrapsWhenPastEnd(t *testing.T) {
	c := NewCursor()
	c.Take(5, 5)
	require.Equal(t, 5, c.Pos())

	lo, hi, atEnd := c.Take(5, 2)
	require.Equal(t, 0, lo)
	require.Equal(t, 2, hi)
	require.False(t, atEnd)
}

func TestCursorTakeEmptyInputIsAlwaysAtEnd(t *testing.T) {
	c := NewCursor()
	lo, hi, atEnd := c.Take(0, 4)
	require.Equal(t, 0, lo)
	require.Equal(t, 0, hi)
	require.True(t, atEnd)
}

func TestCursorResetReturnsToZero(t *testing.T) {
	c := NewCursor()
	c.Take(10, 4)
	c.Reset()
	require.Equal(t, 0, c.Pos())
}

func TestNextDueReturnsNeverOnCompleteCycle(t *testing.T) {
	require.Equal(t, sysreg.TimeActMax, NextDue(5, sysreg.TierMicro, true))
}

func TestNextDueAddsCadenceWhenIncomplete(t *testing.T) {
	want := sysreg.ActTime(5) + sysreg.ActTime(sysreg.DefaultCadence(sysreg.TierMicro))
	require.Equal(t, want, NextDue(5, sysreg.TierMicro, false))
}
