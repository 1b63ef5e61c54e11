package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeatingLayout_Contains(t *testing.T) {
	ragged := SeatingLayout{RowConfig: map[int]int{1: 10, 2: 4}, Rows: 2, Cols: 10, Resolved: true}
	require.True(t, ragged.Contains(1, 10))
	require.True(t, ragged.Contains(2, 4))
	require.False(t, ragged.Contains(2, 5))
	require.False(t, ragged.Contains(3, 1))
	require.False(t, ragged.Contains(0, 1))

	grid := SeatingLayout{Rows: 3, Cols: 5, Resolved: true}
	require.True(t, grid.Contains(3, 5))
	require.False(t, grid.Contains(3, 6))
	require.False(t, grid.Contains(1, 0))
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.FixedZone("IST", 19800))
	s := FormatTime(ts)
	require.Equal(t, "2024-03-01T04:00:00.123Z", s)
	require.True(t, ParseTime(s).Equal(ts.Truncate(time.Millisecond)))
	require.True(t, ParseTime("garbage").IsZero())
}
