package seat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		got, err := RowLabel(tt.index)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "index %d", tt.index)

		back, err := RowIndex(got)
		require.NoError(t, err)
		require.Equal(t, tt.index, back)
	}
}

func TestRowLabel_Invalid(t *testing.T) {
	for _, i := range []int{0, -1, -27, MaxRow + 1} {
		_, err := RowLabel(i)
		require.ErrorIs(t, err, ErrInvalidRow)
	}
}

func TestRowIndex(t *testing.T) {
	got, err := RowIndex(" c ")
	require.NoError(t, err)
	require.Equal(t, 3, got)

	got, err = RowIndex("ZZZ")
	require.NoError(t, err)
	require.Equal(t, MaxRow, got)

	for _, bad := range []string{"", "  ", "A1", "Ä", "-", "AAAA", strings.Repeat("A", 30)} {
		_, err := RowIndex(bad)
		require.ErrorIs(t, err, ErrInvalidRow, "label %q", bad)
	}
}

func TestCode(t *testing.T) {
	code, err := Code(1, 5)
	require.NoError(t, err)
	require.Equal(t, "A-5", code)

	code, err = Code(26, 999)
	require.NoError(t, err)
	require.Equal(t, "Z-999", code)

	_, err = Code(0, 5)
	require.ErrorIs(t, err, ErrInvalidRow)
	_, err = Code(1, 0)
	require.ErrorIs(t, err, ErrInvalidColumn)
}

func TestParse_Malformed(t *testing.T) {
	for _, bad := range []string{"", "A", "A-", "-5", "A-0", "A--5", "A-5-1", "5-A", "A-x", "A-+",
		"A-+5", "A-05", "A- 5", "A-5x", "AAAA-1", strings.Repeat("A", 30) + "-1", "A-99999999999999999999"} {
		_, _, err := Parse(bad)
		require.ErrorIs(t, err, ErrMalformedSeatCode, "code %q", bad)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for row := 1; row <= 26; row++ {
		for col := 1; col <= 999; col++ {
			code, err := Code(row, col)
			require.NoError(t, err)
			r, c, err := Parse(code)
			require.NoError(t, err)
			if r != row || c != col {
				t.Fatalf("Parse(%q) = (%d,%d), want (%d,%d)", code, r, c, row, col)
			}
		}
	}
}

func TestParse_MaxRow(t *testing.T) {
	code, err := Code(MaxRow, 1)
	require.NoError(t, err)
	require.Equal(t, "ZZZ-1", code)
	r, c, err := Parse(code)
	require.NoError(t, err)
	require.Equal(t, MaxRow, r)
	require.Equal(t, 1, c)
}
