// Package seat converts between numeric seat coordinates and the
// human-readable seat codes printed on tickets ("A-5" is row 1, column 5).
// Row labels follow spreadsheet columns: A..Z, then AA, AB and so on.
package seat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRow is returned for row indices below 1 and for labels that
	// are empty or contain anything other than ASCII letters.
	ErrInvalidRow = errors.New("invalid seat row")
	// ErrInvalidColumn is returned for column numbers below 1.
	ErrInvalidColumn = errors.New("invalid seat column")
	// ErrMalformedSeatCode is returned by Parse when a code is not of the
	// form "{label}-{column}".
	ErrMalformedSeatCode = errors.New("malformed seat code")
)

// MaxRow is the highest row index, "ZZZ". Longer labels are rejected so
// the index arithmetic cannot overflow.
const MaxRow = 18278

const maxLabelLen = 3

// RowLabel returns the label of a 1-based row index: 1 -> "A", 26 -> "Z",
// 27 -> "AA". Indices above MaxRow are invalid.
func RowLabel(index int) (string, error) {
	if index < 1 || index > MaxRow {
		return "", fmt.Errorf("%w: %d", ErrInvalidRow, index)
	}
	var res []byte
	for i := index - 1; i >= 0; i = i/26 - 1 {
		res = append(res, byte('A'+i%26))
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res), nil
}

// RowIndex is the inverse of RowLabel. Labels are case-insensitive and
// surrounding whitespace is ignored.
func RowIndex(label string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return 0, fmt.Errorf("%w: empty label", ErrInvalidRow)
	}
	if len(s) > maxLabelLen {
		return 0, fmt.Errorf("%w: %q is longer than %d letters", ErrInvalidRow, label, maxLabelLen)
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRow, label)
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n, nil
}

// Code formats a seat as "{RowLabel(row)}-{col}".
func Code(row, col int) (string, error) {
	label, err := RowLabel(row)
	if err != nil {
		return "", err
	}
	if col < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return label + "-" + strconv.Itoa(col), nil
}

// Parse decodes a seat code produced by Code back into (row, col).
func Parse(code string) (row, col int, err error) {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedSeatCode, code)
	}
	row, err = RowIndex(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedSeatCode, code)
	}
	col, err = parseColumn(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedSeatCode, code)
	}
	return row, col, nil
}

// parseColumn accepts only the canonical decimal form Code writes: digits,
// no sign, no leading zero.
func parseColumn(s string) (int, error) {
	if s == "" || s[0] == '0' {
		return 0, ErrInvalidColumn
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidColumn
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidColumn
	}
	return n, nil
}
