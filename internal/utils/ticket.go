package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	// TicketIDLength is the number of characters in a ticket id.
	TicketIDLength = 8
	ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewTicketID returns TicketIDLength characters drawn uniformly from
// A-Z and 0-9 using crypto/rand.
func NewTicketID() (string, error) {
	buf := make([]byte, TicketIDLength)
	max := big.NewInt(int64(len(ticketAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = ticketAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// NormalizeTicketID trims and upper-cases a scanned or typed ticket id.
func NormalizeTicketID(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-32)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
