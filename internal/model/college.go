package model

import "time"

// TimestampLayout is the UTC ISO-8601 form used for every createdAt
// field. Millisecond precision keeps lexical order equal to time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimestampLayout.
func FormatTime(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// ParseTime accepts any RFC 3339 timestamp; the zero time is returned
// for empty or unparseable input.
func ParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// College is a tenant. All seminars, halls, users and registrations
// live underneath exactly one college.
//
// Fields:
//  ID        – document key; equal to the slug for colleges created here.
//  Name      – display name.
//  Slug      – URL-safe identifier, unique across colleges.
//  CreatedAt – creation timestamp.
type College struct {
	ID        string    `json:"id"`        // colleges/{id}
	Name      string    `json:"name"`      // name
	Slug      string    `json:"slug"`      // slug
	CreatedAt time.Time `json:"createdAt"` // createdAt
}
