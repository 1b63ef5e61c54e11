// Package repository maps colleges, users, halls, seminars and
// registrations onto the document store. Sentinel values let handlers
// and services tell apart the expected failure modes: ErrSeatTaken is a
// normal outcome of a booking race, ErrNotFound a missing record, and
// *ValidationError bad input rejected before any storage call. Transport
// failures surface as docstore.ErrUnavailable.
package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a college, seminar, hall, user or
	// registration does not exist in the caller's college.
	ErrNotFound = errors.New("not found")
	// ErrSeatTaken is returned when another registration holds the seat.
	ErrSeatTaken = errors.New("seat already taken")
	// ErrCollegeExists is returned when the college slug is in use.
	ErrCollegeExists = errors.New("college URL already exists")
	// ErrAmbiguousCollege is returned when a legacy name lookup matches
	// more than one college.
	ErrAmbiguousCollege = errors.New("college name is ambiguous")
	// ErrSlugTaken is returned when an explicit seminar slug is in use.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrUsernameTaken is returned when a username exists in the college.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrAlreadyAttended is returned by MarkAttended when the ticket was
	// scanned before.
	ErrAlreadyAttended = errors.New("ticket already used")
	// ErrTicketSpace is returned when no free ticket id was found after
	// several attempts.
	ErrTicketSpace = errors.New("could not allocate a unique ticket id")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned for input rejected before any write.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: msg}}}
}
