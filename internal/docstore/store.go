// Package docstore defines the document store the repositories persist
// through. Documents are JSON objects addressed by a collection path and a
// key; collection paths nest tenants and seminars the way the hosted
// document database did (colleges/{cid}/seminars/{sid}/registrations).
//
// Two adapters are provided: an in-memory store used by tests and local
// runs, and a MySQL store keeping every collection in one JSON table.
// Guarded wraps either one with per-call timeouts and a circuit breaker.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFound is returned when a document key does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by Create when the key is taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrConditionFailed is returned by UpdateIf when the guarding
	// condition no longer holds.
	ErrConditionFailed = errors.New("document condition failed")
	// ErrUnavailable wraps transport failures, timeouts and an open
	// circuit. Callers may retry.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrInvalidField is returned for field names that cannot be used in
	// filters or ordering.
	ErrInvalidField = errors.New("invalid document field")
)

// Document is a stored JSON object and its key.
type Document struct {
	Key  string
	Data map[string]any
}

// String returns the canonical string form of a field, "" when absent.
func (d Document) String(field string) string {
	v, ok := d.Data[field]
	if !ok || v == nil {
		return ""
	}
	return Canonical(v)
}

// Bool reports whether field holds boolean true.
func (d Document) Bool(field string) bool {
	b, _ := d.Data[field].(bool)
	return b
}

// Int returns a numeric field as int, 0 when absent or not numeric.
func (d Document) Int(field string) int {
	switch n := d.Data[field].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

// Filter matches documents whose field equals Value. Values are compared
// by their canonical string form, so true matches "true" and 5 matches "5".
type Filter struct {
	Field string
	Value any
}

// Eq is shorthand for Filter{Field: field, Value: value}.
func Eq(field string, value any) Filter { return Filter{Field: field, Value: value} }

// Query selects documents in one collection. Without OrderBy documents
// come back in insertion order. Limit <= 0 means no limit.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Store is the persistence port used by the repositories.
type Store interface {
	Get(ctx context.Context, coll, key string) (Document, error)
	Query(ctx context.Context, coll string, q Query) ([]Document, error)
	// Insert stores data under a freshly generated key and returns it.
	Insert(ctx context.Context, coll string, data map[string]any) (string, error)
	// Create stores data under key only if the key is free; otherwise it
	// returns ErrAlreadyExists. Concurrent Creates of one key have exactly
	// one winner.
	Create(ctx context.Context, coll, key string, data map[string]any) error
	// Set stores data under key, replacing any existing document.
	Set(ctx context.Context, coll, key string, data map[string]any) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, coll, key string, fields map[string]any) error
	// UpdateIf merges fields unless the document's unless.Field already
	// equals unless.Value, in which case it returns ErrConditionFailed.
	// The check and the write are one atomic step.
	UpdateIf(ctx context.Context, coll, key string, unless Filter, fields map[string]any) error
	Delete(ctx context.Context, coll, key string) error
	Ping(ctx context.Context) error
}

// Path joins collection path segments: Path("colleges", "c1", "halls").
func Path(segments ...string) string {
	return strings.Join(segments, "/")
}

// Canonical renders a value the way filters compare it.
func Canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
	}
	return fmt.Sprint(v)
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkField(field string) error {
	if !fieldName.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrConditionFailed) ||
		errors.Is(err, ErrInvalidField)
}
