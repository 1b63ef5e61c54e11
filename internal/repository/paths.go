package repository

import (
	"errors"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
)

// Collection layout. Every path below a college is scoped by its id, so a
// query can never see another tenant's documents.
const collegesColl = "colleges"

func usersColl(collegeID string) string {
	return docstore.Path(collegesColl, collegeID, "users")
}

func hallsColl(collegeID string) string {
	return docstore.Path(collegesColl, collegeID, "halls")
}

func seminarsColl(collegeID string) string {
	return docstore.Path(collegesColl, collegeID, "seminars")
}

func seminarSlugsColl(collegeID string) string {
	return docstore.Path(collegesColl, collegeID, "seminar_slugs")
}

func registrationsColl(collegeID, seminarID string) string {
	return docstore.Path(collegesColl, collegeID, "seminars", seminarID, "registrations")
}

func seatClaimsColl(collegeID, seminarID string) string {
	return docstore.Path(collegesColl, collegeID, "seminars", seminarID, "seat_claims")
}

func ticketsColl(collegeID string) string {
	return docstore.Path(collegesColl, collegeID, "tickets")
}

// notFound maps a store miss onto ErrNotFound and passes anything else on.
func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// firstString returns the first non-empty string field among names.
// Older documents used different field names for the same value.
func firstString(doc docstore.Document, names ...string) string {
	for _, n := range names {
		if v := doc.String(n); v != "" {
			return v
		}
	}
	return ""
}
