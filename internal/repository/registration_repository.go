package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/seat"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// ticketAttempts bounds ticket id regeneration on collision.
const ticketAttempts = 5

// ListCache caches registration lists per seminar. Implementations must
// treat every failure as a miss. Get reports the generation it looked
// under and Set only stores under that generation, so a list read before
// an Invalidate is never served after it.
type ListCache interface {
	Get(ctx context.Context, collegeID, seminarID string) (regs []model.Registration, gen int64, ok bool)
	Set(ctx context.Context, collegeID, seminarID string, gen int64, regs []model.Registration)
	Invalidate(ctx context.Context, collegeID, seminarID string)
}

type noCache struct{}

func (noCache) Get(context.Context, string, string) ([]model.Registration, int64, bool) {
	return nil, -1, false
}
func (noCache) Set(context.Context, string, string, int64, []model.Registration) {}
func (noCache) Invalidate(context.Context, string, string)                       {}

// RegistrationRepo stores registrations under
// colleges/{cid}/seminars/{sid}/registrations.
//
// Two claim collections back the uniqueness rules. A seat claim keyed by
// seat code sits next to the registrations of each seminar, and a ticket
// claim keyed by ticket id sits under the college. Both are written with
// create-if-absent before the registration itself, so two bookings of one
// seat cannot both succeed and the verifier can find a ticket by key.
type RegistrationRepo struct {
	store       docstore.Store
	cache       ListCache
	log         *slog.Logger
	newTicketID func() (string, error)
}

// NewRegistrationRepo constructs a RegistrationRepo. cache may be nil.
func NewRegistrationRepo(store docstore.Store, cache ListCache, logger *slog.Logger) *RegistrationRepo {
	if cache == nil {
		cache = noCache{}
	}
	return &RegistrationRepo{store: store, cache: cache, log: logger, newTicketID: utils.NewTicketID}
}

// Create books seat (row, col) of a seminar. Input is validated before
// any storage call. ErrSeatTaken is returned when the seat already has a
// registration, including when a concurrent booking wins the claim.
func (r *RegistrationRepo) Create(ctx context.Context, collegeID, seminarID string, row, col int, a model.Attendee) (*model.Registration, error) {
	a, code, err := ValidateBooking(row, col, a)
	if err != nil {
		return nil, err
	}

	regs := registrationsColl(collegeID, seminarID)
	existing, err := r.store.Query(ctx, regs, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("seatId", code)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("check seat: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrSeatTaken
	}

	now := time.Now().UTC()
	regID := uuid.NewString()
	claims := seatClaimsColl(collegeID, seminarID)
	err = r.store.Create(ctx, claims, code, map[string]any{
		"seatId":         code,
		"registrationId": regID,
		"claimedAt":      model.FormatTime(now),
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return nil, ErrSeatTaken
	}
	if err != nil {
		return nil, fmt.Errorf("claim seat: %w", err)
	}
	release := func(coll, key string) {
		if derr := r.store.Delete(context.WithoutCancel(ctx), coll, key); derr != nil {
			r.log.Error("release claim failed", "collection", coll, "key", key, "err", derr)
		}
	}

	ticketID, err := r.claimTicket(ctx, collegeID, seminarID, regID, code, now)
	if err != nil {
		release(claims, code)
		return nil, err
	}

	reg := &model.Registration{
		ID:        regID,
		CollegeID: collegeID,
		SeminarID: seminarID,
		SeatCode:  code,
		SeatRow:   row,
		SeatCol:   col,
		Attendee:  a,
		Attended:  false,
		TicketID:  ticketID,
		CreatedAt: now.Truncate(time.Millisecond),
	}
	if err := r.store.Create(ctx, regs, regID, registrationDoc(reg)); err != nil {
		release(ticketsColl(collegeID), ticketID)
		release(claims, code)
		return nil, fmt.Errorf("create registration: %w", err)
	}
	r.cache.Invalidate(ctx, collegeID, seminarID)
	r.log.Info("seat booked", "college", collegeID, "seminar", seminarID, "seat", code, "registration", regID)
	return reg, nil
}

func (r *RegistrationRepo) claimTicket(ctx context.Context, collegeID, seminarID, regID, code string, now time.Time) (string, error) {
	for i := 0; i < ticketAttempts; i++ {
		id, err := r.newTicketID()
		if err != nil {
			return "", fmt.Errorf("generate ticket id: %w", err)
		}
		err = r.store.Create(ctx, ticketsColl(collegeID), id, map[string]any{
			"seminarId":      seminarID,
			"registrationId": regID,
			"seatId":         code,
			"createdAt":      model.FormatTime(now),
		})
		if errors.Is(err, docstore.ErrAlreadyExists) {
			r.log.Warn("ticket id collision, regenerating", "college", collegeID)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("claim ticket: %w", err)
		}
		return id, nil
	}
	return "", ErrTicketSpace
}

// List returns a seminar's registrations, oldest first. Stored seat codes
// that do not parse are reported as row 0, column 0.
func (r *RegistrationRepo) List(ctx context.Context, collegeID, seminarID string) ([]model.Registration, error) {
	regs, gen, ok := r.cache.Get(ctx, collegeID, seminarID)
	if ok {
		return regs, nil
	}
	docs, err := r.store.Query(ctx, registrationsColl(collegeID, seminarID), docstore.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]model.Registration, 0, len(docs))
	for _, d := range docs {
		out = append(out, *r.fromDoc(collegeID, seminarID, d))
	}
	r.cache.Set(ctx, collegeID, seminarID, gen, out)
	return out, nil
}

// Get returns one registration or ErrNotFound.
func (r *RegistrationRepo) Get(ctx context.Context, collegeID, seminarID, registrationID string) (*model.Registration, error) {
	if strings.TrimSpace(registrationID) == "" || strings.Contains(registrationID, "/") {
		return nil, ErrNotFound
	}
	doc, err := r.store.Get(ctx, registrationsColl(collegeID, seminarID), registrationID)
	if err != nil {
		return nil, notFound(err)
	}
	return r.fromDoc(collegeID, seminarID, doc), nil
}

// SetAttended overwrites the attended flag; admins use it to correct a
// scan in either direction. The stored registration is returned.
func (r *RegistrationRepo) SetAttended(ctx context.Context, collegeID, seminarID, registrationID string, attended bool) (*model.Registration, error) {
	if _, err := r.Get(ctx, collegeID, seminarID, registrationID); err != nil {
		return nil, err
	}
	err := r.store.Update(ctx, registrationsColl(collegeID, seminarID), registrationID, map[string]any{
		"attended":  attended,
		"updatedAt": model.FormatTime(time.Now()),
	})
	if err != nil {
		return nil, notFound(err)
	}
	r.cache.Invalidate(ctx, collegeID, seminarID)
	return r.Get(ctx, collegeID, seminarID, registrationID)
}

// MarkAttended flips attended from false to true in one conditional
// write. ErrAlreadyAttended is returned when it was already true.
func (r *RegistrationRepo) MarkAttended(ctx context.Context, collegeID, seminarID, registrationID string) error {
	err := r.store.UpdateIf(ctx, registrationsColl(collegeID, seminarID), registrationID,
		docstore.Eq("attended", true),
		map[string]any{"attended": true, "attendedAt": model.FormatTime(time.Now())},
	)
	switch {
	case errors.Is(err, docstore.ErrConditionFailed):
		return ErrAlreadyAttended
	case err != nil:
		return notFound(err)
	}
	r.cache.Invalidate(ctx, collegeID, seminarID)
	return nil
}

// FindByTicket searches one seminar for a ticket id, under the current
// field name and then the legacy one.
func (r *RegistrationRepo) FindByTicket(ctx context.Context, collegeID, seminarID, ticketID string) (*model.Registration, error) {
	coll := registrationsColl(collegeID, seminarID)
	for _, field := range []string{"ticketId", "qrCodeData"} {
		docs, err := r.store.Query(ctx, coll, docstore.Query{
			Filters: []docstore.Filter{docstore.Eq(field, ticketID)},
			Limit:   1,
		})
		if err != nil {
			return nil, fmt.Errorf("find ticket: %w", err)
		}
		if len(docs) > 0 {
			return r.fromDoc(collegeID, seminarID, docs[0]), nil
		}
	}
	return nil, ErrNotFound
}

// LookupTicket reads the college ticket index. Registrations created
// before the index existed are not found here.
func (r *RegistrationRepo) LookupTicket(ctx context.Context, collegeID, ticketID string) (seminarID, registrationID string, err error) {
	if ticketID == "" || strings.Contains(ticketID, "/") {
		return "", "", ErrNotFound
	}
	doc, err := r.store.Get(ctx, ticketsColl(collegeID), ticketID)
	if err != nil {
		return "", "", notFound(err)
	}
	return doc.String("seminarId"), doc.String("registrationId"), nil
}

func (r *RegistrationRepo) fromDoc(collegeID, seminarID string, doc docstore.Document) *model.Registration {
	reg := &model.Registration{
		ID:        doc.Key,
		CollegeID: collegeID,
		SeminarID: seminarID,
		SeatCode:  doc.String("seatId"),
		Attendee: model.Attendee{
			StudentName: firstString(doc, "studentName", "name"),
			Email:       doc.String("email"),
			Phone:       doc.String("phone"),
			CollegeName: firstString(doc, "collegeName", "college"),
			Course:      doc.String("course"),
			Semester:    doc.String("semester"),
		},
		Attended:  doc.Bool("attended"),
		TicketID:  firstString(doc, "ticketId", "qrCodeData"),
		CreatedAt: model.ParseTime(doc.String("createdAt")),
	}
	row, col, err := seat.Parse(reg.SeatCode)
	if err != nil {
		r.log.Warn("registration with malformed seat code", "college", collegeID, "seminar", seminarID,
			"registration", doc.Key, "seat", reg.SeatCode)
		row, col = 0, 0
	}
	reg.SeatRow, reg.SeatCol = row, col
	return reg
}

func registrationDoc(reg *model.Registration) map[string]any {
	return map[string]any{
		"collegeId":   reg.CollegeID,
		"seminarId":   reg.SeminarID,
		"seatId":      reg.SeatCode,
		"studentName": reg.StudentName,
		"email":       reg.Email,
		"phone":       reg.Phone,
		"collegeName": reg.CollegeName,
		"course":      reg.Course,
		"semester":    reg.Semester,
		"attended":    reg.Attended,
		"ticketId":    reg.TicketID,
		"createdAt":   model.FormatTime(reg.CreatedAt),
	}
}

func trimAttendee(a model.Attendee) model.Attendee {
	a.StudentName = strings.TrimSpace(a.StudentName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.CollegeName = strings.TrimSpace(a.CollegeName)
	a.Course = strings.TrimSpace(a.Course)
	a.Semester = strings.TrimSpace(a.Semester)
	return a
}

// ValidateBooking trims the attendee and validates it together with the
// seat, so the caller gets every problem at once. It touches no storage;
// callers run it before resolving anything. It returns the trimmed
// attendee and the seat code.
func ValidateBooking(row, col int, a model.Attendee) (model.Attendee, string, error) {
	a = trimAttendee(a)
	code, err := checkBooking(row, col, a)
	if err != nil {
		return a, "", err
	}
	return a, code, nil
}

func checkBooking(row, col int, a model.Attendee) (string, error) {
	verr := &ValidationError{}
	if err := validateStruct(a); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return "", err
		}
		verr.Fields = append(verr.Fields, ve.Fields...)
	}
	code, err := seat.Code(row, col)
	if err != nil {
		fe := FieldError{Field: "seatRow", Error: fmt.Sprintf("must be between 1 and %d", seat.MaxRow)}
		if errors.Is(err, seat.ErrInvalidColumn) {
			fe = FieldError{Field: "seatCol", Error: "must be at least 1"}
		}
		verr.Fields = append(verr.Fields, fe)
	}
	if len(verr.Fields) > 0 {
		return "", verr
	}
	return code, nil
}
