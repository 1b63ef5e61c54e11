// Package service holds the flows that span several repositories:
// booking a seat and handing the ticket on, and verifying a ticket at
// the door.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/metrics"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
)

type seminarResolver interface {
	Resolve(ctx context.Context, collegeID, idOrSlug string) (*model.Seminar, error)
}

type registrationCreator interface {
	Create(ctx context.Context, collegeID, seminarID string, row, col int, a model.Attendee) (*model.Registration, error)
}

// BookingRequest asks for seat (Row, Col) of a seminar given by id or slug.
type BookingRequest struct {
	CollegeID string
	Seminar   string
	Row       int
	Col       int
	Attendee  model.Attendee
}

// BookingResult is a stored registration plus the outcome of handing its
// ticket to the notifier.
type BookingResult struct {
	Registration *model.Registration `json:"registration"`
	Seminar      *model.Seminar      `json:"-"`
	Notification NotifyResult        `json:"notification"`
}

// BookingService books seats and notifies students.
type BookingService struct {
	seminars seminarResolver
	regs     registrationCreator
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewBookingService constructs a BookingService. m may be nil.
func NewBookingService(seminars seminarResolver, regs registrationCreator, n Notifier, m *metrics.Metrics, logger *slog.Logger) *BookingService {
	return &BookingService{seminars: seminars, regs: regs, notifier: n, metrics: m, log: logger}
}

// Book stores the registration and then notifies. The returned error is
// about the booking only; notification problems are in the result.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	attendee, _, err := repository.ValidateBooking(req.Row, req.Col, req.Attendee)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	sem, err := s.seminars.Resolve(ctx, req.CollegeID, req.Seminar)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	// Seminars whose hall is gone accept any positive seat.
	if sem.Seating.Resolved && !sem.Seating.Contains(req.Row, req.Col) {
		s.metrics.Booking(metrics.BookingInvalid)
		return nil, &repository.ValidationError{Fields: []repository.FieldError{
			{Field: "seat", Error: "is not part of the seating layout"},
		}}
	}

	reg, err := s.regs.Create(ctx, sem.CollegeID, sem.ID, req.Row, req.Col, attendee)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	s.metrics.Booking(metrics.BookingCreated)

	res := &BookingResult{Registration: reg, Seminar: sem}
	res.Notification = s.notifier.Notify(ctx, PayloadFor(sem, reg))
	if !res.Notification.Success {
		s.log.Warn("ticket notification failed", "college", reg.CollegeID, "registration", reg.ID,
			"err", res.Notification.Error)
	}
	return res, nil
}

func (s *BookingService) recordFailure(err error) {
	var ve *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrSeatTaken):
		s.metrics.Booking(metrics.BookingSeatTake)
	case errors.As(err, &ve), errors.Is(err, repository.ErrNotFound):
		s.metrics.Booking(metrics.BookingInvalid)
	default:
		s.metrics.Booking(metrics.BookingFailed)
	}
}
