package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/metrics"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/utils"
)

// Reasons an invalid scan reports.
const (
	ReasonNotFound    = "not_found"
	ReasonAlreadyUsed = "already_used"
)

// Outcome is the verdict for one scanned ticket. Registration is set
// whenever the ticket was found.
type Outcome struct {
	Valid        bool                `json:"valid"`
	Reason       string              `json:"reason,omitempty"`
	Registration *model.Registration `json:"registration,omitempty"`
}

type ticketStore interface {
	FindByTicket(ctx context.Context, collegeID, seminarID, ticketID string) (*model.Registration, error)
	LookupTicket(ctx context.Context, collegeID, ticketID string) (seminarID, registrationID string, err error)
	Get(ctx context.Context, collegeID, seminarID, registrationID string) (*model.Registration, error)
	MarkAttended(ctx context.Context, collegeID, seminarID, registrationID string) error
}

type seminarLister interface {
	ListIDs(ctx context.Context, collegeID string) ([]string, error)
}

// VerificationService checks tickets at the door.
type VerificationService struct {
	tickets  ticketStore
	seminars seminarLister
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewVerificationService constructs a VerificationService. m may be nil.
func NewVerificationService(tickets ticketStore, seminars seminarLister, m *metrics.Metrics, logger *slog.Logger) *VerificationService {
	return &VerificationService{tickets: tickets, seminars: seminars, metrics: m, log: logger}
}

// Verify finds the registration holding ticketID and marks it attended.
// With seminarID set only that seminar is searched. A ticket scanned a
// second time, including one lost to a concurrent scan, is reported as
// already used and left unchanged. Only storage failures return an error.
func (s *VerificationService) Verify(ctx context.Context, collegeID, ticketID, seminarID string) (Outcome, error) {
	tid := utils.NormalizeTicketID(ticketID)
	if tid == "" {
		return s.done(Outcome{Reason: ReasonNotFound}), nil
	}

	reg, err := s.find(ctx, collegeID, tid, seminarID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.done(Outcome{Reason: ReasonNotFound}), nil
	}
	if err != nil {
		return Outcome{}, err
	}
	if reg.Attended {
		return s.done(Outcome{Reason: ReasonAlreadyUsed, Registration: reg}), nil
	}

	err = s.tickets.MarkAttended(ctx, collegeID, reg.SeminarID, reg.ID)
	switch {
	case errors.Is(err, repository.ErrAlreadyAttended):
		reg.Attended = true
		return s.done(Outcome{Reason: ReasonAlreadyUsed, Registration: reg}), nil
	case errors.Is(err, repository.ErrNotFound):
		return s.done(Outcome{Reason: ReasonNotFound}), nil
	case err != nil:
		return Outcome{}, err
	}
	reg.Attended = true
	s.log.Info("ticket admitted", "college", collegeID, "seminar", reg.SeminarID, "ticket", tid)
	return s.done(Outcome{Valid: true, Registration: reg}), nil
}

func (s *VerificationService) find(ctx context.Context, collegeID, tid, seminarID string) (*model.Registration, error) {
	if seminarID != "" {
		return s.tickets.FindByTicket(ctx, collegeID, seminarID, tid)
	}

	sid, rid, err := s.tickets.LookupTicket(ctx, collegeID, tid)
	switch {
	case err == nil:
		reg, err := s.tickets.Get(ctx, collegeID, sid, rid)
		if !errors.Is(err, repository.ErrNotFound) {
			return reg, err
		}
		s.log.Warn("ticket index points at a missing registration", "college", collegeID, "ticket", tid)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	// Tickets issued before the index existed.
	ids, err := s.seminars.ListIDs(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		reg, err := s.tickets.FindByTicket(ctx, collegeID, id, tid)
		if err == nil {
			return reg, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return nil, repository.ErrNotFound
}

func (s *VerificationService) done(o Outcome) Outcome {
	if o.Valid {
		s.metrics.Scan("valid")
	} else {
		s.metrics.Scan(o.Reason)
	}
	return o
}
