package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/email"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/metrics"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/queue"
)

// TicketPayload is everything a ticket mail needs. The JSON names match
// the send-ticket endpoint. The ids are only set for bookings and travel
// with queued events.
type TicketPayload struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email" validate:"required,email"`
	SeminarName  string `json:"seminar_name"`
	SeminarDate  string `json:"seminar_date"`
	HallName     string `json:"hall_name"`
	SeatNumber   string `json:"seat_number"`
	TicketID     string `json:"ticket_id" validate:"required"`

	CollegeID      string `json:"-"`
	SeminarID      string `json:"-"`
	RegistrationID string `json:"-"`
}

// NotifyResult reports a delivery attempt. Error is empty on success.
type NotifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Notifier hands a ticket to the student. It never fails a booking: a
// failed attempt is described in the result.
type Notifier interface {
	Notify(ctx context.Context, p TicketPayload) NotifyResult
}

// PayloadFor builds the ticket payload of a fresh registration.
func PayloadFor(sem *model.Seminar, reg *model.Registration) TicketPayload {
	return TicketPayload{
		StudentName:    reg.StudentName,
		StudentEmail:   reg.Email,
		SeminarName:    sem.Title,
		SeminarDate:    sem.Date,
		HallName:       sem.Venue,
		SeatNumber:     reg.SeatCode,
		TicketID:       reg.TicketID,
		CollegeID:      reg.CollegeID,
		SeminarID:      reg.SeminarID,
		RegistrationID: reg.ID,
	}
}

// MailNotifier renders the ticket mail and sends it in the caller's
// goroutine.
type MailNotifier struct {
	renderer *email.Renderer
	mailer   email.Mailer
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewMailNotifier constructs a MailNotifier. m may be nil.
func NewMailNotifier(r *email.Renderer, mailer email.Mailer, m *metrics.Metrics, logger *slog.Logger) *MailNotifier {
	return &MailNotifier{renderer: r, mailer: mailer, metrics: m, log: logger}
}

// Notify sends the ticket and reports the outcome.
func (n *MailNotifier) Notify(ctx context.Context, p TicketPayload) NotifyResult {
	if err := n.Deliver(ctx, p); err != nil {
		n.metrics.Notification("sync", false)
		return NotifyResult{Success: false, Error: err.Error()}
	}
	n.metrics.Notification("sync", true)
	return NotifyResult{Success: true}
}

// Deliver renders and sends the ticket mail, returning the send error.
// The queue consumer calls it directly.
func (n *MailNotifier) Deliver(ctx context.Context, p TicketPayload) error {
	subject, html, text, err := n.renderer.Render("ticket", email.TicketData{
		StudentName: p.StudentName,
		SeminarName: p.SeminarName,
		SeminarDate: p.SeminarDate,
		HallName:    p.HallName,
		SeatLabel:   p.SeatNumber,
		TicketID:    p.TicketID,
		QRCodeURL:   email.QRCodeURL(p.TicketID),
	})
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, p.StudentEmail, subject, html, text); err != nil {
		n.log.Warn("ticket mail failed", "ticket", p.TicketID, "err", err)
		return err
	}
	return nil
}

// HandleTicketIssued adapts Deliver to the queue consumer.
func (n *MailNotifier) HandleTicketIssued(ctx context.Context, ev queue.TicketIssuedEvent) error {
	err := n.Deliver(ctx, PayloadFromEvent(ev))
	n.metrics.Notification("worker", err == nil)
	return err
}

type ticketPublisher interface {
	PublishTicketIssued(ctx context.Context, ev queue.TicketIssuedEvent) error
}

// QueueNotifier publishes a ticket.issued event; a worker sends the mail
// later. Success means the broker accepted the event.
type QueueNotifier struct {
	pub     ticketPublisher
	metrics *metrics.Metrics
}

// NewQueueNotifier constructs a QueueNotifier. m may be nil.
func NewQueueNotifier(pub ticketPublisher, m *metrics.Metrics) *QueueNotifier {
	return &QueueNotifier{pub: pub, metrics: m}
}

func (n *QueueNotifier) Notify(ctx context.Context, p TicketPayload) NotifyResult {
	if err := n.pub.PublishTicketIssued(ctx, EventFromPayload(p, time.Now())); err != nil {
		n.metrics.Notification("queue", false)
		return NotifyResult{Success: false, Error: "ticket email could not be queued"}
	}
	n.metrics.Notification("queue", true)
	return NotifyResult{Success: true}
}

// EventFromPayload converts a payload to its queued form.
func EventFromPayload(p TicketPayload, at time.Time) queue.TicketIssuedEvent {
	return queue.TicketIssuedEvent{
		CollegeID:      p.CollegeID,
		SeminarID:      p.SeminarID,
		RegistrationID: p.RegistrationID,
		StudentName:    p.StudentName,
		StudentEmail:   p.StudentEmail,
		SeminarName:    p.SeminarName,
		SeminarDate:    p.SeminarDate,
		HallName:       p.HallName,
		SeatNumber:     p.SeatNumber,
		TicketID:       p.TicketID,
		IssuedAt:       model.FormatTime(at),
	}
}

// PayloadFromEvent is the inverse of EventFromPayload.
func PayloadFromEvent(ev queue.TicketIssuedEvent) TicketPayload {
	return TicketPayload{
		StudentName:    ev.StudentName,
		StudentEmail:   ev.StudentEmail,
		SeminarName:    ev.SeminarName,
		SeminarDate:    ev.SeminarDate,
		HallName:       ev.HallName,
		SeatNumber:     ev.SeatNumber,
		TicketID:       ev.TicketID,
		CollegeID:      ev.CollegeID,
		SeminarID:      ev.SeminarID,
		RegistrationID: ev.RegistrationID,
	}
}
