// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedQueue is the durable queue ticket mail is delivered through.
const TicketIssuedQueue = "ticket.issued"

// TicketIssuedEvent is published after a seat is booked. It carries
// everything the mail worker needs, so the worker never reads the
// document store.
type TicketIssuedEvent struct {
	CollegeID      string `json:"college_id"`
	SeminarID      string `json:"seminar_id"`
	RegistrationID string `json:"registration_id"`
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	SeminarName    string `json:"seminar_name"`
	SeminarDate    string `json:"seminar_date"`
	HallName       string `json:"hall_name"`
	SeatNumber     string `json:"seat_number"`
	TicketID       string `json:"ticket_id"`
	IssuedAt       string `json:"issued_at"`
}
