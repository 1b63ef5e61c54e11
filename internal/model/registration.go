package model

import "time"

// Attendee holds the student details captured at booking time.
type Attendee struct {
	StudentName string `json:"studentName" validate:"required,notblank,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,notblank,max=32"`
	CollegeName string `json:"collegeName" validate:"max=200"`
	Course      string `json:"course" validate:"max=200"`
	Semester    string `json:"semester" validate:"max=50"`
}

// Registration is a booked seat. At most one registration exists per
// (seminar, seat) and TicketID is unique within the college. Attended
// starts false; the door scan flips it to true once.
//
// Fields:
//  ID               – document key.
//  CollegeID        – owning college.
//  SeminarID        – booked seminar.
//  SeatCode         – "{rowLabel}-{col}", e.g. "A-5".
//  SeatRow, SeatCol – decoded SeatCode; (0, 0) when the stored code is malformed.
//  Attended         – door scan state.
//  TicketID         – 8 uppercase alphanumeric characters.
//  CreatedAt        – creation timestamp.
type Registration struct {
	ID        string `json:"id"`
	CollegeID string `json:"collegeId"`
	SeminarID string `json:"seminarId"`
	SeatCode  string `json:"seatId"`
	SeatRow   int    `json:"seatRow"`
	SeatCol   int    `json:"seatCol"`
	Attendee
	Attended  bool      `json:"attended"`
	TicketID  string    `json:"ticketId"`
	CreatedAt time.Time `json:"createdAt"`
}
