package model

import "time"

// SeatingLayout is the normalized seat grid of a seminar, whichever way
// the seminar stored it. RowConfig maps a 1-based row index to the number
// of seats in that row. Rows and Cols bound the grid for display: Rows is
// the highest row index and Cols the longest row.
//
// Resolved is false when the seminar references a hall that no longer
// exists; such a seminar is still returned, with an empty layout.
type SeatingLayout struct {
	RowConfig  map[int]int `json:"rowConfig"`
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	TotalSeats int         `json:"totalSeats"`
	Resolved   bool        `json:"resolved"`
}

// Contains reports whether (row, col) is a seat of the layout.
func (l SeatingLayout) Contains(row, col int) bool {
	if row < 1 || col < 1 {
		return false
	}
	if len(l.RowConfig) > 0 {
		return col <= l.RowConfig[row]
	}
	return row <= l.Rows && col <= l.Cols
}

// Seminar is an event with a fixed seat layout, booked by students.
//
// Fields:
//  ID          – document key.
//  CollegeID   – owning college.
//  Title       – display title.
//  Description – free text.
//  Date, Time  – as entered by the organiser; not interpreted.
//  Venue       – free-text location.
//  Slug        – unique within the college.
//  Thumbnail   – optional image URL.
//  HallID      – hall template when the seminar was created from one.
//  Seating     – normalized layout (see SeatingLayout).
//  CreatedAt   – creation timestamp.
type Seminar struct {
	ID          string        `json:"id"`
	CollegeID   string        `json:"collegeId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Venue       string        `json:"venue"`
	Slug        string        `json:"slug"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	HallID      string        `json:"hallId,omitempty"`
	Seating     SeatingLayout `json:"seating"`
	CreatedAt   time.Time     `json:"createdAt"`
}
