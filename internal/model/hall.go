package model

import "time"

// HallRow is one row of a hall template, in display order.
type HallRow struct {
	Label string `json:"rowLabel"` // "A", "B", ...
	Seats int    `json:"seats"`    // seats in the row, numbered from 1
}

// Hall is a reusable seating template. Rows may differ in length.
//
// Fields:
//  ID         – document key.
//  CollegeID  – owning college.
//  Name       – display name.
//  Rows       – ordered row definitions.
//  TotalSeats – sum of Rows[i].Seats.
//  CreatedAt  – creation timestamp.
type Hall struct {
	ID         string    `json:"id"`         // colleges/{cid}/halls/{id}
	CollegeID  string    `json:"collegeId"`  // collegeId
	Name       string    `json:"name"`       // name
	Rows       []HallRow `json:"rows"`       // rows
	TotalSeats int       `json:"totalSeats"` // totalSeats
	CreatedAt  time.Time `json:"createdAt"`  // createdAt
}
