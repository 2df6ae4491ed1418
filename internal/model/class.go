package model

import "time"

// Class status values. Offerings are created and moderated outside this
// service; only approved classes are ever shown to learners.
const (
	ClassPending  = "pending"
	ClassApproved = "approved"
	ClassRejected = "rejected"
)

// ClassOffering represents a purchasable class as stored in the
// `classes` table. The catalog is owned by an external moderation
// flow; this service reads offerings and decrements their seat
// counters during settlement.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – class title.
//  Instructor      – instructor display name.
//  InstructorEmail – instructor contact address.
//  Image           – cover image URL.
//  Price           – price in the catalog currency.
//  Status          – moderation state (pending, approved, rejected).
//  AvailableSeats  – remaining purchasable seats. Decremented by
//                    settlement with no floor check; see repository
//                    docs for the concurrency contract.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type ClassOffering struct {
	ID              uint64    `json:"id"`               // classes.id
	Name            string    `json:"name"`             // classes.name
	Instructor      string    `json:"instructor"`       // classes.instructor
	InstructorEmail string    `json:"instructor_email"` // classes.instructor_email
	Image           string    `json:"image"`            // classes.image
	Price           float64   `json:"price"`            // classes.price
	Status          string    `json:"status"`           // classes.status
	AvailableSeats  int32     `json:"available_seats"`  // classes.available_seats
	CreatedAt       time.Time `json:"created_at"`       // classes.created_at
	UpdatedAt       time.Time `json:"updated_at"`       // classes.updated_at
}
