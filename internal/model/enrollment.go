package model

import "time"

// EnrollmentRecord is a durable copy of a class's descriptive fields
// bound to the learner who paid for it, stored in the `enrollments`
// table. Rows are written only by the settlement engine and are never
// mutated afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  Email      – the enrolled learner.
//  ClassID    – back-reference to the class offering.
//  ClassName  – class title at enrollment time.
//  Instructor – instructor name at enrollment time.
//  Image      – cover image URL at enrollment time.
//  Price      – price paid per the catalog at enrollment time.
//  CreatedAt  – timestamp of the settlement that produced the row.
type EnrollmentRecord struct {
	ID         uint64    `json:"id"`         // enrollments.id
	Email      string    `json:"email"`      // enrollments.email
	ClassID    uint64    `json:"class_id"`   // enrollments.class_id
	ClassName  string    `json:"class_name"` // enrollments.class_name
	Instructor string    `json:"instructor"` // enrollments.instructor
	Image      string    `json:"image"`      // enrollments.image
	Price      float64   `json:"price"`      // enrollments.price
	CreatedAt  time.Time `json:"created_at"` // enrollments.created_at
}
