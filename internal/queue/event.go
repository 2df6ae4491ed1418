// Package queue defines message payloads exchanged over the message broker.
package queue

// EnrollmentSettledEvent is published after a settlement completes all
// four of its steps. It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database. Partial settlements are never published; they are
// surfaced to the caller as errors instead.
type EnrollmentSettledEvent struct {
	PaymentID   uint64   `json:"payment_id"`
	Email       string   `json:"email"`
	ClassIDs    []uint64 `json:"class_ids"`
	Enrollments int64    `json:"enrollments"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	SettledAt   string   `json:"settled_at"`
}
