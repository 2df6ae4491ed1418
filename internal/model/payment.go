package model

import "time"

// PaymentRecord is the financial anchor of a settlement, stored in the
// `payments` table. It is inserted exactly once per settlement call,
// before any other settlement side effect, and is never mutated. The
// id lists are persisted as JSON text columns so the whole record is
// a single durable row.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – the paying learner.
//  Amount       – amount charged, in catalog currency units.
//  Currency     – ISO currency code.
//  ClassIDs     – offerings settled by this payment.
//  SelectionIDs – tentative selections consumed by this payment.
//  CreatedAt    – payment timestamp; history views sort on it
//                 descending.
type PaymentRecord struct {
	ID           uint64    `json:"id"`            // payments.id
	Email        string    `json:"email"`         // payments.email
	Amount       float64   `json:"amount"`        // payments.amount
	Currency     string    `json:"currency"`      // payments.currency
	ClassIDs     []uint64  `json:"class_ids"`     // payments.class_ids (JSON)
	SelectionIDs []uint64  `json:"selection_ids"` // payments.selection_ids (JSON)
	CreatedAt    time.Time `json:"created_at"`    // payments.created_at
}
