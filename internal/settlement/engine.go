// Package settlement implements the payment-to-enrollment state
// transition. A settlement touches four collections (payments,
// selections, enrollments, class seat counters) as independent
// document operations in a fixed order, with no multi-statement
// transaction and no rollback. The ordering is a contract: the
// payment row is written first so that a failure anywhere downstream
// can never lose the financial record.
package settlement

import (
	"context"
	"fmt"

	"github.com/tropictalks/classhub/internal/model"
)

// Step names identify which part of a settlement failed. They appear
// in StepError and in the API response for partial settlements so
// that an operator or client can retry the remaining steps.
const (
	StepRecordPayment          = "record_payment"
	StepConsumeSelections      = "consume_selections"
	StepMaterializeEnrollments = "materialize_enrollments"
	StepDecrementCapacity      = "decrement_capacity"
)

// PaymentRecorder writes the payment anchor row.
type PaymentRecorder interface {
	Insert(ctx context.Context, p *model.PaymentRecord) error
}

// SelectionConsumer deletes consumed selections by id set. Absent ids
// must be tolerated silently.
type SelectionConsumer interface {
	DeleteByIDs(ctx context.Context, ids []uint64) (int64, error)
}

// EnrollmentWriter bulk-inserts enrollment records.
type EnrollmentWriter interface {
	InsertBatch(ctx context.Context, recs []model.EnrollmentRecord) (int64, error)
}

// CapacityLedger reads offerings and decrements their seat counters.
// DecrementSeats must be atomic per row at the store level.
type CapacityLedger interface {
	GetByIDs(ctx context.Context, ids []uint64) ([]model.ClassOffering, error)
	DecrementSeats(ctx context.Context, ids []uint64) (int64, error)
}

// Request carries the inputs of one settlement call. The caller is
// authenticated, but Email is taken at face value and is not
// cross-checked against the caller's identity.
type Request struct {
	Email        string
	Amount       float64
	Currency     string
	SelectionIDs []uint64
	ClassIDs     []uint64
}

// Result summarizes the outcome of each of the four writes so the
// caller can detect partial completion. On a StepError the counts for
// steps that did not run remain zero.
type Result struct {
	PaymentID           uint64 `json:"payment_id"`
	PaymentsInserted    int64  `json:"payments_inserted"`
	SelectionsDeleted   int64  `json:"selections_deleted"`
	EnrollmentsInserted int64  `json:"enrollments_inserted"`
	SeatsUpdated        int64  `json:"seats_updated"`
}

// StepError reports which settlement step failed. Once the payment
// row exists, a StepError from a later step means the system is
// partially settled: the payment is durable but selections,
// enrollments or seat counters may be inconsistent. Nothing is
// rolled back or retried here; the caller decides how to remediate.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("settlement step %s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Engine orchestrates the settlement transition over injected stores.
type Engine struct {
	payments    PaymentRecorder
	selections  SelectionConsumer
	enrollments EnrollmentWriter
	ledger      CapacityLedger
}

// NewEngine constructs an Engine. All dependencies must be non-nil.
func NewEngine(p PaymentRecorder, s SelectionConsumer, e EnrollmentWriter, l CapacityLedger) *Engine {
	if p == nil || s == nil || e == nil || l == nil {
		panic("nil store passed to settlement.NewEngine")
	}
	return &Engine{payments: p, selections: s, enrollments: e, ledger: l}
}

// Settle executes the four settlement steps strictly in order, each
// step durable before the next begins:
//
//  1. insert the PaymentRecord (the anchor; after this the payment
//     has happened regardless of what follows)
//  2. delete the consumed selections (absent ids ignored)
//  3. fetch the offerings for the class id set and bulk-insert one
//     enrollment per offering that exists (unknown ids are skipped,
//     not errors)
//  4. decrement seat counters for every requested class id, whether
//     or not step 3 produced an enrollment for it (unknown ids are
//     no-ops at the store)
//
// Steps 3 and 4 are deliberately not cross-checked; keeping the
// asymmetry preserves the documented consistency model. Any failure
// is returned as a *StepError alongside the counts accumulated so
// far.
func (e *Engine) Settle(ctx context.Context, req Request) (Result, error) {
	classIDs := dedupe(req.ClassIDs)
	selectionIDs := dedupe(req.SelectionIDs)

	var res Result

	payment := model.PaymentRecord{
		Email:        req.Email,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ClassIDs:     classIDs,
		SelectionIDs: selectionIDs,
	}
	if err := e.payments.Insert(ctx, &payment); err != nil {
		return res, &StepError{Step: StepRecordPayment, Err: err}
	}
	res.PaymentID = payment.ID
	res.PaymentsInserted = 1

	deleted, err := e.selections.DeleteByIDs(ctx, selectionIDs)
	if err != nil {
		return res, &StepError{Step: StepConsumeSelections, Err: err}
	}
	res.SelectionsDeleted = deleted

	classes, err := e.ledger.GetByIDs(ctx, classIDs)
	if err != nil {
		return res, &StepError{Step: StepMaterializeEnrollments, Err: err}
	}
	recs := make([]model.EnrollmentRecord, 0, len(classes))
	for _, c := range classes {
		recs = append(recs, model.EnrollmentRecord{
			Email:      payment.Email,
			ClassID:    c.ID,
			ClassName:  c.Name,
			Instructor: c.Instructor,
			Image:      c.Image,
			Price:      c.Price,
		})
	}
	inserted, err := e.enrollments.InsertBatch(ctx, recs)
	if err != nil {
		return res, &StepError{Step: StepMaterializeEnrollments, Err: err}
	}
	res.EnrollmentsInserted = inserted

	updated, err := e.ledger.DecrementSeats(ctx, classIDs)
	if err != nil {
		return res, &StepError{Step: StepDecrementCapacity, Err: err}
	}
	res.SeatsUpdated = updated

	return res, nil
}

// dedupe returns the ids with duplicates and zero values removed,
// preserving first-seen order. The settlement contract speaks of id
// sets, and the batched store operations expect distinct ids.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
