package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/tropictalks/classhub/internal/model"
)

// memStore implements every engine port in memory and records the
// order in which the steps touched it, so tests can assert both the
// final state and the step sequencing.
type memStore struct {
	payments    []model.PaymentRecord
	selections  map[uint64]model.Selection
	classes     map[uint64]model.ClassOffering
	enrollments []model.EnrollmentRecord

	ops          []string
	decrementIDs []uint64

	failStep string // step constant at which to inject an error
}

var errInjected = errors.New("injected store failure")

func newMemStore() *memStore {
	return &memStore{
		selections: map[uint64]model.Selection{},
		classes:    map[uint64]model.ClassOffering{},
	}
}

func (m *memStore) Insert(_ context.Context, p *model.PaymentRecord) error {
	if m.failStep == StepRecordPayment {
		return errInjected
	}
	p.ID = uint64(len(m.payments) + 1)
	m.payments = append(m.payments, *p)
	m.ops = append(m.ops, StepRecordPayment)
	return nil
}

func (m *memStore) DeleteByIDs(_ context.Context, ids []uint64) (int64, error) {
	if m.failStep == StepConsumeSelections {
		return 0, errInjected
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.selections[id]; ok {
			delete(m.selections, id)
			n++
		}
	}
	m.ops = append(m.ops, StepConsumeSelections)
	return n, nil
}

func (m *memStore) GetByIDs(_ context.Context, ids []uint64) ([]model.ClassOffering, error) {
	out := []model.ClassOffering{}
	for _, id := range ids {
		if c, ok := m.classes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) InsertBatch(_ context.Context, recs []model.EnrollmentRecord) (int64, error) {
	if m.failStep == StepMaterializeEnrollments {
		return 0, errInjected
	}
	m.enrollments = append(m.enrollments, recs...)
	m.ops = append(m.ops, StepMaterializeEnrollments)
	return int64(len(recs)), nil
}

func (m *memStore) DecrementSeats(_ context.Context, ids []uint64) (int64, error) {
	if m.failStep == StepDecrementCapacity {
		return 0, errInjected
	}
	m.decrementIDs = append([]uint64{}, ids...)
	var n int64
	for _, id := range ids {
		if c, ok := m.classes[id]; ok {
			c.AvailableSeats--
			m.classes[id] = c
			n++
		}
	}
	m.ops = append(m.ops, StepDecrementCapacity)
	return n, nil
}

func seeded() *memStore {
	m := newMemStore()
	m.classes[10] = model.ClassOffering{ID: 10, Name: "Watercolor Basics", Instructor: "Mia", Price: 49.99, Status: model.ClassApproved, AvailableSeats: 5}
	m.classes[11] = model.ClassOffering{ID: 11, Name: "Street Photography", Instructor: "Leo", Price: 30, Status: model.ClassApproved, AvailableSeats: 1}
	m.selections[1] = model.Selection{ID: 1, Email: "ana@example.com", ClassID: 10}
	m.selections[2] = model.Selection{ID: 2, Email: "ana@example.com", ClassID: 11}
	return m
}

func settleReq() Request {
	return Request{
		Email:        "ana@example.com",
		Amount:       79.99,
		Currency:     "usd",
		SelectionIDs: []uint64{1, 2},
		ClassIDs:     []uint64{10, 11},
	}
}

func TestSettleHappyPath(t *testing.T) {
	m := seeded()
	eng := NewEngine(m, m, m, m)

	res, err := eng.Settle(context.Background(), settleReq())
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if res.PaymentsInserted != 1 || res.SelectionsDeleted != 2 || res.EnrollmentsInserted != 2 || res.SeatsUpdated != 2 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if len(m.payments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(m.payments))
	}
	if len(m.selections) != 0 {
		t.Fatalf("expected selections consumed, %d remain", len(m.selections))
	}
	if len(m.enrollments) != 2 {
		t.Fatalf("expected 2 enrollments, got %d", len(m.enrollments))
	}
	for _, e := range m.enrollments {
		if e.Email != "ana@example.com" {
			t.Fatalf("enrollment bound to wrong email: %q", e.Email)
		}
	}
	if got := m.classes[10].AvailableSeats; got != 4 {
		t.Fatalf("class 10 seats = %d, want 4", got)
	}
	if got := m.classes[11].AvailableSeats; got != 0 {
		t.Fatalf("class 11 seats = %d, want 0", got)
	}

	want := []string{StepRecordPayment, StepConsumeSelections, StepMaterializeEnrollments, StepDecrementCapacity}
	if len(m.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", m.ops, want)
	}
	for i := range want {
		if m.ops[i] != want[i] {
			t.Fatalf("step %d = %s, want %s", i, m.ops[i], want[i])
		}
	}
}

func TestSettleMissingOfferingAsymmetry(t *testing.T) {
	// Class 99 does not exist: no enrollment may be created for it,
	// yet the capacity decrement must still be attempted for it.
	m := seeded()
	eng := NewEngine(m, m, m, m)

	req := settleReq()
	req.ClassIDs = []uint64{10, 99}

	res, err := eng.Settle(context.Background(), req)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.EnrollmentsInserted != 1 {
		t.Fatalf("enrollments inserted = %d, want 1", res.EnrollmentsInserted)
	}
	if len(m.decrementIDs) != 2 {
		t.Fatalf("decrement attempted for %v, want both ids", m.decrementIDs)
	}
	// Only the existing row matches the batched update.
	if res.SeatsUpdated != 1 {
		t.Fatalf("seats updated = %d, want 1", res.SeatsUpdated)
	}
}

func TestSettlePaymentFirstOnLaterFailure(t *testing.T) {
	m := seeded()
	m.failStep = StepConsumeSelections
	eng := NewEngine(m, m, m, m)

	res, err := eng.Settle(context.Background(), settleReq())
	var step *StepError
	if !errors.As(err, &step) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if step.Step != StepConsumeSelections {
		t.Fatalf("failed step = %s, want %s", step.Step, StepConsumeSelections)
	}
	if !errors.Is(err, errInjected) {
		t.Fatalf("StepError does not unwrap to cause: %v", err)
	}
	// The anchor survives: the payment is durable even though the
	// transition stopped immediately after it.
	if res.PaymentsInserted != 1 || len(m.payments) != 1 {
		t.Fatalf("payment lost on downstream failure: %+v", res)
	}
	if len(m.enrollments) != 0 || m.decrementIDs != nil {
		t.Fatal("later steps ran after a failed step")
	}
}

func TestSettleStepErrors(t *testing.T) {
	tests := []struct {
		name     string
		failStep string
	}{
		{name: "payment insert fails", failStep: StepRecordPayment},
		{name: "enrollment insert fails", failStep: StepMaterializeEnrollments},
		{name: "capacity update fails", failStep: StepDecrementCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := seeded()
			m.failStep = tt.failStep
			eng := NewEngine(m, m, m, m)

			res, err := eng.Settle(context.Background(), settleReq())
			var step *StepError
			if !errors.As(err, &step) {
				t.Fatalf("expected StepError, got %v", err)
			}
			if step.Step != tt.failStep {
				t.Fatalf("failed step = %s, want %s", step.Step, tt.failStep)
			}
			if tt.failStep == StepRecordPayment {
				if res.PaymentsInserted != 0 || len(m.payments) != 0 {
					t.Fatal("payment reported despite failed insert")
				}
				return
			}
			if res.PaymentsInserted != 1 {
				t.Fatal("payment count missing from partial result")
			}
		})
	}
}

func TestSettleDeduplicatesIDs(t *testing.T) {
	m := seeded()
	eng := NewEngine(m, m, m, m)

	req := settleReq()
	req.ClassIDs = []uint64{10, 10, 11, 0}
	req.SelectionIDs = []uint64{1, 1, 2}

	res, err := eng.Settle(context.Background(), req)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(m.decrementIDs) != 2 {
		t.Fatalf("decrement ids = %v, want deduplicated pair", m.decrementIDs)
	}
	if res.EnrollmentsInserted != 2 {
		t.Fatalf("enrollments inserted = %d, want 2", res.EnrollmentsInserted)
	}
	if got := m.payments[0].ClassIDs; len(got) != 2 {
		t.Fatalf("payment class ids = %v, want deduplicated pair", got)
	}
}

func TestSettleEmptyIDSets(t *testing.T) {
	m := seeded()
	eng := NewEngine(m, m, m, m)

	res, err := eng.Settle(context.Background(), Request{Email: "ana@example.com", Amount: 0, Currency: "usd"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.PaymentsInserted != 1 {
		t.Fatal("payment should be recorded even with nothing to settle")
	}
	if res.SelectionsDeleted != 0 || res.EnrollmentsInserted != 0 || res.SeatsUpdated != 0 {
		t.Fatalf("unexpected side effects: %+v", res)
	}
}
