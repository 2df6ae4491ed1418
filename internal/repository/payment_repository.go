package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/tropictalks/classhub/internal/model"
)

// PaymentRepo persists payment records in the `payments` table. A
// payment is a single insert-only row; the settled class ids and the
// consumed selection ids are stored as JSON text columns so the whole
// record becomes durable in one statement. Settlement depends on that:
// the payment row is the anchor that must exist before any other
// settlement side effect runs.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Insert writes a payment record and populates its ID and CreatedAt.
func (r *PaymentRepo) Insert(ctx context.Context, p *model.PaymentRecord) error {
	classIDs, err := json.Marshal(p.ClassIDs)
	if err != nil {
		return err
	}
	selectionIDs, err := json.Marshal(p.SelectionIDs)
	if err != nil {
		return err
	}
	// The timestamp is assigned here, not read back, so the insert is
	// the only statement. A follow-up read could fail after the anchor
	// row is already durable and misreport the step as failed.
	createdAt := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (email, amount, currency, class_ids, selection_ids, created_at) VALUES (?,?,?,?,?,?)",
		strings.ToLower(strings.TrimSpace(p.Email)), p.Amount, p.Currency, string(classIDs), string(selectionIDs), createdAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.CreatedAt = createdAt
	return nil
}

// ListByEmail returns a learner's payment history sorted by timestamp
// descending, the ordering contract for history views.
func (r *PaymentRepo) ListByEmail(ctx context.Context, email string) ([]model.PaymentRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,email,amount,currency,class_ids,selection_ids,created_at FROM payments WHERE email=? ORDER BY created_at DESC",
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []model.PaymentRecord{}
	for rows.Next() {
		var p model.PaymentRecord
		var classIDs, selectionIDs []byte
		if err := rows.Scan(&p.ID, &p.Email, &p.Amount, &p.Currency, &classIDs, &selectionIDs, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(classIDs, &p.ClassIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(selectionIDs, &p.SelectionIDs); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
