package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tropictalks/classhub/internal/model"
)

// SelectionRepo tracks a learner's tentative class picks in the
// `selections` table. A (email, class_id) pair is unique; adds are
// idempotent against that compound key and deletes are tolerant of
// ids that are already gone.
type SelectionRepo struct {
	db *sql.DB
}

// NewSelectionRepo returns a SelectionRepo bound to the given database.
func NewSelectionRepo(db *sql.DB) *SelectionRepo { return &SelectionRepo{db: db} }

const selectionColumns = "id,email,class_id,class_name,image,price,created_at"

// ListByEmail returns all selections for a learner, newest first. An
// empty email matches nothing and simply yields an empty slice.
func (r *SelectionRepo) ListByEmail(ctx context.Context, email string) ([]model.Selection, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectionColumns+" FROM selections WHERE email=? ORDER BY created_at DESC", email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sels := []model.Selection{}
	for rows.Next() {
		var s model.Selection
		if err := rows.Scan(&s.ID, &s.Email, &s.ClassID, &s.ClassName, &s.Image, &s.Price, &s.CreatedAt); err != nil {
			return nil, err
		}
		sels = append(sels, s)
	}
	return sels, rows.Err()
}

// Add inserts a selection keyed by (email, class_id). When the pair
// already exists the unique index rejects the insert and
// ErrSelectionExists is returned without touching the stored row, so
// calling Add twice leaves exactly one selection behind.
func (r *SelectionRepo) Add(ctx context.Context, s model.Selection) (model.Selection, error) {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO selections (email, class_id, class_name, image, price) VALUES (?,?,?,?,?)",
		s.Email, s.ClassID, s.ClassName, s.Image, s.Price)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Selection{}, ErrSelectionExists
		}
		return model.Selection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Selection{}, err
	}
	s.ID = uint64(id)
	// Read back for the DB-assigned timestamp.
	err = r.db.QueryRowContext(ctx,
		"SELECT "+selectionColumns+" FROM selections WHERE id=?", s.ID).
		Scan(&s.ID, &s.Email, &s.ClassID, &s.ClassName, &s.Image, &s.Price, &s.CreatedAt)
	if err != nil {
		return model.Selection{}, err
	}
	return s, nil
}

// DeleteByID removes a single selection. Deleting an absent id is not
// an error; the returned count is 0 in that case.
func (r *SelectionRepo) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM selections WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByIDs removes every selection in the id set with one
// statement. Ids that no longer exist are silently skipped; the
// returned count reflects only rows actually deleted. Settlement
// relies on this tolerance when a client retries with ids that were
// already consumed.
func (r *SelectionRepo) DeleteByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := "DELETE FROM selections WHERE id IN (" + placeholders(len(ids)) + ")"
	res, err := r.db.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
