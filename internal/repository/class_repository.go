package repository

import (
	"context"
	"database/sql"

	"github.com/tropictalks/classhub/internal/model"
)

// ClassRepo reads the externally-owned class catalog and maintains
// the per-class seat counter consumed by settlement. It never creates
// or approves offerings; moderation happens outside this service.
type ClassRepo struct {
	db *sql.DB
}

// NewClassRepo returns a ClassRepo bound to the given database.
func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

const classColumns = "id,name,instructor,instructor_email,image,price,status,available_seats,created_at,updated_at"

// ListApproved returns every offering whose status is approved.
// Pending and rejected classes are never exposed to learners.
func (r *ClassRepo) ListApproved(ctx context.Context) ([]model.ClassOffering, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+classColumns+" FROM classes WHERE status=? ORDER BY created_at", model.ClassApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

// GetByIDs fetches the offerings matching the given id set. Ids with
// no backing row are simply absent from the result; callers that need
// to notice the difference must compare lengths themselves.
func (r *ClassRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.ClassOffering, error) {
	if len(ids) == 0 {
		return []model.ClassOffering{}, nil
	}
	query := "SELECT " + classColumns + " FROM classes WHERE id IN (" + placeholders(len(ids)) + ")"
	rows, err := r.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

// DecrementSeats subtracts one seat from every offering in the id set
// using a single arithmetic UPDATE. The statement is atomic per row at
// the store level, so concurrent settlements cannot lose decrements;
// there is deliberately no floor check and no error for unknown ids
// (those rows simply do not match). The number of rows actually
// updated is returned so callers can report partial coverage.
func (r *ClassRepo) DecrementSeats(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := "UPDATE classes SET available_seats = available_seats - 1 WHERE id IN (" + placeholders(len(ids)) + ")"
	res, err := r.db.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanClasses(rows *sql.Rows) ([]model.ClassOffering, error) {
	classes := []model.ClassOffering{}
	for rows.Next() {
		var c model.ClassOffering
		if err := rows.Scan(&c.ID, &c.Name, &c.Instructor, &c.InstructorEmail, &c.Image,
			&c.Price, &c.Status, &c.AvailableSeats, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// placeholders builds "?,?,...,?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

// idArgs widens an id slice into the variadic arg form ExecContext expects.
func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
