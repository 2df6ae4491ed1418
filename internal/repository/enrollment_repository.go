package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tropictalks/classhub/internal/model"
)

// EnrollmentRepo persists enrollment records in the `enrollments`
// table. Rows are written only by the settlement engine; this
// repository exposes a bulk insert for that path and a per-learner
// listing for the API.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo returns an EnrollmentRepo bound to the given database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// InsertBatch writes multiple enrollment records in one statement and
// returns the number of rows inserted. Passing an empty slice has no
// effect and returns 0. Timestamps default in the DB.
func (r *EnrollmentRepo) InsertBatch(ctx context.Context, recs []model.EnrollmentRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	query := "INSERT INTO enrollments (email, class_id, class_name, instructor, image, price) VALUES "
	args := make([]interface{}, 0, len(recs)*6)
	for i, e := range recs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, e.Email, e.ClassID, e.ClassName, e.Instructor, e.Image, e.Price)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByEmail returns a learner's enrollments, newest first.
func (r *EnrollmentRepo) ListByEmail(ctx context.Context, email string) ([]model.EnrollmentRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,email,class_id,class_name,instructor,image,price,created_at FROM enrollments WHERE email=? ORDER BY created_at DESC",
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.EnrollmentRecord{}
	for rows.Next() {
		var e model.EnrollmentRecord
		if err := rows.Scan(&e.ID, &e.Email, &e.ClassID, &e.ClassName, &e.Instructor, &e.Image, &e.Price, &e.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, e)
	}
	return recs, rows.Err()
}
