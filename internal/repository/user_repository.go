package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tropictalks/classhub/internal/model"
)

// UserRepo provides access to the `users` table. Users carry no
// credentials; identity is asserted at the token boundary and the row
// only records the email, display name and role.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns the stored record. The role
// defaults to student; duplicate emails return ErrEmailExists so the
// handler can answer idempotently.
func (r *UserRepo) Create(ctx context.Context, email, name string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, role) VALUES (?,?,?)",
		email, name, model.RoleStudent)
	if err != nil {
		// 1062 = MySQL duplicate key
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT id,email,name,role,created_at,updated_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, q string, arg interface{}) (model.User, error) {
	var u model.User
	var role string
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	return u, nil
}

// RoleByEmail returns only the stored role for a user. It backs the
// role guard, which must consult the store rather than trust a role
// baked into the token.
func (r *UserRepo) RoleByEmail(ctx context.Context, email string) (model.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE email=? LIMIT 1", email).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return model.ParseRole(role), nil
}

// List returns all users ordered by creation time. Only admins reach
// this query; the role check happens in middleware.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,name,role,created_at,updated_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = model.ParseRole(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateRole sets a user's role and returns the updated record.
// ErrUserNotFound is returned when the id matches no row.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id); err != nil {
		return model.User{}, err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so existence is confirmed by the read-back instead.
	return r.GetByID(ctx, id)
}
