package model

import (
	"strings"
	"time"
)

// Role enumerates the access levels a user may hold. Roles are stored
// as lowercase strings in the `users` table and compared exactly; any
// value outside the known set is treated as a plain student.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole maps an arbitrary string onto a known Role. Absent or
// unrecognized values fall back to RoleStudent so that a user record
// without an explicit role behaves as a regular learner.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleInstructor:
		return RoleInstructor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

// User represents an application user as stored in the `users` table.
// Users are keyed by email; a row is created the first time a client
// registers an identity and is never deleted by this service.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – unique, normalized (lowercase) email address.
//  Name      – display name supplied at registration.
//  Role      – access level (student, instructor or admin).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update (role changes only).
type User struct {
	ID        uint64    `json:"id"`         // users.id
	Email     string    `json:"email"`      // users.email
	Name      string    `json:"name"`       // users.name
	Role      Role      `json:"role"`       // users.role
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}
