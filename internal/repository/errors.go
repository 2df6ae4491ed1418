// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific error strings at every call site.
package repository

import "errors"

// ErrEmailExists is returned when inserting a user whose email is
// already registered. Handlers translate this into the
// "Already Exists" response rather than an error status.
var ErrEmailExists = errors.New("email already exists")

// ErrSelectionExists is returned when a learner attempts to select a
// class they already selected. Selection adds are idempotent, so
// handlers translate this into the "exists" response.
var ErrSelectionExists = errors.New("selection already exists")

// ErrUserNotFound is returned when a user lookup by email or id
// matches no row.
var ErrUserNotFound = errors.New("user not found")
