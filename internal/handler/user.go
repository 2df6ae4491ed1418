package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/middleware"
	"github.com/tropictalks/classhub/internal/model"
	"github.com/tropictalks/classhub/internal/repository"
)

// UserHandler manages user records and role probes. Listing all users
// and changing a role are admin-gated in the router; the probes are
// identity-bound so a learner can only ask about themselves.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

type createUserReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Create handles POST /users. Clients call this after their first
// sign-in; a repeated call for a known email answers
// {message: "Already Exists"} without modifying the stored row.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusOK, echo.Map{"message": "Already Exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "create user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// List handles GET /users (admin only, enforced in the router).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /users/:id (admin only, enforced in the
// router). The role string must name one of the known roles exactly.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid user id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": true, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "update role failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// IsAdmin handles GET /users/admin/:email, a boolean probe the client
// uses to decide which UI to show. Identity binding is enforced in
// middleware, so the probe only ever answers about the caller.
func (h *UserHandler) IsAdmin(c echo.Context) error {
	return h.probe(c, model.RoleAdmin, "admin")
}

// IsInstructor handles GET /users/instructor/:email.
func (h *UserHandler) IsInstructor(c echo.Context) error {
	return h.probe(c, model.RoleInstructor, "instructor")
}

func (h *UserHandler) probe(c echo.Context, want model.Role, key string) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if email == "" {
		email = middleware.ClaimEmail(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Users.RoleByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown users are plain students, not errors.
			return c.JSON(http.StatusOK, echo.Map{key: false})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{key: role == want})
}
