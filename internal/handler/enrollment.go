package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/model"
	"github.com/tropictalks/classhub/internal/repository"
)

// EnrollmentHandler serves a learner's enrollment records. Writes go
// exclusively through the settlement engine; this handler only reads.
type EnrollmentHandler struct {
	Enrollments *repository.EnrollmentRepo
}

func NewEnrollmentHandler(enrollments *repository.EnrollmentRepo) *EnrollmentHandler {
	return &EnrollmentHandler{Enrollments: enrollments}
}

// List handles GET /enrollments?email=. Identity binding has already
// run in middleware; an empty email yields an empty array.
func (h *EnrollmentHandler) List(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusOK, []model.EnrollmentRecord{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Enrollments.ListByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, recs)
}
