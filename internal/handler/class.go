package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/model"
)

// ClassCatalog lists the approved offerings. The class repository
// satisfies this.
type ClassCatalog interface {
	ListApproved(ctx context.Context) ([]model.ClassOffering, error)
}

// ClassHandler exposes the public class catalog. Moderation (create,
// approve, reject) lives in another system; this service only reads.
type ClassHandler struct {
	Classes ClassCatalog
}

func NewClassHandler(classes ClassCatalog) *ClassHandler {
	return &ClassHandler{Classes: classes}
}

// List handles GET /classes. It returns every approved offering and
// is served from the Redis response cache when one is configured.
func (h *ClassHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	classes, err := h.Classes.ListApproved(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, classes)
}
