package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/model"
	"github.com/tropictalks/classhub/internal/repository"
)

// SelectionStore is the contract the selection handler needs. The
// selection repository satisfies it; tests use an in-memory fake.
type SelectionStore interface {
	ListByEmail(ctx context.Context, email string) ([]model.Selection, error)
	Add(ctx context.Context, s model.Selection) (model.Selection, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
}

// SelectionHandler manages a learner's tentative class picks. Listing
// is identity-bound by middleware; deletion is only authenticated,
// not bound to the selection's owner. That gap is inherited from the
// original design and kept on purpose.
type SelectionHandler struct {
	Selections SelectionStore
}

func NewSelectionHandler(selections SelectionStore) *SelectionHandler {
	if selections == nil {
		panic("nil store passed to NewSelectionHandler")
	}
	return &SelectionHandler{Selections: selections}
}

// List handles GET /selections?email=. An empty email is answered
// with an empty array rather than an error; when present, the
// identity-binding middleware has already verified it matches the
// caller.
func (h *SelectionHandler) List(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusOK, []model.Selection{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sels, err := h.Selections.ListByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, sels)
}

type addSelectionReq struct {
	Email     string  `json:"email"`
	ClassID   uint64  `json:"class_id"`
	ClassName string  `json:"class_name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

// Add handles POST /selections. The (email, class_id) pair is the
// idempotency key: a repeated add answers {message: "exists"} and
// leaves exactly one stored selection.
func (h *SelectionHandler) Add(c echo.Context) error {
	var req addSelectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.ClassID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "email and class_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Selections.Add(ctx, model.Selection{
		Email:     req.Email,
		ClassID:   req.ClassID,
		ClassName: req.ClassName,
		Image:     req.Image,
		Price:     req.Price,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSelectionExists) {
			return c.JSON(http.StatusOK, echo.Map{"message": "exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "create selection failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /selections/:id. Removing an id that is
// already gone is not an error; the response reports how many rows
// were deleted (0 or 1).
func (h *SelectionHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid selection id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Selections.DeleteByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "delete selection failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
