package handler

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/config"
	"github.com/tropictalks/classhub/internal/model"
	"github.com/tropictalks/classhub/internal/payment"
	"github.com/tropictalks/classhub/internal/queue"
	"github.com/tropictalks/classhub/internal/settlement"
)

// PaymentHistory lists a learner's payments, newest first. The
// payment repository satisfies it.
type PaymentHistory interface {
	ListByEmail(ctx context.Context, email string) ([]model.PaymentRecord, error)
}

// PaymentHandler bundles everything on the payment path: intent
// creation against the gateway, settlement, and history reads.
type PaymentHandler struct {
	Cfg     config.Config
	Gateway payment.IntentCreator
	Engine  *settlement.Engine
	History PaymentHistory
	// Publish announces a fully settled payment on the message broker.
	// Best-effort: a publish failure is logged, never surfaced. May be
	// nil to disable events.
	Publish func(ctx context.Context, ev queue.EnrollmentSettledEvent) error
}

func NewPaymentHandler(cfg config.Config, gw payment.IntentCreator, engine *settlement.Engine, history PaymentHistory,
	publish func(ctx context.Context, ev queue.EnrollmentSettledEvent) error) *PaymentHandler {
	if engine == nil {
		panic("nil engine passed to NewPaymentHandler")
	}
	return &PaymentHandler{Cfg: cfg, Gateway: gw, Engine: engine, History: history, Publish: publish}
}

type intentReq struct {
	Price float64 `json:"price"`
}

// CreateIntent handles POST /payment-intent. The catalog price is
// converted to minor units with round(price*100) and forwarded to the
// gateway; the returned client secret lets the browser confirm the
// charge directly with the gateway before calling settlement.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	if h.Gateway == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": true, "message": "payment gateway not configured"})
	}
	var req intentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "price must be positive"})
	}

	amount := MinorUnits(req.Price)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	secret, err := h.Gateway.CreateIntent(ctx, amount, h.Cfg.Currency)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": true, "message": "create intent failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": secret})
}

// MinorUnits converts a catalog price to gateway minor units
// (e.g. 49.99 -> 4999).
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

type settleReq struct {
	Email        string   `json:"email"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	SelectionIDs []uint64 `json:"selection_ids"`
	ClassIDs     []uint64 `json:"class_ids"`
}

// Settle handles POST /settle-payment. The caller has already
// confirmed the charge with the gateway; this converts it into
// durable enrollment state. The request email is recorded as given —
// it is not cross-checked against the caller's identity, a gap
// inherited from the original design and kept deliberately.
//
// A *settlement.StepError after the payment row exists means the
// system is partially settled; the response then carries the failed
// step and the counts so far, so the client can retry the remaining
// steps (all of which tolerate already-applied ids).
func (h *PaymentHandler) Settle(c echo.Context) error {
	var req settleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "email required"})
	}
	if req.Currency == "" {
		req.Currency = h.Cfg.Currency
	}

	res, err := h.Engine.Settle(c.Request().Context(), settlement.Request{
		Email:        req.Email,
		Amount:       req.Amount,
		Currency:     req.Currency,
		SelectionIDs: req.SelectionIDs,
		ClassIDs:     req.ClassIDs,
	})
	if err != nil {
		var step *settlement.StepError
		if errors.As(err, &step) {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   true,
				"message": "settlement incomplete",
				"step":    step.Step,
				"result":  res,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "settlement failed"})
	}

	if h.Publish != nil {
		ev := queue.EnrollmentSettledEvent{
			PaymentID:   res.PaymentID,
			Email:       req.Email,
			ClassIDs:    req.ClassIDs,
			Enrollments: res.EnrollmentsInserted,
			Amount:      req.Amount,
			Currency:    req.Currency,
			SettledAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(context.Background(), ev); err != nil {
			log.Printf("settle: publish event failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, res)
}

// ListHistory handles GET /payment-history?email=. Identity binding
// has already run in middleware; ordering is newest first on the
// payment timestamp.
func (h *PaymentHandler) ListHistory(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusOK, []model.PaymentRecord{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.History.ListByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": true, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, payments)
}
