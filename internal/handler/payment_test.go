package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/config"
	"github.com/tropictalks/classhub/internal/model"
	"github.com/tropictalks/classhub/internal/queue"
	"github.com/tropictalks/classhub/internal/settlement"
)

type fakeGateway struct {
	gotAmount   int64
	gotCurrency string
	err         error
}

func (f *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency string) (string, error) {
	f.gotAmount = amountMinor
	f.gotCurrency = currency
	if f.err != nil {
		return "", f.err
	}
	return "cs_test_secret", nil
}

// memSettlement backs the settlement engine in handler tests.
type memSettlement struct {
	payments    []model.PaymentRecord
	selections  map[uint64]model.Selection
	classes     map[uint64]model.ClassOffering
	enrollments []model.EnrollmentRecord
	failDelete  bool
}

func newMemSettlement() *memSettlement {
	return &memSettlement{
		selections: map[uint64]model.Selection{
			1: {ID: 1, Email: "ana@example.com", ClassID: 10},
		},
		classes: map[uint64]model.ClassOffering{
			10: {ID: 10, Name: "Watercolor Basics", Price: 49.99, Status: model.ClassApproved, AvailableSeats: 3},
		},
	}
}

func (m *memSettlement) Insert(_ context.Context, p *model.PaymentRecord) error {
	p.ID = uint64(len(m.payments) + 1)
	m.payments = append(m.payments, *p)
	return nil
}

func (m *memSettlement) DeleteByIDs(_ context.Context, ids []uint64) (int64, error) {
	if m.failDelete {
		return 0, errors.New("store down")
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.selections[id]; ok {
			delete(m.selections, id)
			n++
		}
	}
	return n, nil
}

func (m *memSettlement) GetByIDs(_ context.Context, ids []uint64) ([]model.ClassOffering, error) {
	out := []model.ClassOffering{}
	for _, id := range ids {
		if c, ok := m.classes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memSettlement) InsertBatch(_ context.Context, recs []model.EnrollmentRecord) (int64, error) {
	m.enrollments = append(m.enrollments, recs...)
	return int64(len(recs)), nil
}

func (m *memSettlement) DecrementSeats(_ context.Context, ids []uint64) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := m.classes[id]; ok {
			c.AvailableSeats--
			m.classes[id] = c
			n++
		}
	}
	return n, nil
}

func paymentHandler(store *memSettlement, gw *fakeGateway, publish func(context.Context, queue.EnrollmentSettledEvent) error) *PaymentHandler {
	cfg := config.Config{Currency: "usd"}
	engine := settlement.NewEngine(store, store, store, store)
	return NewPaymentHandler(cfg, gw, engine, nil, publish)
}

func TestCreateIntentMinorUnits(t *testing.T) {
	e := echo.New()
	gw := &fakeGateway{}
	h := paymentHandler(newMemSettlement(), gw, nil)

	req := httptest.NewRequest(http.MethodPost, "/payment-intent", strings.NewReader(`{"price":49.99}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateIntent(e.NewContext(req, rec)); err != nil {
		t.Fatalf("create intent: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gw.gotAmount != 4999 {
		t.Fatalf("amount = %d minor units, want 4999", gw.gotAmount)
	}
	if gw.gotCurrency != "usd" {
		t.Fatalf("currency = %q, want fixed usd", gw.gotCurrency)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["clientSecret"] != "cs_test_secret" {
		t.Fatalf("clientSecret = %q", resp["clientSecret"])
	}
}

func TestMinorUnitsRounding(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{price: 49.99, want: 4999},
		{price: 10, want: 1000},
		{price: 0.1, want: 10},
		{price: 123.45, want: 12345},
	}
	for _, tt := range tests {
		if got := MinorUnits(tt.price); got != tt.want {
			t.Fatalf("MinorUnits(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestSettleSuccess(t *testing.T) {
	e := echo.New()
	store := newMemSettlement()
	var published *queue.EnrollmentSettledEvent
	h := paymentHandler(store, nil, func(_ context.Context, ev queue.EnrollmentSettledEvent) error {
		published = &ev
		return nil
	})

	body := `{"email":"ana@example.com","amount":49.99,"currency":"usd","selection_ids":[1],"class_ids":[10]}`
	req := httptest.NewRequest(http.MethodPost, "/settle-payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Settle(e.NewContext(req, rec)); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res settlement.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.PaymentsInserted != 1 || res.SelectionsDeleted != 1 || res.EnrollmentsInserted != 1 || res.SeatsUpdated != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if got := store.classes[10].AvailableSeats; got != 2 {
		t.Fatalf("seats = %d, want 2", got)
	}
	if published == nil {
		t.Fatal("settled event not published")
	}
	if published.Email != "ana@example.com" || published.PaymentID != res.PaymentID {
		t.Fatalf("published event = %+v", published)
	}
}

func TestSettlePartialFailureSurfacesStep(t *testing.T) {
	e := echo.New()
	store := newMemSettlement()
	store.failDelete = true
	published := false
	h := paymentHandler(store, nil, func(context.Context, queue.EnrollmentSettledEvent) error {
		published = true
		return nil
	})

	body := `{"email":"ana@example.com","amount":49.99,"selection_ids":[1],"class_ids":[10]}`
	req := httptest.NewRequest(http.MethodPost, "/settle-payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Settle(e.NewContext(req, rec)); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp struct {
		Error   bool              `json:"error"`
		Message string            `json:"message"`
		Step    string            `json:"step"`
		Result  settlement.Result `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Error || resp.Step != settlement.StepConsumeSelections {
		t.Fatalf("response = %+v, want failed step named", resp)
	}
	// Payment-first: the anchor row is durable even though the
	// transition stopped.
	if resp.Result.PaymentsInserted != 1 || len(store.payments) != 1 {
		t.Fatalf("payment missing from partial result: %+v", resp.Result)
	}
	if published {
		t.Fatal("partial settlement must not publish a settled event")
	}
}
