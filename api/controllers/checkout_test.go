package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/middleware"
	checkoutsvc "github.com/flashnacks/flashnacks-backend/internal/checkout"
	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
	input  checkoutsvc.Input
}

func (s *stubCheckoutService) Checkout(ctx context.Context, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	s.input = input
	return s.result, s.err
}

func TestCheckoutCustomerDefaultsChannel(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		Purchase: models.Purchase{ID: uuid.New(), CustomerID: customerID, Status: enums.PurchaseStatusPending, TotalCents: 6200},
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.input.CustomerID != customerID {
		t.Fatalf("customer id = %s, want %s", svc.input.CustomerID, customerID)
	}
	if svc.input.Channel != enums.PurchaseChannelWeb {
		t.Fatalf("channel = %s, want web", svc.input.Channel)
	}
}

func TestCheckoutCustomerEmptyBody(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		Purchase: models.Purchase{ID: uuid.New(), CustomerID: customerID, Status: enums.PurchaseStatusPending},
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", http.NoBody)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutAnonymousRequiresCustomerID(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"channel":"web"}`))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutAnonymousWithCustomerID(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		Purchase: models.Purchase{ID: uuid.New(), CustomerID: customerID, Status: enums.PurchaseStatusPending},
	}}

	body := `{"channel":"phone","customer_id":"` + customerID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.input.CustomerID != customerID {
		t.Fatalf("customer id = %s, want %s", svc.input.CustomerID, customerID)
	}
	if svc.input.Channel != enums.PurchaseChannelPhone {
		t.Fatalf("channel = %s, want phone", svc.input.Channel)
	}
	if svc.input.Identity.SessionToken == nil || *svc.input.Identity.SessionToken != "sess" {
		t.Fatalf("identity = %+v, want session token", svc.input.Identity)
	}
}

func TestCheckoutRejectsUnknownChannel(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"channel":"fax"}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutSurfacesEmptyCart(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeEmptyCheckout, "nothing to purchase")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", http.NoBody)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeEmptyCheckout) {
		t.Fatalf("code = %q, want %q", envelope.Error.Code, pkgerrors.CodeEmptyCheckout)
	}
}
