package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/middleware"
	cartsvc "github.com/flashnacks/flashnacks-backend/internal/cart"
	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type stubCartService struct {
	view     *cartsvc.View
	err      error
	identity cartsvc.Identity
	product  uuid.UUID
	quantity int
}

func (s *stubCartService) GetOrCreateCart(ctx context.Context, identity cartsvc.Identity) (*models.Cart, error) {
	s.identity = identity
	if s.err != nil {
		return nil, s.err
	}
	cart := s.view.Cart
	return &cart, nil
}

func (s *stubCartService) GetCart(ctx context.Context, identity cartsvc.Identity) (*cartsvc.View, error) {
	s.identity = identity
	return s.view, s.err
}

func (s *stubCartService) AddLine(ctx context.Context, identity cartsvc.Identity, productID uuid.UUID, quantity int) (*cartsvc.View, error) {
	s.identity = identity
	s.product = productID
	s.quantity = quantity
	return s.view, s.err
}

func (s *stubCartService) UpdateLine(ctx context.Context, identity cartsvc.Identity, lineID uuid.UUID, quantity int) (*cartsvc.View, error) {
	s.identity = identity
	s.quantity = quantity
	return s.view, s.err
}

func (s *stubCartService) RemoveLine(ctx context.Context, identity cartsvc.Identity, lineID uuid.UUID) (*cartsvc.View, error) {
	s.identity = identity
	return s.view, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, identity cartsvc.Identity) (*cartsvc.View, error) {
	s.identity = identity
	return s.view, s.err
}

func (s *stubCartService) MergeOnLogin(ctx context.Context, sessionToken string, customerID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func cartView(totalCents, totalQty int) *cartsvc.View {
	return &cartsvc.View{
		Cart:          models.Cart{ID: uuid.New()},
		TotalCents:    totalCents,
		TotalQuantity: totalQty,
	}
}

func TestGetCartUsesSessionIdentity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: cartView(2500, 2)}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess-token"))
	rec := httptest.NewRecorder()

	GetCart(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.identity.SessionToken == nil || *svc.identity.SessionToken != "sess-token" {
		t.Fatalf("identity = %+v, want session token", svc.identity)
	}

	var envelope struct {
		Data struct {
			TotalCents int `json:"total_cents"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCents != 2500 {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestGetCartPrefersCustomerIdentity(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	svc := &stubCartService{view: cartView(0, 0)}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	ctx := middleware.WithCustomerID(req.Context(), customerID.String())
	ctx = middleware.WithSessionToken(ctx, "stale-session")
	rec := httptest.NewRecorder()

	GetCart(svc, nil).ServeHTTP(rec, req.WithContext(ctx))

	if svc.identity.CustomerID == nil || *svc.identity.CustomerID != customerID {
		t.Fatalf("identity = %+v, want customer %s", svc.identity, customerID)
	}
}

func TestGetCartRejectsMissingIdentity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: cartView(0, 0)}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	GetCart(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAddCartLine(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := &stubCartService{view: cartView(5000, 2)}
	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	AddCartLine(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.product != productID || svc.quantity != 2 {
		t.Fatalf("service got product=%s qty=%d", svc.product, svc.quantity)
	}
}

func TestAddCartLineRejectsZeroQuantity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: cartView(0, 0)}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	AddCartLine(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddCartLineSurfacesUnavailable(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeUnavailable, "product is unavailable")}
	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	AddCartLine(svc, nil).ServeHTTP(rec, req)

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
	if envelope.Error.Code != string(pkgerrors.CodeUnavailable) {
		t.Fatalf("code = %q, want %q", envelope.Error.Code, pkgerrors.CodeUnavailable)
	}
}

func TestUpdateCartLineZeroQuantityAllowed(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: cartView(0, 0)}
	lineID := uuid.New()
	r := chi.NewRouter()
	r.Patch("/api/v1/cart/lines/{lineID}", UpdateCartLine(svc, nil))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/lines/"+lineID.String(), strings.NewReader(`{"quantity":0}`))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if svc.quantity != 0 {
		t.Fatalf("service got qty=%d, want 0", svc.quantity)
	}
}

func TestMergeCartRequiresCustomer(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: cartView(0, 0)}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", strings.NewReader(`{"session_token":"sess"}`))
	req = req.WithContext(middleware.WithSessionToken(req.Context(), "sess"))
	rec := httptest.NewRecorder()

	MergeCart(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
