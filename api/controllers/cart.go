package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/middleware"
	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/api/validators"
	cartsvc "github.com/flashnacks/flashnacks-backend/internal/cart"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

// identityFromRequest maps the middleware-resolved caller onto a cart
// identity. The identity middleware guarantees one of the two is present
// on scoped routes.
func identityFromRequest(r *http.Request) (cartsvc.Identity, error) {
	if customerID := middleware.CustomerIDFromContext(r.Context()); customerID != "" {
		parsed, err := uuid.Parse(customerID)
		if err != nil {
			return cartsvc.Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
		}
		return cartsvc.CustomerIdentity(parsed), nil
	}
	if token := middleware.SessionTokenFromContext(r.Context()); token != "" {
		return cartsvc.SessionIdentity(token), nil
	}
	return cartsvc.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "request identity missing")
}

// GetCart returns the caller's active cart with computed totals, creating
// an empty one on first touch.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.GetCart(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// AddCartLine adds a product to the cart, merging quantities when the
// product is already present.
func AddCartLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddLine(r.Context(), identity, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

type updateLineRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// UpdateCartLine sets a line's quantity; zero removes the line.
func UpdateCartLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}
		var payload updateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateLine(r.Context(), identity, lineID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// RemoveCartLine deletes a line from the caller's cart.
func RemoveCartLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}
		view, err := svc.RemoveLine(r.Context(), identity, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ClearCart empties the caller's active cart. The cart row survives for
// reuse.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ClearCart(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// MergeCart folds the caller's anonymous session cart into their customer
// cart after login. Requires a customer identity plus the old session
// token in the body.
func MergeCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	type mergeRequest struct {
		SessionToken string `json:"session_token" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := middleware.CustomerIDFromContext(r.Context())
		if customerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "merge requires a customer identity"))
			return
		}
		parsed, err := uuid.Parse(customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id"))
			return
		}
		var payload mergeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.MergeOnLogin(r.Context(), payload.SessionToken, parsed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
