package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/middleware"
	"github.com/flashnacks/flashnacks-backend/api/responses"
	purchasesvc "github.com/flashnacks/flashnacks-backend/internal/purchases"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
	"github.com/flashnacks/flashnacks-backend/pkg/pagination"
)

func customerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "purchase history requires a customer identity")
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return customerID, nil
}

// ListPurchases returns the customer's purchase history, newest first,
// cursor paginated.
func ListPurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, convErr := strconv.Atoi(raw)
			if convErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, convErr, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		page, err := svc.List(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetPurchase returns one purchase with its frozen lines, ownership
// checked.
func GetPurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchaseID, err := uuid.Parse(chi.URLParam(r, "purchaseID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}
		purchase, err := svc.Get(r.Context(), customerID, purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}

// CancelPurchase moves a pending purchase to cancelled.
func CancelPurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchaseID, err := uuid.Parse(chi.URLParam(r, "purchaseID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}
		purchase, err := svc.Cancel(r.Context(), customerID, purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}
