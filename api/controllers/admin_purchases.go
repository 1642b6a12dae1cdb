package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	purchasesvc "github.com/flashnacks/flashnacks-backend/internal/purchases"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

// CompletePurchase marks a pending purchase fulfilled. Operator action,
// not ownership scoped.
func CompletePurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchaseID, err := uuid.Parse(chi.URLParam(r, "purchaseID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}
		purchase, err := svc.Complete(r.Context(), purchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}
