package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/api/validators"
	checkoutsvc "github.com/flashnacks/flashnacks-backend/internal/checkout"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

type checkoutRequest struct {
	Channel    string     `json:"channel" validate:"omitempty,oneof=web delivery_app phone"`
	CustomerID *uuid.UUID `json:"customer_id"`
}

// Checkout converts the caller's active cart into a pending purchase.
// Authenticated customers are billed to their own account; anonymous
// sessions must name the customer the purchase is recorded against.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var customerID uuid.UUID
		switch {
		case identity.IsCustomer():
			customerID = *identity.CustomerID
		case payload.CustomerID != nil:
			customerID = *payload.CustomerID
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_id required for anonymous checkout"))
			return
		}

		channel := enums.PurchaseChannelWeb
		if payload.Channel != "" {
			parsed, err := enums.ParsePurchaseChannel(payload.Channel)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid channel"))
				return
			}
			channel = parsed
		}

		result, err := svc.Checkout(r.Context(), checkoutsvc.Input{
			Identity:   identity,
			CustomerID: customerID,
			Channel:    channel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
