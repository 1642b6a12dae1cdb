package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/api/validators"
	inventorysvc "github.com/flashnacks/flashnacks-backend/internal/inventory"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

type createIngredientRequest struct {
	Name          string           `json:"name" validate:"required"`
	Unit          string           `json:"unit" validate:"required,oneof=piece gram milliliter"`
	UnitCostCents int              `json:"unit_cost_cents" validate:"min=0"`
	InitialQty    *decimal.Decimal `json:"initial_qty"`
	MinimumQty    *decimal.Decimal `json:"minimum_qty"`
}

// CreateIngredient registers a new ingredient, optionally seeding its
// stock record.
func CreateIngredient(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := enums.ParseIngredientUnit(payload.Unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit"))
			return
		}
		ingredient, err := svc.CreateIngredient(r.Context(), inventorysvc.CreateIngredientInput{
			Name:          payload.Name,
			Unit:          unit,
			UnitCostCents: payload.UnitCostCents,
			InitialQty:    payload.InitialQty,
			MinimumQty:    payload.MinimumQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ingredient)
	}
}

type updateIngredientRequest struct {
	Name          *string `json:"name"`
	Unit          *string `json:"unit" validate:"omitempty,oneof=piece gram milliliter"`
	UnitCostCents *int    `json:"unit_cost_cents" validate:"omitempty,min=0"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateIngredient applies partial ingredient updates.
func UpdateIngredient(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}
		var payload updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := inventorysvc.UpdateIngredientInput{
			Name:          payload.Name,
			UnitCostCents: payload.UnitCostCents,
			IsActive:      payload.IsActive,
		}
		if payload.Unit != nil {
			unit, parseErr := enums.ParseIngredientUnit(*payload.Unit)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid unit"))
				return
			}
			input.Unit = &unit
		}
		ingredient, err := svc.UpdateIngredient(r.Context(), ingredientID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredient)
	}
}

// GetIngredient returns one ingredient with its stock record.
func GetIngredient(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}
		ingredient, err := svc.GetIngredient(r.Context(), ingredientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredient)
	}
}

// ListIngredients returns all ingredients with stock.
func ListIngredients(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := svc.ListIngredients(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"ingredients": ingredients})
	}
}

type adjustStockRequest struct {
	Delta      *decimal.Decimal `json:"delta"`
	Set        *decimal.Decimal `json:"set"`
	MinimumQty *decimal.Decimal `json:"minimum_qty"`
}

// AdjustStock applies a relative delta or absolute set to an ingredient's
// stock record.
func AdjustStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}
		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.AdjustStock(r.Context(), inventorysvc.AdjustStockInput{
			IngredientID: ingredientID,
			Delta:        payload.Delta,
			Set:          payload.Set,
			MinimumQty:   payload.MinimumQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// RestockList returns ingredients whose stock sits at or below the
// restock threshold.
func RestockList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.RestockList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
