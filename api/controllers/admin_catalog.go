package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flashnacks/flashnacks-backend/api/responses"
	"github.com/flashnacks/flashnacks-backend/api/validators"
	catalogsvc "github.com/flashnacks/flashnacks-backend/internal/catalog"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

type createProductRequest struct {
	RestaurantID *uuid.UUID `json:"restaurant_id"`
	Name         string     `json:"name" validate:"required"`
	Description  *string    `json:"description"`
	PriceCents   int        `json:"price_cents" validate:"min=0"`
	IsFeatured   bool       `json:"is_featured"`
}

// CreateProduct registers a new product.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), catalogsvc.CreateProductInput{
			RestaurantID: payload.RestaurantID,
			Name:         payload.Name,
			Description:  payload.Description,
			PriceCents:   payload.PriceCents,
			IsFeatured:   payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"price_cents" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active"`
	IsFeatured  *bool   `json:"is_featured"`
}

// UpdateProduct applies partial product updates. Price changes never
// touch prices already captured on cart or purchase lines.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), productID, catalogsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type recipeEntryPayload struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"required"`
	RequiredQty  decimal.Decimal `json:"required_qty" validate:"required"`
}

type setRecipeRequest struct {
	Entries []recipeEntryPayload `json:"entries" validate:"dive"`
}

// SetRecipe replaces a product's recipe wholesale.
func SetRecipe(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		var payload setRecipeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries := make([]catalogsvc.RecipeEntryInput, 0, len(payload.Entries))
		for _, entry := range payload.Entries {
			entries = append(entries, catalogsvc.RecipeEntryInput{
				IngredientID: entry.IngredientID,
				RequiredQty:  entry.RequiredQty,
			})
		}
		product, err := svc.SetRecipe(r.Context(), productID, entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AssignProductToMenu adds a product to a menu.
func AssignProductToMenu(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := uuid.Parse(chi.URLParam(r, "menuID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu id"))
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.AssignProductToMenu(r.Context(), menuID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "assigned"})
	}
}

// RemoveProductFromMenu detaches a product from a menu.
func RemoveProductFromMenu(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := uuid.Parse(chi.URLParam(r, "menuID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu id"))
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if err := svc.RemoveProductFromMenu(r.Context(), menuID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
