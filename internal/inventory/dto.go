package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

// CreateIngredientInput carries the fields for a new ingredient. Stock
// starts at zero unless initial quantities are given.
type CreateIngredientInput struct {
	Name          string
	Unit          enums.IngredientUnit
	UnitCostCents int
	InitialQty    *decimal.Decimal
	MinimumQty    *decimal.Decimal
}

// UpdateIngredientInput holds optional ingredient field updates.
type UpdateIngredientInput struct {
	Name          *string
	Unit          *enums.IngredientUnit
	UnitCostCents *int
	IsActive      *bool
}

// AdjustStockInput changes an ingredient's stock record. Exactly one of
// Delta or Set must be provided; MinimumQty optionally retunes the
// restock threshold.
type AdjustStockInput struct {
	IngredientID uuid.UUID
	Delta        *decimal.Decimal
	Set          *decimal.Decimal
	MinimumQty   *decimal.Decimal
}

// RestockItem pairs a low stock record with its ingredient for the admin
// restock listing.
type RestockItem struct {
	Ingredient models.Ingredient  `json:"ingredient"`
	Stock      models.StockRecord `json:"stock"`
}
