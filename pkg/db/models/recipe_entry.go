package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeEntry links a product to one required ingredient quantity. The
// (product, ingredient) pair is unique.
type RecipeEntry struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:recipe_entries_product_ingredient_key"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null;uniqueIndex:recipe_entries_product_ingredient_key"`
	RequiredQty  decimal.Decimal `gorm:"column:required_qty;type:numeric(10,2);not null"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
