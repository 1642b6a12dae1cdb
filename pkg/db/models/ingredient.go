package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

// Ingredient is a raw input tracked by the inventory. At most one stock
// record exists per ingredient.
type Ingredient struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string               `gorm:"column:name;not null"`
	Unit          enums.IngredientUnit `gorm:"column:unit;not null"`
	UnitCostCents int                  `gorm:"column:unit_cost_cents;not null;default:0"`
	IsActive      bool                 `gorm:"column:is_active;not null;default:true"`
	Stock         *StockRecord         `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
