package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecord holds the on-hand and threshold quantities for one
// ingredient, in the ingredient's unit.
type StockRecord struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null;uniqueIndex:stock_records_ingredient_key"`
	CurrentQty   decimal.Decimal `gorm:"column:current_qty;type:numeric(10,2);not null"`
	MinimumQty   decimal.Decimal `gorm:"column:minimum_qty;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// NeedsRestock reports whether on-hand stock has fallen to or below the
// configured threshold.
func (s StockRecord) NeedsRestock() bool {
	return s.CurrentQty.LessThanOrEqual(s.MinimumQty)
}
