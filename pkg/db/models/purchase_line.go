package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseLine freezes one cart line at the moment of purchase. Name,
// quantity, unit price and subtotal are snapshots and never recalculated.
type PurchaseLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseID     uuid.UUID `gorm:"column:purchase_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	SubtotalCents  int       `gorm:"column:subtotal_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
