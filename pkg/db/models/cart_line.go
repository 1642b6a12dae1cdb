package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (product, quantity) entry in a cart. The unit price is
// captured when the line is created and not live-linked to the product.
type CartLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_lines_cart_product_key"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_lines_cart_product_key"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Product        *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SubtotalCents is quantity times the captured unit price.
func (l CartLine) SubtotalCents() int {
	return l.Quantity * l.UnitPriceCents
}
