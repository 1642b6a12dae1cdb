package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

// Cart is the mutable working set of lines for one identity. Exactly one of
// CustomerID or SessionToken is set. At most one active cart exists per
// identity, enforced by partial unique indexes.
type Cart struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   *uuid.UUID       `gorm:"column:customer_id;type:uuid"`
	SessionToken *string          `gorm:"column:session_token"`
	Status       enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Lines        []CartLine       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalCents sums quantity times captured unit price over all lines.
// Totals are always recomputed, never stored.
func (c Cart) TotalCents() int {
	total := 0
	for _, line := range c.Lines {
		total += line.SubtotalCents()
	}
	return total
}

// TotalQuantity sums line quantities.
func (c Cart) TotalQuantity() int {
	qty := 0
	for _, line := range c.Lines {
		qty += line.Quantity
	}
	return qty
}
