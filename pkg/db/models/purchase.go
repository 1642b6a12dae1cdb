package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

// Purchase is the immutable record created at checkout. Only the status
// field may change after creation.
type Purchase struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	Status     enums.PurchaseStatus  `gorm:"column:status;not null;default:'pending'"`
	Channel    enums.PurchaseChannel `gorm:"column:channel;not null;default:'web'"`
	TotalCents int                   `gorm:"column:total_cents;not null"`
	Lines      []PurchaseLine        `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	PlacedAt   time.Time             `gorm:"column:placed_at;not null"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
