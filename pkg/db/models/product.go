package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. Its availability is derived from recipe
// entries against ingredient stock, never stored.
type Product struct {
	ID            uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID  *uuid.UUID    `gorm:"column:restaurant_id;type:uuid"`
	Name          string        `gorm:"column:name;not null"`
	Description   *string       `gorm:"column:description"`
	PriceCents    int           `gorm:"column:price_cents;not null"`
	IsActive      bool          `gorm:"column:is_active;not null;default:true"`
	IsFeatured    bool          `gorm:"column:is_featured;not null;default:false"`
	RecipeEntries []RecipeEntry `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
