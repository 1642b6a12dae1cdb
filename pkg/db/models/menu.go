package models

import (
	"time"

	"github.com/google/uuid"
)

// Menu is a published set of products for one restaurant.
type Menu struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null"`
	Name         string     `gorm:"column:name;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	Products     []Product  `gorm:"many2many:menu_products"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
