package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an account that can own carts and purchases. Credentials and
// registration live outside this service; only profile data is stored here.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
