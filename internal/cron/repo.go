package cron

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

// MaintenanceRepository runs the raw queries behind the cart maintenance
// jobs. All methods operate on the provided transaction.
type MaintenanceRepository struct{}

// NewMaintenanceRepository builds the maintenance repository.
func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{}
}

// ListActiveCarts returns every active cart ordered newest-first so jobs
// can resolve per-identity duplicates deterministically.
func (MaintenanceRepository) ListActiveCarts(ctx context.Context, tx *gorm.DB) ([]models.Cart, error) {
	var carts []models.Cart
	err := tx.WithContext(ctx).
		Where("status = ?", enums.CartStatusActive).
		Order("created_at DESC").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// RetireCarts flips the given carts to retired. Returns the affected count.
func (MaintenanceRepository) RetireCarts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id IN ?", ids).
		Update("status", enums.CartStatusRetired)
	return res.RowsAffected, res.Error
}

// ListStaleSessionCarts returns anonymous active carts untouched since the
// cutoff. Customer carts are never expired.
func (MaintenanceRepository) ListStaleSessionCarts(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	err := tx.WithContext(ctx).
		Where("status = ? AND customer_id IS NULL AND updated_at < ?", enums.CartStatusActive, cutoff).
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// DeleteLinesByCarts removes all lines for the given carts.
func (MaintenanceRepository) DeleteLinesByCarts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.WithContext(ctx).
		Where("cart_id IN ?", ids).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
