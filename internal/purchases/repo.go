package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	"github.com/flashnacks/flashnacks-backend/pkg/pagination"
)

// Repository exposes purchase reads and the single permitted write: the
// status column.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Purchase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PurchaseStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Purchase, error) {
	q := r.db.WithContext(ctx).
		Preload("Lines").
		Where("customer_id = ?", customerID).
		Order("placed_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(placed_at, id) < (?, ?)", cursor.PlacedAt, cursor.ID)
	}

	var purchases []models.Purchase
	if err := q.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PurchaseStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Update("status", status).Error
}
