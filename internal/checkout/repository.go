package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
)

// Repository persists the purchase records created at checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePurchase(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	CreatePurchaseLines(ctx context.Context, lines []models.PurchaseLine) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePurchase(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *repository) CreatePurchaseLines(ctx context.Context, lines []models.PurchaseLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}
