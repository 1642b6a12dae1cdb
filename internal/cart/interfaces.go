package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
)

// Repository exposes the persistence operations the cart service needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindActiveCart(ctx context.Context, identity Identity) (*models.Cart, error)
	FindActiveCartForUpdate(ctx context.Context, identity Identity) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	RetireCart(ctx context.Context, cartID uuid.UUID) error

	UpsertLineIncrement(ctx context.Context, line *models.CartLine) error
	FindLine(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)

	FindActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}
