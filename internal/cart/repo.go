package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) activeCartQuery(ctx context.Context, identity Identity) *gorm.DB {
	q := r.db.WithContext(ctx).Where("status = ?", enums.CartStatusActive)
	if identity.IsCustomer() {
		return q.Where("customer_id = ?", *identity.CustomerID)
	}
	return q.Where("session_token = ?", *identity.SessionToken)
}

func (r *repository) FindActiveCart(ctx context.Context, identity Identity) (*models.Cart, error) {
	var cart models.Cart
	err := r.activeCartQuery(ctx, identity).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Preload("Lines.Product").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindActiveCartForUpdate(ctx context.Context, identity Identity) (*models.Cart, error) {
	var cart models.Cart
	err := r.activeCartQuery(ctx, identity).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	lines, err := r.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return &cart, nil
}

func (r *repository) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) RetireCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("status", enums.CartStatusRetired).Error
}

// UpsertLineIncrement inserts the line or, when the (cart, product) pair
// already exists, adds the quantity onto the existing row. The unit price
// is only written on insert.
func (r *repository) UpsertLineIncrement(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_lines.quantity + excluded.quantity"),
			}),
		}).
		Create(line).Error
}

func (r *repository) FindLine(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&models.CartLine{}).Error
}

func (r *repository) DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLine{}).Error
}

func (r *repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) FindActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
