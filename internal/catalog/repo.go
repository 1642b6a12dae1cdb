package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
)

// Repository exposes catalog persistence for the read surface and the
// admin back office.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListActiveRestaurants(ctx context.Context) ([]models.Restaurant, error)
	FindRestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	ListActiveMenus(ctx context.Context, restaurantID uuid.UUID) ([]models.Menu, error)

	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error)

	ReplaceRecipeEntries(ctx context.Context, productID uuid.UUID, entries []models.RecipeEntry) error

	AssignProductToMenu(ctx context.Context, menuID, productID uuid.UUID) error
	RemoveProductFromMenu(ctx context.Context, menuID, productID uuid.UUID) error
	FindMenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActiveRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *repository) FindRestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) ListActiveMenus(ctx context.Context, restaurantID uuid.UUID) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).
		Preload("Products", "is_active = ?", true).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("name ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("RecipeEntries").
		Preload("RecipeEntries.Ingredient").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ReplaceRecipeEntries swaps the product's recipe wholesale. Callers run
// this inside a transaction.
func (r *repository) ReplaceRecipeEntries(ctx context.Context, productID uuid.UUID, entries []models.RecipeEntry) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.RecipeEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) AssignProductToMenu(ctx context.Context, menuID, productID uuid.UUID) error {
	menu := models.Menu{ID: menuID}
	return r.db.WithContext(ctx).
		Model(&menu).
		Association("Products").
		Append(&models.Product{ID: productID})
}

func (r *repository) RemoveProductFromMenu(ctx context.Context, menuID, productID uuid.UUID) error {
	menu := models.Menu{ID: menuID}
	return r.db.WithContext(ctx).
		Model(&menu).
		Association("Products").
		Delete(&models.Product{ID: productID})
}

func (r *repository) FindMenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}
