package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
)

// Repository exposes the persistence operations the inventory service needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListRecipeEntriesByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.RecipeEntry, error)
	ListStockByIngredients(ctx context.Context, ingredientIDs []uuid.UUID) ([]models.StockRecord, error)

	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	SaveIngredient(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)

	FindStockByIngredient(ctx context.Context, ingredientID uuid.UUID) (*models.StockRecord, error)
	UpsertStock(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error)
	ListNeedsRestock(ctx context.Context) ([]models.StockRecord, error)
}

// Evaluator derives product availability from recipe entries and stock.
// It never mutates state.
type Evaluator interface {
	IsAvailable(ctx context.Context, productID uuid.UUID) (bool, error)
	Availability(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}
