package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListRecipeEntriesByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.RecipeEntry, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var entries []models.RecipeEntry
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC, ingredient_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListStockByIngredients(ctx context.Context, ingredientIDs []uuid.UUID) ([]models.StockRecord, error) {
	if len(ingredientIDs) == 0 {
		return nil, nil
	}
	var records []models.StockRecord
	err := r.db.WithContext(ctx).
		Where("ingredient_id IN ?", ingredientIDs).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *repository) FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("id = ?", id).
		First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Order("name ASC").
		Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *repository) SaveIngredient(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Save(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *repository) FindStockByIngredient(ctx context.Context, ingredientID uuid.UUID) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpsertStock(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_qty", "minimum_qty", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) ListNeedsRestock(ctx context.Context) ([]models.StockRecord, error) {
	var records []models.StockRecord
	err := r.db.WithContext(ctx).
		Where("current_qty <= minimum_qty").
		Order("ingredient_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
