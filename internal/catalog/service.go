package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/internal/inventory"
	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductView is a product decorated with its derived availability.
type ProductView struct {
	Product   models.Product `json:"product"`
	Available bool           `json:"available"`
}

// MenuView is a restaurant's active menus with per-product availability.
type MenuView struct {
	Restaurant   models.Restaurant  `json:"restaurant"`
	Menus        []models.Menu      `json:"menus"`
	Availability map[uuid.UUID]bool `json:"availability"`
}

// CreateProductInput carries the admin fields for a new product.
type CreateProductInput struct {
	RestaurantID *uuid.UUID
	Name         string
	Description  *string
	PriceCents   int
	IsFeatured   bool
}

// UpdateProductInput holds optional product field updates.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	IsActive    *bool
	IsFeatured  *bool
}

// RecipeEntryInput is one (ingredient, quantity) pair for SetRecipe.
type RecipeEntryInput struct {
	IngredientID uuid.UUID
	RequiredQty  decimal.Decimal
}

// Service is the catalog read surface plus the admin product operations.
type Service interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetMenu(ctx context.Context, slug string) (*MenuView, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	SetRecipe(ctx context.Context, productID uuid.UUID, entries []RecipeEntryInput) (*models.Product, error)
	AssignProductToMenu(ctx context.Context, menuID, productID uuid.UUID) error
	RemoveProductFromMenu(ctx context.Context, menuID, productID uuid.UUID) error
}

type service struct {
	repo      Repository
	tx        txRunner
	evaluator inventory.Evaluator
}

// NewService builds the catalog service.
func NewService(repo Repository, tx txRunner, evaluator inventory.Evaluator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("availability evaluator required")
	}
	return &service{repo: repo, tx: tx, evaluator: evaluator}, nil
}

func (s *service) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := s.repo.ListActiveRestaurants(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return restaurants, nil
}

func (s *service) GetMenu(ctx context.Context, slug string) (*MenuView, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant slug required")
	}
	restaurant, err := s.repo.FindRestaurantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	menus, err := s.repo.ListActiveMenus(ctx, restaurant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menus")
	}

	var productIDs []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, menu := range menus {
		for _, product := range menu.Products {
			if _, ok := seen[product.ID]; ok {
				continue
			}
			seen[product.ID] = struct{}{}
			productIDs = append(productIDs, product.ID)
		}
	}
	availability, err := s.evaluator.Availability(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	return &MenuView{
		Restaurant:   *restaurant,
		Menus:        menus,
		Availability: availability,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	available, err := s.evaluator.IsAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: *product, Available: available}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	product := &models.Product{
		RestaurantID: input.RestaurantID,
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		IsActive:     true,
		IsFeatured:   input.IsFeatured,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	// Changing the price only affects future cart lines; captured unit
	// prices on existing lines stay as they were.
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return saved, nil
}

// SetRecipe replaces the product's recipe entries in one transaction.
// Duplicate ingredients in the input are rejected before touching the DB.
func (s *service) SetRecipe(ctx context.Context, productID uuid.UUID, entries []RecipeEntryInput) (*models.Product, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]struct{}{}
	rows := make([]models.RecipeEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IngredientID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
		}
		if !entry.RequiredQty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "required quantity must be positive")
		}
		if _, dup := seen[entry.IngredientID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate ingredient in recipe")
		}
		seen[entry.IngredientID] = struct{}{}
		rows = append(rows, models.RecipeEntry{
			ProductID:    productID,
			IngredientID: entry.IngredientID,
			RequiredQty:  entry.RequiredQty,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).ReplaceRecipeEntries(ctx, productID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace recipe entries")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.findProduct(ctx, productID)
}

func (s *service) AssignProductToMenu(ctx context.Context, menuID, productID uuid.UUID) error {
	if err := s.requireMenuAndProduct(ctx, menuID, productID); err != nil {
		return err
	}
	if err := s.repo.AssignProductToMenu(ctx, menuID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign product to menu")
	}
	return nil
}

func (s *service) RemoveProductFromMenu(ctx context.Context, menuID, productID uuid.UUID) error {
	if err := s.requireMenuAndProduct(ctx, menuID, productID); err != nil {
		return err
	}
	if err := s.repo.RemoveProductFromMenu(ctx, menuID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove product from menu")
	}
	return nil
}

func (s *service) requireMenuAndProduct(ctx context.Context, menuID, productID uuid.UUID) error {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return err
	}
	if _, err := s.repo.FindMenuByID(ctx, menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return nil
}

func (s *service) findProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
