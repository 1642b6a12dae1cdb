package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

// Service exposes availability evaluation plus the admin-facing
// ingredient and stock operations.
type Service interface {
	Evaluator

	CreateIngredient(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, input UpdateIngredientInput) (*models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockRecord, error)
	RestockList(ctx context.Context) ([]RestockItem, error)
}

type service struct {
	repo Repository
}

// NewService builds the inventory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

// IsAvailable reports whether every recipe entry of the product is covered
// by current stock. A product with no recipe entries is always available.
func (s *service) IsAvailable(ctx context.Context, productID uuid.UUID) (bool, error) {
	if productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	result, err := s.Availability(ctx, []uuid.UUID{productID})
	if err != nil {
		return false, err
	}
	return result[productID], nil
}

// Availability evaluates a batch of products in two queries. A missing
// stock record counts as zero on hand.
func (s *service) Availability(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		result[id] = true
	}
	if len(productIDs) == 0 {
		return result, nil
	}

	entries, err := s.repo.ListRecipeEntriesByProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipe entries")
	}
	if len(entries) == 0 {
		return result, nil
	}

	ingredientIDs := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.IngredientID]; ok {
			continue
		}
		seen[entry.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, entry.IngredientID)
	}

	records, err := s.repo.ListStockByIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock records")
	}
	onHand := make(map[uuid.UUID]decimal.Decimal, len(records))
	for _, record := range records {
		onHand[record.IngredientID] = record.CurrentQty
	}

	for _, entry := range entries {
		if !result[entry.ProductID] {
			continue
		}
		if onHand[entry.IngredientID].LessThan(entry.RequiredQty) {
			result[entry.ProductID] = false
		}
	}
	return result, nil
}

func (s *service) CreateIngredient(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ingredient unit")
	}
	if input.UnitCostCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must not be negative")
	}

	ingredient := &models.Ingredient{
		Name:          input.Name,
		Unit:          input.Unit,
		UnitCostCents: input.UnitCostCents,
		IsActive:      true,
	}
	created, err := s.repo.CreateIngredient(ctx, ingredient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ingredient")
	}

	initial := decimal.Zero
	if input.InitialQty != nil {
		initial = *input.InitialQty
	}
	minimum := decimal.Zero
	if input.MinimumQty != nil {
		minimum = *input.MinimumQty
	}
	if initial.IsNegative() || minimum.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantities must not be negative")
	}
	stock, err := s.repo.UpsertStock(ctx, &models.StockRecord{
		IngredientID: created.ID,
		CurrentQty:   initial,
		MinimumQty:   minimum,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initialize stock record")
	}
	created.Stock = stock
	return created, nil
}

func (s *service) UpdateIngredient(ctx context.Context, id uuid.UUID, input UpdateIngredientInput) (*models.Ingredient, error) {
	ingredient, err := s.findIngredient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
		}
		ingredient.Name = *input.Name
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ingredient unit")
		}
		ingredient.Unit = *input.Unit
	}
	if input.UnitCostCents != nil {
		if *input.UnitCostCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must not be negative")
		}
		ingredient.UnitCostCents = *input.UnitCostCents
	}
	if input.IsActive != nil {
		ingredient.IsActive = *input.IsActive
	}

	saved, err := s.repo.SaveIngredient(ctx, ingredient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save ingredient")
	}
	return saved, nil
}

func (s *service) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	return s.findIngredient(ctx, id)
}

func (s *service) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingredients")
	}
	return ingredients, nil
}

// AdjustStock applies a relative delta or an absolute set to the
// ingredient's stock record. Checkout never calls this; stock only moves
// through the admin surface.
func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*models.StockRecord, error) {
	if input.IngredientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}
	if (input.Delta == nil) == (input.Set == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of delta or set required")
	}

	if _, err := s.findIngredient(ctx, input.IngredientID); err != nil {
		return nil, err
	}

	record, err := s.repo.FindStockByIngredient(ctx, input.IngredientID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock record")
		}
		record = &models.StockRecord{IngredientID: input.IngredientID}
	}

	next := record.CurrentQty
	if input.Delta != nil {
		next = next.Add(*input.Delta)
	} else {
		next = *input.Set
	}
	if next.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot go negative")
	}
	record.CurrentQty = next

	if input.MinimumQty != nil {
		if input.MinimumQty.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity must not be negative")
		}
		record.MinimumQty = *input.MinimumQty
	}

	saved, err := s.repo.UpsertStock(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save stock record")
	}
	return saved, nil
}

// RestockList returns every stock record at or below its threshold,
// paired with its ingredient.
func (s *service) RestockList(ctx context.Context) ([]RestockItem, error) {
	records, err := s.repo.ListNeedsRestock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restock records")
	}
	if len(records) == 0 {
		return nil, nil
	}

	items := make([]RestockItem, 0, len(records))
	for _, record := range records {
		ingredient, err := s.findIngredient(ctx, record.IngredientID)
		if err != nil {
			return nil, err
		}
		ingredient.Stock = nil
		items = append(items, RestockItem{Ingredient: *ingredient, Stock: record})
	}
	return items, nil
}

func (s *service) findIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	ingredient, err := s.repo.FindIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}
	return ingredient, nil
}
