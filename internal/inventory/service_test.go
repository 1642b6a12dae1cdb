package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type stubRepo struct {
	Repository

	entries     []models.RecipeEntry
	stock       []models.StockRecord
	ingredients map[uuid.UUID]*models.Ingredient
	upserted    *models.StockRecord
	lowStock    []models.StockRecord
}

func (s *stubRepo) ListRecipeEntriesByProducts(_ context.Context, productIDs []uuid.UUID) ([]models.RecipeEntry, error) {
	var out []models.RecipeEntry
	for _, entry := range s.entries {
		for _, id := range productIDs {
			if entry.ProductID == id {
				out = append(out, entry)
			}
		}
	}
	return out, nil
}

func (s *stubRepo) ListStockByIngredients(_ context.Context, ingredientIDs []uuid.UUID) ([]models.StockRecord, error) {
	var out []models.StockRecord
	for _, record := range s.stock {
		for _, id := range ingredientIDs {
			if record.IngredientID == id {
				out = append(out, record)
			}
		}
	}
	return out, nil
}

func (s *stubRepo) FindIngredientByID(_ context.Context, id uuid.UUID) (*models.Ingredient, error) {
	if ing, ok := s.ingredients[id]; ok {
		copied := *ing
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindStockByIngredient(_ context.Context, ingredientID uuid.UUID) (*models.StockRecord, error) {
	for _, record := range s.stock {
		if record.IngredientID == ingredientID {
			copied := record
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpsertStock(_ context.Context, record *models.StockRecord) (*models.StockRecord, error) {
	s.upserted = record
	return record, nil
}

func (s *stubRepo) ListNeedsRestock(context.Context) ([]models.StockRecord, error) {
	return s.lowStock, nil
}

func qty(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAvailabilityCoveredRecipeIsAvailable(t *testing.T) {
	productID := uuid.New()
	flour := uuid.New()
	cheese := uuid.New()

	repo := &stubRepo{
		entries: []models.RecipeEntry{
			{ProductID: productID, IngredientID: flour, RequiredQty: qty("2")},
			{ProductID: productID, IngredientID: cheese, RequiredQty: qty("0.5")},
		},
		stock: []models.StockRecord{
			{IngredientID: flour, CurrentQty: qty("10")},
			{IngredientID: cheese, CurrentQty: qty("0.5")},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	available, err := svc.IsAvailable(context.Background(), productID)
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if !available {
		t.Fatal("expected product to be available")
	}
}

func TestAvailabilityShortfallIsUnavailable(t *testing.T) {
	productID := uuid.New()
	flour := uuid.New()

	repo := &stubRepo{
		entries: []models.RecipeEntry{
			{ProductID: productID, IngredientID: flour, RequiredQty: qty("3")},
		},
		stock: []models.StockRecord{
			{IngredientID: flour, CurrentQty: qty("2.99")},
		},
	}
	svc, _ := NewService(repo)

	available, err := svc.IsAvailable(context.Background(), productID)
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if available {
		t.Fatal("expected product to be unavailable")
	}
}

func TestAvailabilityMissingStockRecordCountsAsZero(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{
		entries: []models.RecipeEntry{
			{ProductID: productID, IngredientID: uuid.New(), RequiredQty: qty("1")},
		},
	}
	svc, _ := NewService(repo)

	available, err := svc.IsAvailable(context.Background(), productID)
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if available {
		t.Fatal("ingredient without stock record must make product unavailable")
	}
}

func TestAvailabilityNoRecipeEntriesIsAvailable(t *testing.T) {
	productID := uuid.New()
	svc, _ := NewService(&stubRepo{})

	available, err := svc.IsAvailable(context.Background(), productID)
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if !available {
		t.Fatal("product with no recipe entries must be available")
	}
}

func TestAvailabilityBatchMixedResults(t *testing.T) {
	okProduct := uuid.New()
	badProduct := uuid.New()
	flour := uuid.New()
	truffle := uuid.New()

	repo := &stubRepo{
		entries: []models.RecipeEntry{
			{ProductID: okProduct, IngredientID: flour, RequiredQty: qty("1")},
			{ProductID: badProduct, IngredientID: truffle, RequiredQty: qty("5")},
		},
		stock: []models.StockRecord{
			{IngredientID: flour, CurrentQty: qty("4")},
			{IngredientID: truffle, CurrentQty: qty("1")},
		},
	}
	svc, _ := NewService(repo)

	result, err := svc.Availability(context.Background(), []uuid.UUID{okProduct, badProduct})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if !result[okProduct] {
		t.Error("expected covered product to be available")
	}
	if result[badProduct] {
		t.Error("expected short product to be unavailable")
	}
}

func TestAdjustStockDeltaAndSet(t *testing.T) {
	ingredientID := uuid.New()
	repo := &stubRepo{
		ingredients: map[uuid.UUID]*models.Ingredient{
			ingredientID: {ID: ingredientID, Name: "flour"},
		},
		stock: []models.StockRecord{
			{IngredientID: ingredientID, CurrentQty: qty("5"), MinimumQty: qty("2")},
		},
	}
	svc, _ := NewService(repo)

	delta := qty("-3")
	record, err := svc.AdjustStock(context.Background(), AdjustStockInput{
		IngredientID: ingredientID,
		Delta:        &delta,
	})
	if err != nil {
		t.Fatalf("AdjustStock delta: %v", err)
	}
	if !record.CurrentQty.Equal(qty("2")) {
		t.Fatalf("expected 2 after delta, got %s", record.CurrentQty)
	}

	set := qty("10")
	record, err = svc.AdjustStock(context.Background(), AdjustStockInput{
		IngredientID: ingredientID,
		Set:          &set,
	})
	if err != nil {
		t.Fatalf("AdjustStock set: %v", err)
	}
	if !record.CurrentQty.Equal(qty("10")) {
		t.Fatalf("expected 10 after set, got %s", record.CurrentQty)
	}
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	ingredientID := uuid.New()
	repo := &stubRepo{
		ingredients: map[uuid.UUID]*models.Ingredient{
			ingredientID: {ID: ingredientID, Name: "flour"},
		},
		stock: []models.StockRecord{
			{IngredientID: ingredientID, CurrentQty: qty("1")},
		},
	}
	svc, _ := NewService(repo)

	delta := qty("-2")
	_, err := svc.AdjustStock(context.Background(), AdjustStockInput{
		IngredientID: ingredientID,
		Delta:        &delta,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustStockRequiresExactlyOneMode(t *testing.T) {
	svc, _ := NewService(&stubRepo{})
	_, err := svc.AdjustStock(context.Background(), AdjustStockInput{IngredientID: uuid.New()})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	delta := qty("1")
	set := qty("2")
	_, err = svc.AdjustStock(context.Background(), AdjustStockInput{
		IngredientID: uuid.New(),
		Delta:        &delta,
		Set:          &set,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustStockUnknownIngredient(t *testing.T) {
	svc, _ := NewService(&stubRepo{ingredients: map[uuid.UUID]*models.Ingredient{}})
	delta := qty("1")
	_, err := svc.AdjustStock(context.Background(), AdjustStockInput{
		IngredientID: uuid.New(),
		Delta:        &delta,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestockListPairsIngredientAndStock(t *testing.T) {
	ingredientID := uuid.New()
	repo := &stubRepo{
		ingredients: map[uuid.UUID]*models.Ingredient{
			ingredientID: {ID: ingredientID, Name: "cheese"},
		},
		lowStock: []models.StockRecord{
			{IngredientID: ingredientID, CurrentQty: qty("1"), MinimumQty: qty("5")},
		},
	}
	svc, _ := NewService(repo)

	items, err := svc.RestockList(context.Background())
	if err != nil {
		t.Fatalf("RestockList: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Ingredient.Name != "cheese" {
		t.Errorf("unexpected ingredient %q", items[0].Ingredient.Name)
	}
	if !items[0].Stock.NeedsRestock() {
		t.Error("listed stock should need restock")
	}
}
