package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type fakeRepo struct {
	restaurants map[string]*models.Restaurant
	menus       map[uuid.UUID][]models.Menu
	products    map[uuid.UUID]*models.Product
	recipes     map[uuid.UUID][]models.RecipeEntry
	assignments map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		restaurants: map[string]*models.Restaurant{},
		menus:       map[uuid.UUID][]models.Menu{},
		products:    map[uuid.UUID]*models.Product{},
		recipes:     map[uuid.UUID][]models.RecipeEntry{},
		assignments: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeRepo) ListActiveRestaurants(context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for _, r := range f.restaurants {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindRestaurantBySlug(_ context.Context, slug string) (*models.Restaurant, error) {
	if r, ok := f.restaurants[slug]; ok && r.IsActive {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListActiveMenus(_ context.Context, restaurantID uuid.UUID) ([]models.Menu, error) {
	return f.menus[restaurantID], nil
}

func (f *fakeRepo) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		copied := *p
		copied.RecipeEntries = f.recipes[id]
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeRepo) SaveProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeRepo) ReplaceRecipeEntries(_ context.Context, productID uuid.UUID, entries []models.RecipeEntry) error {
	f.recipes[productID] = entries
	return nil
}

func (f *fakeRepo) AssignProductToMenu(_ context.Context, menuID, productID uuid.UUID) error {
	f.assignments[menuID] = append(f.assignments[menuID], productID)
	return nil
}

func (f *fakeRepo) RemoveProductFromMenu(_ context.Context, menuID, productID uuid.UUID) error {
	kept := f.assignments[menuID][:0]
	for _, id := range f.assignments[menuID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	f.assignments[menuID] = kept
	return nil
}

func (f *fakeRepo) FindMenuByID(_ context.Context, id uuid.UUID) (*models.Menu, error) {
	for _, menus := range f.menus {
		for _, menu := range menus {
			if menu.ID == id {
				copied := menu
				return &copied, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeEvaluator struct {
	unavailable map[uuid.UUID]bool
}

func (f fakeEvaluator) IsAvailable(_ context.Context, id uuid.UUID) (bool, error) {
	return !f.unavailable[id], nil
}

func (f fakeEvaluator) Availability(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	for _, id := range ids {
		out[id] = !f.unavailable[id]
	}
	return out, nil
}

func newTestService(t *testing.T, repo *fakeRepo, eval fakeEvaluator) Service {
	t.Helper()
	svc, err := NewService(repo, fakeTxRunner{}, eval)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetMenuDecoratesAvailability(t *testing.T) {
	repo := newFakeRepo()
	restaurant := &models.Restaurant{ID: uuid.New(), Name: "Flash Nacks", Slug: "flash-nacks", IsActive: true}
	repo.restaurants[restaurant.Slug] = restaurant

	available := models.Product{ID: uuid.New(), Name: "burger", IsActive: true}
	missing := models.Product{ID: uuid.New(), Name: "truffle pasta", IsActive: true}
	repo.menus[restaurant.ID] = []models.Menu{{
		ID:           uuid.New(),
		RestaurantID: restaurant.ID,
		Name:         "lunch",
		IsActive:     true,
		Products:     []models.Product{available, missing},
	}}

	eval := fakeEvaluator{unavailable: map[uuid.UUID]bool{missing.ID: true}}
	svc := newTestService(t, repo, eval)

	view, err := svc.GetMenu(context.Background(), "flash-nacks")
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if !view.Availability[available.ID] {
		t.Error("expected burger available")
	}
	if view.Availability[missing.ID] {
		t.Error("expected truffle pasta unavailable")
	}
	if len(view.Menus) != 1 {
		t.Fatalf("expected 1 menu, got %d", len(view.Menus))
	}
}

func TestGetMenuUnknownSlug(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), fakeEvaluator{})
	_, err := svc.GetMenu(context.Background(), "nowhere")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductIncludesAvailabilityFlag(t *testing.T) {
	repo := newFakeRepo()
	product := &models.Product{ID: uuid.New(), Name: "soda", PriceCents: 1200, IsActive: true}
	repo.products[product.ID] = product
	svc := newTestService(t, repo, fakeEvaluator{unavailable: map[uuid.UUID]bool{product.ID: true}})

	view, err := svc.GetProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if view.Available {
		t.Error("expected unavailable flag")
	}
	if view.Product.PriceCents != 1200 {
		t.Errorf("unexpected price %d", view.Product.PriceCents)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), fakeEvaluator{})

	if _, err := svc.CreateProduct(context.Background(), CreateProductInput{PriceCents: 100}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "x", PriceCents: -1}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "burger", PriceCents: 2500})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !product.IsActive {
		t.Error("new products start active")
	}
}

func TestUpdateProductPriceDoesNotTouchCartCaptures(t *testing.T) {
	repo := newFakeRepo()
	product := &models.Product{ID: uuid.New(), Name: "burger", PriceCents: 2500, IsActive: true}
	repo.products[product.ID] = product
	svc := newTestService(t, repo, fakeEvaluator{})

	newPrice := 2800
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{PriceCents: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.PriceCents != 2800 {
		t.Fatalf("expected updated price, got %d", updated.PriceCents)
	}
}

func TestSetRecipeReplacesEntries(t *testing.T) {
	repo := newFakeRepo()
	product := &models.Product{ID: uuid.New(), Name: "burger", IsActive: true}
	repo.products[product.ID] = product
	repo.recipes[product.ID] = []models.RecipeEntry{{ProductID: product.ID, IngredientID: uuid.New()}}
	svc := newTestService(t, repo, fakeEvaluator{})

	flour := uuid.New()
	cheese := uuid.New()
	updated, err := svc.SetRecipe(context.Background(), product.ID, []RecipeEntryInput{
		{IngredientID: flour, RequiredQty: decimal.RequireFromString("2")},
		{IngredientID: cheese, RequiredQty: decimal.RequireFromString("0.5")},
	})
	if err != nil {
		t.Fatalf("SetRecipe: %v", err)
	}
	if len(updated.RecipeEntries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(updated.RecipeEntries))
	}
}

func TestSetRecipeRejectsDuplicateIngredient(t *testing.T) {
	repo := newFakeRepo()
	product := &models.Product{ID: uuid.New(), Name: "burger", IsActive: true}
	repo.products[product.ID] = product
	svc := newTestService(t, repo, fakeEvaluator{})

	flour := uuid.New()
	_, err := svc.SetRecipe(context.Background(), product.ID, []RecipeEntryInput{
		{IngredientID: flour, RequiredQty: decimal.RequireFromString("1")},
		{IngredientID: flour, RequiredQty: decimal.RequireFromString("2")},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetRecipeRejectsNonPositiveQty(t *testing.T) {
	repo := newFakeRepo()
	product := &models.Product{ID: uuid.New(), Name: "burger", IsActive: true}
	repo.products[product.ID] = product
	svc := newTestService(t, repo, fakeEvaluator{})

	_, err := svc.SetRecipe(context.Background(), product.ID, []RecipeEntryInput{
		{IngredientID: uuid.New(), RequiredQty: decimal.Zero},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
