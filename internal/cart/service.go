package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/internal/inventory"
	"github.com/flashnacks/flashnacks-backend/pkg/db"
	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// View is the cart plus its computed totals. Totals are derived on every
// read and never persisted.
type View struct {
	Cart          models.Cart `json:"cart"`
	TotalCents    int         `json:"total_cents"`
	TotalQuantity int         `json:"total_quantity"`
}

// Service is the cart aggregator.
type Service interface {
	GetOrCreateCart(ctx context.Context, identity Identity) (*models.Cart, error)
	GetCart(ctx context.Context, identity Identity) (*View, error)
	AddLine(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*View, error)
	UpdateLine(ctx context.Context, identity Identity, lineID uuid.UUID, quantity int) (*View, error)
	RemoveLine(ctx context.Context, identity Identity, lineID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, identity Identity) (*View, error)
	MergeOnLogin(ctx context.Context, sessionToken string, customerID uuid.UUID) (*View, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	evaluator inventory.Evaluator
}

// NewService builds the cart service with the required dependencies.
func NewService(repo Repository, tx txRunner, evaluator inventory.Evaluator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("availability evaluator required")
	}
	return &service{repo: repo, tx: tx, evaluator: evaluator}, nil
}

// GetOrCreateCart returns the identity's active cart, creating it when
// absent. A concurrent create that loses the race on the partial unique
// index falls back to fetching the winner's row, so both callers see the
// same cart.
func (s *service) GetOrCreateCart(ctx context.Context, identity Identity) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, s.repo, identity)
}

func (s *service) getOrCreate(ctx context.Context, repo Repository, identity Identity) (*models.Cart, error) {
	cart, err := repo.FindActiveCart(ctx, identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}

	fresh := &models.Cart{
		CustomerID:   identity.CustomerID,
		SessionToken: identity.SessionToken,
	}
	if _, err := repo.CreateCart(ctx, fresh); err != nil {
		if db.IsUniqueViolation(err, "") {
			cart, refetchErr := repo.FindActiveCart(ctx, identity)
			if refetchErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, refetchErr, "cart create race lost and refetch failed")
			}
			return cart, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return repo.FindActiveCart(ctx, identity)
}

func (s *service) GetCart(ctx context.Context, identity Identity) (*View, error) {
	cart, err := s.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

// AddLine checks availability before touching the cart, then upserts the
// line. Adding an already-present product increments its quantity; the
// unit price is captured only when the line is first created.
func (s *service) AddLine(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*View, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.repo.FindActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	available, err := s.evaluator.IsAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "product is not available").
			WithDetails(map[string]string{"product_id": productID.String()})
	}

	cart, err := s.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		CartID:         cart.ID,
		ProductID:      product.ID,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
	}
	if err := s.repo.UpsertLineIncrement(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart line")
	}
	return s.reload(ctx, identity)
}

// UpdateLine sets the line quantity. Zero removes the line; the line must
// belong to the caller's active cart.
func (s *service) UpdateLine(ctx context.Context, identity Identity, lineID uuid.UUID, quantity int) (*View, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	cart, err := s.requireActiveCart(ctx, identity)
	if err != nil {
		return nil, err
	}
	if _, err := s.findOwnedLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.repo.DeleteLine(ctx, lineID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
	} else {
		if err := s.repo.UpdateLineQuantity(ctx, lineID, quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
	}
	return s.reload(ctx, identity)
}

func (s *service) RemoveLine(ctx context.Context, identity Identity, lineID uuid.UUID) (*View, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	cart, err := s.requireActiveCart(ctx, identity)
	if err != nil {
		return nil, err
	}
	if _, err := s.findOwnedLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return s.reload(ctx, identity)
}

// ClearCart empties the active cart. The cart row itself stays active and
// reusable.
func (s *service) ClearCart(ctx context.Context, identity Identity) (*View, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	cart, err := s.repo.FindActiveCart(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.GetCart(ctx, identity)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	if err := s.repo.DeleteLinesByCart(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
	}
	return s.reload(ctx, identity)
}

// MergeOnLogin folds the anonymous session cart into the customer's
// active cart and retires the session cart. Quantities for products
// present in both carts are summed; the customer cart's captured prices
// win on conflict. The customer cart is resolved up front; the merge
// itself runs in a single transaction.
func (s *service) MergeOnLogin(ctx context.Context, sessionToken string, customerID uuid.UUID) (*View, error) {
	sessionIdentity := SessionIdentity(sessionToken)
	if err := sessionIdentity.Validate(); err != nil {
		return nil, err
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customerIdentity := CustomerIdentity(customerID)

	// Resolve the customer cart before opening the transaction. A lost
	// create race inside the tx would abort it and take the recovery
	// refetch down with it; outside, the unique-violation fallback can
	// fetch the winner's row as usual.
	customerCart, err := s.getOrCreate(ctx, s.repo, customerIdentity)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sessionCart, err := repo.FindActiveCartForUpdate(ctx, sessionIdentity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session cart")
		}

		for _, line := range sessionCart.Lines {
			merged := &models.CartLine{
				CartID:         customerCart.ID,
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
			}
			if err := repo.UpsertLineIncrement(ctx, merged); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
			}
		}

		if err := repo.DeleteLinesByCart(ctx, sessionCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop session cart lines")
		}
		if err := repo.RetireCart(ctx, sessionCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire session cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, customerIdentity)
}

func (s *service) requireActiveCart(ctx context.Context, identity Identity) (*models.Cart, error) {
	cart, err := s.repo.FindActiveCart(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return cart, nil
}

func (s *service) findOwnedLine(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := s.repo.FindLine(ctx, cartID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return line, nil
}

func (s *service) reload(ctx context.Context, identity Identity) (*View, error) {
	cart, err := s.repo.FindActiveCart(ctx, identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return viewOf(cart), nil
}

func viewOf(cart *models.Cart) *View {
	return &View{
		Cart:          *cart,
		TotalCents:    cart.TotalCents(),
		TotalQuantity: cart.TotalQuantity(),
	}
}
