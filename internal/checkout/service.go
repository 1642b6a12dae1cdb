package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/internal/cart"
	"github.com/flashnacks/flashnacks-backend/internal/inventory"
	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Warning records a cart line dropped at checkout.
type Warning struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Reason      string    `json:"reason"`
}

// Result is the checkout outcome: the created purchase plus any lines
// skipped because their product went unavailable.
type Result struct {
	Purchase models.Purchase `json:"purchase"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// Input carries the checkout request. Identity owns the cart; CustomerID
// is the account the purchase is recorded against.
type Input struct {
	Identity   cart.Identity
	CustomerID uuid.UUID
	Channel    enums.PurchaseChannel
}

// Service converts an active cart into a pending purchase.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	repo      Repository
	carts     cart.Repository
	tx        txRunner
	evaluator inventory.Evaluator
	metrics   *metrics.CheckoutMetrics
	strict    bool
	now       func() time.Time
}

// NewService builds the checkout service. In strict mode any unavailable
// line fails the whole checkout instead of being skipped.
func NewService(repo Repository, carts cart.Repository, tx txRunner, evaluator inventory.Evaluator, m *metrics.CheckoutMetrics, strict bool) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("availability evaluator required")
	}
	return &service{
		repo:      repo,
		carts:     carts,
		tx:        tx,
		evaluator: evaluator,
		metrics:   m,
		strict:    strict,
		now:       time.Now,
	}, nil
}

// Checkout runs in a single transaction: lock the cart, re-evaluate
// availability per line, snapshot surviving lines into a purchase, then
// empty the cart. Stock is never decremented here. Either the purchase
// and the cleared cart both commit or nothing does.
func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	if err := input.Identity.Validate(); err != nil {
		return nil, err
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required for checkout")
	}
	channel := input.Channel
	if channel == "" {
		channel = enums.PurchaseChannelWeb
	}
	if !channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase channel")
	}

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		repo := s.repo.WithTx(tx)

		locked, err := carts.FindActiveCartForUpdate(ctx, input.Identity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyCheckout, "no active cart to check out")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}
		if len(locked.Lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCheckout, "cart is empty")
		}

		productIDs := make([]uuid.UUID, 0, len(locked.Lines))
		for _, line := range locked.Lines {
			productIDs = append(productIDs, line.ProductID)
		}
		availability, err := s.evaluator.Availability(ctx, productIDs)
		if err != nil {
			return err
		}

		var surviving []models.CartLine
		var warnings []Warning
		for _, line := range locked.Lines {
			if availability[line.ProductID] {
				surviving = append(surviving, line)
				continue
			}
			if s.strict {
				return pkgerrors.New(pkgerrors.CodeUnavailable, "product is not available").
					WithDetails(map[string]string{"product_id": line.ProductID.String()})
			}
			warnings = append(warnings, Warning{
				ProductID:   line.ProductID,
				ProductName: lineProductName(line),
				Reason:      "unavailable",
			})
		}
		if len(surviving) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCheckout, "no available products in cart")
		}

		total := 0
		for _, line := range surviving {
			total += line.SubtotalCents()
		}
		purchase, err := repo.CreatePurchase(ctx, &models.Purchase{
			CustomerID: input.CustomerID,
			Status:     enums.PurchaseStatusPending,
			Channel:    channel,
			TotalCents: total,
			PlacedAt:   s.now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
		}

		frozen := make([]models.PurchaseLine, 0, len(surviving))
		for _, line := range surviving {
			frozen = append(frozen, models.PurchaseLine{
				PurchaseID:     purchase.ID,
				ProductID:      line.ProductID,
				ProductName:    lineProductName(line),
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
				SubtotalCents:  line.SubtotalCents(),
			})
		}
		if err := repo.CreatePurchaseLines(ctx, frozen); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase lines")
		}
		purchase.Lines = frozen

		if err := carts.DeleteLinesByCart(ctx, locked.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "empty cart after checkout")
		}

		result = &Result{Purchase: *purchase, Warnings: warnings}
		return nil
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeEmptyCheckout) {
			s.metrics.IncRejected("empty_cart")
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeUnavailable) {
			s.metrics.IncRejected("unavailable")
		}
		return nil, err
	}

	s.metrics.IncCompleted()
	s.metrics.AddLinesSkipped(len(result.Warnings))
	return result, nil
}

func lineProductName(line models.CartLine) string {
	if line.Product != nil {
		return line.Product.Name
	}
	return ""
}
