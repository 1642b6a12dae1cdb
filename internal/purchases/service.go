package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
	"github.com/flashnacks/flashnacks-backend/pkg/pagination"
)

// Page is one cursor-paginated slice of a customer's purchase history.
type Page struct {
	Items      []models.Purchase `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// Service reads purchase history and drives the status state machine.
// Purchase lines never change after checkout.
type Service interface {
	List(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*Page, error)
	Get(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error)
	Complete(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error)
	Cancel(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error)
}

type service struct {
	repo Repository
}

// NewService builds the purchases service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*Page, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByCustomer(ctx, customerID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}

	page := &Page{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			PlacedAt: last.PlacedAt,
			ID:       last.ID,
		})
	}
	page.Items = rows
	return page, nil
}

func (s *service) Get(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.find(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
	}
	return purchase, nil
}

// Complete marks a pending purchase completed. Admin-only transition.
func (s *service) Complete(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	return s.transition(ctx, purchaseID, nil, enums.PurchaseStatusCompleted)
}

// Cancel marks a pending purchase cancelled on behalf of its owner.
func (s *service) Cancel(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error) {
	return s.transition(ctx, purchaseID, &customerID, enums.PurchaseStatusCancelled)
}

func (s *service) transition(ctx context.Context, purchaseID uuid.UUID, owner *uuid.UUID, next enums.PurchaseStatus) (*models.Purchase, error) {
	purchase, err := s.find(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if owner != nil && purchase.CustomerID != *owner {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
	}
	if !purchase.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("purchase is %s and cannot become %s", purchase.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, purchaseID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase status")
	}
	purchase.Status = next
	return purchase, nil
}

func (s *service) find(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	if purchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}
