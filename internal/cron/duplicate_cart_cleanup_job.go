package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type duplicateCartRepo interface {
	ListActiveCarts(ctx context.Context, tx *gorm.DB) ([]models.Cart, error)
	RetireCarts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

// DuplicateCartCleanupJobParams configure the duplicate cart job.
type DuplicateCartCleanupJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository duplicateCartRepo
}

// NewDuplicateCartCleanupJob builds the job that repairs identities
// holding more than one active cart: the newest cart survives, the rest
// are retired.
func NewDuplicateCartCleanupJob(params DuplicateCartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("maintenance repository required")
	}
	return &duplicateCartCleanupJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
	}, nil
}

type duplicateCartCleanupJob struct {
	logg *logger.Logger
	db   txRunner
	repo duplicateCartRepo
}

func (j *duplicateCartCleanupJob) Name() string { return "duplicate-cart-cleanup" }

func (j *duplicateCartCleanupJob) Run(ctx context.Context) error {
	var retired int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		carts, err := j.repo.ListActiveCarts(ctx, tx)
		if err != nil {
			return err
		}
		losers := duplicateLosers(carts)
		rows, err := j.repo.RetireCarts(ctx, tx, losers)
		if err != nil {
			return err
		}
		retired = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("duplicate cart cleanup: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "carts_retired", retired)
	j.logg.Info(logCtx, "duplicate cart cleanup complete")
	return nil
}

// duplicateLosers returns, for each identity owning more than one cart,
// every cart except the newest. The input is ordered newest-first.
func duplicateLosers(carts []models.Cart) []uuid.UUID {
	seen := map[string]struct{}{}
	var losers []uuid.UUID
	for _, cart := range carts {
		key := identityKey(cart)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			losers = append(losers, cart.ID)
			continue
		}
		seen[key] = struct{}{}
	}
	return losers
}

func identityKey(cart models.Cart) string {
	if cart.CustomerID != nil {
		return "customer:" + cart.CustomerID.String()
	}
	if cart.SessionToken != nil {
		return "session:" + *cart.SessionToken
	}
	return ""
}
