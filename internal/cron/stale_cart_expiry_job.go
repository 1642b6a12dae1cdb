package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

const defaultStaleAfter = 7 * 24 * time.Hour

type staleCartRepo interface {
	ListStaleSessionCarts(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Cart, error)
	DeleteLinesByCarts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	RetireCarts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

// StaleCartExpiryJobParams configure the stale cart job.
type StaleCartExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository staleCartRepo
	StaleAfter time.Duration
}

// NewStaleCartExpiryJob builds the job that retires anonymous carts idle
// beyond the configured window and drops their lines.
func NewStaleCartExpiryJob(params StaleCartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("maintenance repository required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &staleCartExpiryJob{
		logg:       params.Logger,
		db:         params.DB,
		repo:       params.Repository,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleCartExpiryJob struct {
	logg       *logger.Logger
	db         txRunner
	repo       staleCartRepo
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleCartExpiryJob) Name() string { return "stale-cart-expiry" }

func (j *staleCartExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	var retired int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		carts, err := j.repo.ListStaleSessionCarts(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		if len(carts) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(carts))
		for _, cart := range carts {
			ids = append(ids, cart.ID)
		}
		if _, err := j.repo.DeleteLinesByCarts(ctx, tx, ids); err != nil {
			return err
		}
		rows, err := j.repo.RetireCarts(ctx, tx, ids)
		if err != nil {
			return err
		}
		retired = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("stale cart expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"carts_retired": retired,
	})
	j.logg.Info(logCtx, "stale cart expiry complete")
	return nil
}
