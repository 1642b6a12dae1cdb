package cron

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flashnacks/flashnacks-backend/pkg/db/models"
	"github.com/flashnacks/flashnacks-backend/pkg/enums"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeMaintenanceRepo struct {
	active     []models.Cart
	stale      []models.Cart
	retiredIDs []uuid.UUID
	deletedIDs []uuid.UUID
}

func (f *fakeMaintenanceRepo) ListActiveCarts(context.Context, *gorm.DB) ([]models.Cart, error) {
	return f.active, nil
}

func (f *fakeMaintenanceRepo) RetireCarts(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (int64, error) {
	f.retiredIDs = append(f.retiredIDs, ids...)
	return int64(len(ids)), nil
}

func (f *fakeMaintenanceRepo) ListStaleSessionCarts(context.Context, *gorm.DB, time.Time) ([]models.Cart, error) {
	return f.stale, nil
}

func (f *fakeMaintenanceRepo) DeleteLinesByCarts(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (int64, error) {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return int64(len(ids)), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func customerCart(customerID uuid.UUID, createdAt time.Time) models.Cart {
	return models.Cart{
		ID:         uuid.New(),
		CustomerID: &customerID,
		Status:     enums.CartStatusActive,
		CreatedAt:  createdAt,
	}
}

func sessionCart(token string, createdAt time.Time) models.Cart {
	return models.Cart{
		ID:           uuid.New(),
		SessionToken: &token,
		Status:       enums.CartStatusActive,
		CreatedAt:    createdAt,
	}
}

func TestDuplicateCartCleanupKeepsNewestPerIdentity(t *testing.T) {
	customerID := uuid.New()
	now := time.Now()

	// Newest-first ordering, as the repository returns them.
	newest := customerCart(customerID, now)
	middle := customerCart(customerID, now.Add(-time.Hour))
	oldest := customerCart(customerID, now.Add(-2*time.Hour))
	other := sessionCart("anon", now.Add(-time.Minute))

	repo := &fakeMaintenanceRepo{active: []models.Cart{newest, other, middle, oldest}}
	job, err := NewDuplicateCartCleanupJob(DuplicateCartCleanupJobParams{
		Logger:     testLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(repo.retiredIDs) != 2 {
		t.Fatalf("expected 2 retired carts, got %d", len(repo.retiredIDs))
	}
	for _, id := range repo.retiredIDs {
		if id == newest.ID || id == other.ID {
			t.Fatalf("survivor cart %s was retired", id)
		}
	}
}

func TestDuplicateCartCleanupNoDuplicatesIsNoOp(t *testing.T) {
	repo := &fakeMaintenanceRepo{active: []models.Cart{
		customerCart(uuid.New(), time.Now()),
		sessionCart("anon", time.Now()),
	}}
	job, _ := NewDuplicateCartCleanupJob(DuplicateCartCleanupJobParams{
		Logger:     testLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
	})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(repo.retiredIDs) != 0 {
		t.Fatalf("expected no retirements, got %d", len(repo.retiredIDs))
	}
}

func TestStaleCartExpiryRetiresAndClearsLines(t *testing.T) {
	stale := sessionCart("old-anon", time.Now().Add(-30*24*time.Hour))
	repo := &fakeMaintenanceRepo{stale: []models.Cart{stale}}
	job, err := NewStaleCartExpiryJob(StaleCartExpiryJobParams{
		Logger:     testLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
		StaleAfter: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != stale.ID {
		t.Fatal("expected stale cart lines deleted")
	}
	if len(repo.retiredIDs) != 1 || repo.retiredIDs[0] != stale.ID {
		t.Fatal("expected stale cart retired")
	}
}

func TestStaleCartExpiryNothingStale(t *testing.T) {
	repo := &fakeMaintenanceRepo{}
	job, _ := NewStaleCartExpiryJob(StaleCartExpiryJobParams{
		Logger:     testLogger(),
		DB:         fakeTxRunner{},
		Repository: repo,
	})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(repo.retiredIDs) != 0 {
		t.Fatal("expected no retirements")
	}
}
