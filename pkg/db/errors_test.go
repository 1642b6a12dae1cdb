package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	t.Parallel()

	err := &pgconn.PgError{Code: "23505", ConstraintName: "carts_customer_active_key"}

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected match without constraint filter")
	}
	if !IsUniqueViolation(err, "carts_customer_active_key") {
		t.Fatal("expected match on constraint name")
	}
	if IsUniqueViolation(err, "cart_lines_cart_product_key") {
		t.Fatal("unexpected match on different constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation must not match")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	t.Parallel()

	err := &pq.Error{Code: "23505", Constraint: "recipe_entries_product_ingredient_key"}
	if !IsUniqueViolation(err, "recipe_entries_product_ingredient_key") {
		t.Fatal("expected pq constraint match")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	t.Parallel()

	inner := &pgconn.PgError{Code: "23505", ConstraintName: "stock_records_ingredient_key"}
	wrapped := fmt.Errorf("create stock record: %w", inner)
	if !IsUniqueViolation(wrapped, "stock_records_ingredient_key") {
		t.Fatal("expected match through wrapping")
	}
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	t.Parallel()

	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: cart_lines.cart_id, cart_lines.product_id"), "") {
		t.Fatal("expected sqlite message fallback to match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}
