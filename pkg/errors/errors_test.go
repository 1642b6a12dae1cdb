package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusUnprocessableEntity},
		{CodeEmptyCheckout, http.StatusUnprocessableEntity},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "load cart")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsThroughWrappedChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeEmptyCheckout, "nothing survived")
	outer := fmt.Errorf("checkout: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeEmptyCheckout {
		t.Fatalf("expected typed error through chain, got %v", typed)
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := New(CodeUnavailable, "no stock")
	if !HasCode(err, CodeUnavailable) {
		t.Fatal("expected HasCode match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("unexpected HasCode match")
	}
	if HasCode(nil, CodeNotFound) {
		t.Fatal("nil error must not match")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"quantity": "must be at least 1"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["quantity"] == "" {
		t.Fatalf("expected details to round-trip, got %v", err.Details())
	}
}

func TestDumpCarriesCodeAndRetryability(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "load cart")
	d := Dump(err)

	if d.Code != CodeDependency {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if !d.Retryable {
		t.Fatal("dependency failures should dump as retryable")
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", d.Chain)
	}

	if d := Dump(New(CodeValidation, "bad input")); d.Retryable {
		t.Fatal("validation failures must not dump as retryable")
	}
}

func TestDumpHintsKnownConstraints(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "carts_customer_active_key",
		TableName:      "carts",
	}
	d := Dump(fmt.Errorf("create cart: %w", pgErr))

	if d.PGCode != "23505" || d.PGTable != "carts" {
		t.Fatalf("pg fields not extracted: %+v", d)
	}
	if d.ConstraintHint != "one active cart per customer" {
		t.Fatalf("unexpected hint %q", d.ConstraintHint)
	}

	unknown := &pgconn.PgError{Code: "23505", ConstraintName: "whatever_key"}
	if d := Dump(unknown); d.ConstraintHint != "" {
		t.Fatalf("unknown constraint should have no hint, got %q", d.ConstraintHint)
	}
}
