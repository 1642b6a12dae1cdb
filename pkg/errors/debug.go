package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// constraintHints maps the storefront's uniqueness constraints to a short
// human hint, so a dump of a 23505 names the invariant that fired instead
// of just the index.
var constraintHints = map[string]string{
	"carts_customer_active_key":             "one active cart per customer",
	"carts_session_active_key":              "one active cart per session",
	"cart_lines_cart_product_key":           "one line per product per cart",
	"recipe_entries_product_ingredient_key": "one recipe entry per product/ingredient pair",
	"stock_records_ingredient_key":          "one stock record per ingredient",
	"customers_email_key":                   "one account per email",
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable"`

	Chain []string `json:"chain,omitempty"`

	PGCode         string `json:"pg_code,omitempty"`
	PGConstraint   string `json:"pg_constraint,omitempty"`
	ConstraintHint string `json:"constraint_hint,omitempty"`
	PGTable        string `json:"pg_table,omitempty"`
	PGColumn       string `json:"pg_column,omitempty"`
	PGDetail       string `json:"pg_detail,omitempty"`
	PGMessage      string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.ConstraintHint = constraintHints[pgxErr.ConstraintName]
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.ConstraintHint = constraintHints[pqErr.Constraint]
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
		return d
	}

	return d
}
