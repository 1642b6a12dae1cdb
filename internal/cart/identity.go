package cart

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/flashnacks/flashnacks-backend/pkg/errors"
)

// Identity names the owner of a cart: a known customer or an anonymous
// session. Exactly one of the two fields is set.
type Identity struct {
	CustomerID   *uuid.UUID
	SessionToken *string
}

// CustomerIdentity builds an identity for a logged-in customer.
func CustomerIdentity(customerID uuid.UUID) Identity {
	return Identity{CustomerID: &customerID}
}

// SessionIdentity builds an identity for an anonymous session token.
func SessionIdentity(token string) Identity {
	return Identity{SessionToken: &token}
}

// Validate enforces the XOR rule on the identity fields.
func (i Identity) Validate() error {
	hasCustomer := i.CustomerID != nil && *i.CustomerID != uuid.Nil
	hasSession := i.SessionToken != nil && strings.TrimSpace(*i.SessionToken) != ""
	if hasCustomer == hasSession {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity requires exactly one of customer id or session token")
	}
	return nil
}

// IsCustomer reports whether the identity belongs to a known customer.
func (i Identity) IsCustomer() bool {
	return i.CustomerID != nil && *i.CustomerID != uuid.Nil
}
