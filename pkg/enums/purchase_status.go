package enums

import "fmt"

// PurchaseStatus models the purchase lifecycle. Pending purchases may move
// to completed or cancelled; both of those are terminal.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPending,
	PurchaseStatusCompleted,
	PurchaseStatusCancelled,
}

func (p PurchaseStatus) String() string {
	return string(p)
}

func (p PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (p PurchaseStatus) IsTerminal() bool {
	return p == PurchaseStatusCompleted || p == PurchaseStatusCancelled
}

// CanTransitionTo enforces pending -> completed|cancelled only.
func (p PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	return p == PurchaseStatusPending && next.IsTerminal()
}

func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
