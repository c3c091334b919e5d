// Package reserve defines the global token reserve that coin-denominated
// purchases draw from.
package reserve

import (
	"context"
	"errors"
	"fmt"
)

// DefaultInitialBalance is the size of the pool before any purchase.
const DefaultInitialBalance int64 = 1_000_000_000

// ErrInsufficientReserve is returned when a deduction exceeds the balance.
// The purchase itself is legitimate and may be retried later.
var ErrInsufficientReserve = errors.New("insufficient token reserve")

// ReserveResult reports a compare-and-decrement attempt.
type ReserveResult struct {
	OK        bool  `json:"ok"`
	Remaining int64 `json:"remaining"`
}

// Ledger is the single global balance. Implementations make Reserve one
// atomic compare-and-decrement so concurrent reservations never overdraw.
type Ledger interface {
	Balance(ctx context.Context) (int64, error)
	// Reserve deducts amount only if it fits; otherwise nothing changes and
	// OK is false.
	Reserve(ctx context.Context, amount int64) (ReserveResult, error)
	Credit(ctx context.Context, amount int64) (int64, error)
	// Subtract deducts up to amount, flooring the balance at zero.
	Subtract(ctx context.Context, amount int64) (int64, error)
	SetBalance(ctx context.Context, amount int64) (int64, error)
}

// Operation is an administrative adjustment of the reserve.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationSet      Operation = "set"
)

func (o Operation) IsValid() bool {
	return o == OperationAdd || o == OperationSubtract || o == OperationSet
}

// ValidateAmount rejects negative amounts, which would let add and subtract
// swap meaning.
func ValidateAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative: %d", amount)
	}
	return nil
}

// Apply dispatches op to the ledger and returns the new balance.
func Apply(ctx context.Context, l Ledger, op Operation, amount int64) (int64, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	switch op {
	case OperationAdd:
		return l.Credit(ctx, amount)
	case OperationSubtract:
		return l.Subtract(ctx, amount)
	case OperationSet:
		return l.SetBalance(ctx, amount)
	default:
		return 0, fmt.Errorf("unknown reserve operation: %s", op)
	}
}
