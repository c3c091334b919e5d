// Package reservestore implements the token reserve ledger.
package reservestore

import (
	"context"
	"sync"

	"github.com/videocc/videocc/internal/domain/reserve"
)

var _ reserve.Ledger = (*MemoryLedger)(nil)

// MemoryLedger suits a single API process. The balance resets to the
// initial value on restart.
type MemoryLedger struct {
	mu      sync.Mutex
	balance int64
}

func NewMemoryLedger(initial int64) *MemoryLedger {
	return &MemoryLedger{balance: initial}
}

func (l *MemoryLedger) Balance(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, nil
}

func (l *MemoryLedger) Reserve(_ context.Context, amount int64) (reserve.ReserveResult, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return reserve.ReserveResult{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance < amount {
		return reserve.ReserveResult{OK: false, Remaining: l.balance}, nil
	}
	l.balance -= amount
	return reserve.ReserveResult{OK: true, Remaining: l.balance}, nil
}

func (l *MemoryLedger) Credit(_ context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
	return l.balance, nil
}

func (l *MemoryLedger) Subtract(_ context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance -= amount
	if l.balance < 0 {
		l.balance = 0
	}
	return l.balance, nil
}

func (l *MemoryLedger) SetBalance(_ context.Context, amount int64) (int64, error) {
	if err := reserve.ValidateAmount(amount); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = amount
	return l.balance, nil
}
