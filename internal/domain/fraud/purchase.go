// Package fraud decides whether a crypto purchase attempt is admitted, based
// on the recent purchase history of the member, the wallet and the client IP.
package fraud

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseType string

const (
	PurchaseTypeVIP    PurchaseType = "vip_crypto"
	PurchaseTypeCoins  PurchaseType = "coins_crypto"
	PurchaseTypeBundle PurchaseType = "bundle_crypto"
)

func (t PurchaseType) IsValid() bool {
	switch t {
	case PurchaseTypeVIP, PurchaseTypeCoins, PurchaseTypeBundle:
		return true
	default:
		return false
	}
}

func (t PurchaseType) String() string {
	return string(t)
}

// Purchase is one admitted purchase as seen by the heuristics. Attempts and
// recorded history entries share this shape.
type Purchase struct {
	MemberID      uint
	WalletAddress string
	AmountUSD     decimal.Decimal
	ClientIP      string
	Type          PurchaseType
	At            time.Time
}

// Normalize trims the free-form inputs coming from the HTTP layer.
func (p Purchase) Normalize() Purchase {
	p.WalletAddress = strings.TrimSpace(p.WalletAddress)
	p.ClientIP = strings.TrimSpace(p.ClientIP)
	if p.ClientIP == "" {
		p.ClientIP = "unknown"
	}
	return p
}

func (p Purchase) Validate() error {
	if p.MemberID == 0 {
		return fmt.Errorf("member id is required")
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("invalid purchase type: %s", p.Type)
	}
	if p.At.IsZero() {
		return fmt.Errorf("purchase time is required")
	}
	return nil
}

// WalletUse is one member having used a wallet, with the latest use time.
type WalletUse struct {
	MemberID   uint
	LastUsedAt time.Time
}

// Snapshot is the history relevant to one attempt, read from a HistoryStore.
// Entries may be older than the evaluation windows; Evaluate filters them.
type Snapshot struct {
	MemberPurchases []Purchase
	WalletUses      []WalletUse
	IPPurchases     []Purchase
}
