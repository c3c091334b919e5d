package fraud

import (
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/videocc/videocc/internal/domain/shared/valueobjects"
)

// Policy holds the thresholds of the six checks.
type Policy struct {
	MaxPurchasesPerHour     int
	RateWindow              time.Duration
	MaxUsersPerWallet       int
	MaxPurchasesPerIPPerDay int
	VelocityWindow          time.Duration
	MaxDailySpendUSD        decimal.Decimal
	SpendWindow             time.Duration
	MinAmountUSD            decimal.Decimal
	MaxAmountUSD            decimal.Decimal
	Chain                   vo.ChainType
	// Retention bounds how long history is kept at all.
	Retention time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxPurchasesPerHour:     3,
		RateWindow:              time.Hour,
		MaxUsersPerWallet:       2,
		MaxPurchasesPerIPPerDay: 5,
		VelocityWindow:          24 * time.Hour,
		MaxDailySpendUSD:        decimal.NewFromInt(100),
		SpendWindow:             24 * time.Hour,
		MinAmountUSD:            decimal.NewFromInt(1),
		MaxAmountUSD:            decimal.NewFromInt(500),
		Chain:                   vo.ChainTypeTRC,
		Retention:               30 * 24 * time.Hour,
	}
}

// LongestWindow is the oldest history any check looks at. Wallet reuse has
// no window and reads the whole retained history.
func (p Policy) LongestWindow() time.Duration {
	return max(p.RateWindow, p.VelocityWindow, p.SpendWindow)
}
