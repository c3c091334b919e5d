package fraud

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evaluate runs the checks in fixed order and reports the first failure:
// rate limit, wallet reuse, IP velocity, daily spend, amount bounds, wallet
// format. It has no side effects.
func Evaluate(p Policy, s Snapshot, a Purchase) Decision {
	if countSince(s.MemberPurchases, a.At, p.RateWindow) >= p.MaxPurchasesPerHour {
		return rejected(ReasonRateLimit, ReasonMessage(ReasonRateLimit, p))
	}

	if otherWalletUsers(s.WalletUses, a.MemberID) >= p.MaxUsersPerWallet {
		return rejected(ReasonWalletReuse, ReasonMessage(ReasonWalletReuse, p))
	}

	if countSince(s.IPPurchases, a.At, p.VelocityWindow) >= p.MaxPurchasesPerIPPerDay {
		return rejected(ReasonIPVelocity, ReasonMessage(ReasonIPVelocity, p))
	}

	spent := sumSince(s.MemberPurchases, a.At, p.SpendWindow)
	if spent.Add(a.AmountUSD).GreaterThan(p.MaxDailySpendUSD) {
		return rejected(ReasonDailySpend, ReasonMessage(ReasonDailySpend, p))
	}

	if a.AmountUSD.LessThan(p.MinAmountUSD) || a.AmountUSD.GreaterThan(p.MaxAmountUSD) {
		return rejected(ReasonAmountBounds, ReasonMessage(ReasonAmountBounds, p))
	}

	if !p.Chain.IsValidAddress(a.WalletAddress) {
		return rejected(ReasonWalletFormat, ReasonMessage(ReasonWalletFormat, p))
	}

	return Approved()
}

func within(at, now time.Time, window time.Duration) bool {
	return now.Sub(at) < window
}

func countSince(history []Purchase, now time.Time, window time.Duration) int {
	n := 0
	for _, h := range history {
		if within(h.At, now, window) {
			n++
		}
	}
	return n
}

func sumSince(history []Purchase, now time.Time, window time.Duration) decimal.Decimal {
	total := decimal.Zero
	for _, h := range history {
		if within(h.At, now, window) {
			total = total.Add(h.AmountUSD)
		}
	}
	return total
}

func otherWalletUsers(uses []WalletUse, memberID uint) int {
	seen := make(map[uint]struct{}, len(uses))
	for _, u := range uses {
		if u.MemberID != memberID {
			seen[u.MemberID] = struct{}{}
		}
	}
	return len(seen)
}
