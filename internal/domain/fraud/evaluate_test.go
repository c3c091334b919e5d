package fraud

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const (
	walletA = "TAbcdefghijklmnopqrstuvwxyz1234567"
	walletB = "TBbcdefghijklmnopqrstuvwxyz1234567"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func usd(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func attempt(memberID uint, wallet string, amount int64) Purchase {
	return Purchase{
		MemberID:      memberID,
		WalletAddress: wallet,
		AmountUSD:     usd(amount),
		ClientIP:      "203.0.113.7",
		Type:          PurchaseTypeCoins,
		At:            now,
	}
}

func past(memberID uint, amount int64, ago time.Duration) Purchase {
	p := attempt(memberID, walletA, amount)
	p.At = now.Add(-ago)
	return p
}

func TestEvaluateApprovesCleanAttempt(t *testing.T) {
	d := Evaluate(DefaultPolicy(), Snapshot{}, attempt(1, walletA, 10))
	assert.Equal(t, Approved(), d)
}

func TestEvaluateChecks(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		attempt  Purchase
		want     ReasonCode
	}{
		{
			name: "fourth purchase within the hour",
			snapshot: Snapshot{MemberPurchases: []Purchase{
				past(1, 5, 50*time.Minute), past(1, 5, 20*time.Minute), past(1, 5, time.Minute),
			}},
			attempt: attempt(1, walletA, 5),
			want:    ReasonRateLimit,
		},
		{
			name:     "wallet used by two other members",
			snapshot: Snapshot{WalletUses: []WalletUse{{MemberID: 2, LastUsedAt: now}, {MemberID: 3, LastUsedAt: now}}},
			attempt:  attempt(1, walletA, 10),
			want:     ReasonWalletReuse,
		},
		{
			name: "ip velocity",
			snapshot: Snapshot{IPPurchases: []Purchase{
				past(2, 5, time.Hour), past(3, 5, 2*time.Hour), past(4, 5, 3*time.Hour),
				past(5, 5, 4*time.Hour), past(6, 5, 23*time.Hour),
			}},
			attempt: attempt(1, walletA, 10),
			want:    ReasonIPVelocity,
		},
		{
			name:     "daily spend",
			snapshot: Snapshot{MemberPurchases: []Purchase{past(1, 95, 3*time.Hour)}},
			attempt:  attempt(1, walletA, 6),
			want:     ReasonDailySpend,
		},
		{
			name:    "amount below minimum",
			attempt: attempt(1, walletA, 0),
			want:    ReasonAmountBounds,
		},
		{
			name:    "wallet format",
			attempt: attempt(1, "0x1234", 10),
			want:    ReasonWalletFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(DefaultPolicy(), tt.snapshot, tt.attempt)
			assert.False(t, d.Valid)
			assert.Equal(t, tt.want, d.Code)
			assert.Equal(t, ReasonMessage(tt.want, DefaultPolicy()), d.Reason)
		})
	}
}

func TestEvaluateOrderReportsFirstFailure(t *testing.T) {
	s := Snapshot{
		MemberPurchases: []Purchase{past(1, 5, time.Minute), past(1, 5, 2*time.Minute), past(1, 5, 3*time.Minute)},
		WalletUses:      []WalletUse{{MemberID: 2, LastUsedAt: now}, {MemberID: 3, LastUsedAt: now}},
	}

	d := Evaluate(DefaultPolicy(), s, attempt(1, "bad", 900))
	assert.Equal(t, ReasonRateLimit, d.Code)
	assert.Equal(t, "Rate limit exceeded: Maximum 3 purchases per hour", d.Reason)
}

func TestEvaluateWindowsExpire(t *testing.T) {
	s := Snapshot{
		MemberPurchases: []Purchase{past(1, 90, 25*time.Hour), past(1, 5, 61*time.Minute), past(1, 5, 62*time.Minute), past(1, 5, 63*time.Minute)},
	}

	assert.True(t, Evaluate(DefaultPolicy(), s, attempt(1, walletA, 50)).Valid)
}

func TestEvaluateWalletReuseToleratesKnownMember(t *testing.T) {
	s := Snapshot{WalletUses: []WalletUse{{MemberID: 1, LastUsedAt: now}, {MemberID: 2, LastUsedAt: now}}}

	assert.True(t, Evaluate(DefaultPolicy(), s, attempt(1, walletA, 10)).Valid)
	assert.True(t, Evaluate(DefaultPolicy(), s, attempt(2, walletA, 10)).Valid)
	assert.Equal(t, ReasonWalletReuse, Evaluate(DefaultPolicy(), s, attempt(3, walletA, 10)).Code)
}

func TestEvaluateSpendCapIsInclusive(t *testing.T) {
	s := Snapshot{MemberPurchases: []Purchase{past(1, 60, time.Hour)}}

	assert.True(t, Evaluate(DefaultPolicy(), s, attempt(1, walletA, 40)).Valid)
	assert.Equal(t, ReasonDailySpend, Evaluate(DefaultPolicy(), s, attempt(1, walletA, 41)).Code)
}

func TestEvaluateAmountBoundsWithRelaxedSpendCap(t *testing.T) {
	p := DefaultPolicy()
	p.MaxDailySpendUSD = usd(10000)

	assert.True(t, Evaluate(p, Snapshot{}, attempt(1, walletA, 500)).Valid)
	d := Evaluate(p, Snapshot{}, attempt(1, walletA, 501))
	assert.Equal(t, ReasonAmountBounds, d.Code)
	assert.Equal(t, "Invalid amount: Must be between $1 and $500", d.Reason)
}

func TestEvaluatePolygonChain(t *testing.T) {
	p := DefaultPolicy()
	p.Chain = "pol"

	assert.Equal(t, ReasonWalletFormat, Evaluate(p, Snapshot{}, attempt(1, walletA, 10)).Code)
	assert.True(t, Evaluate(p, Snapshot{}, attempt(1, "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", 10)).Valid)
}

func TestPurchaseNormalizeAndValidate(t *testing.T) {
	p := Purchase{MemberID: 1, WalletAddress: "  " + walletB + " ", Type: PurchaseTypeBundle, At: now}.Normalize()
	assert.Equal(t, walletB, p.WalletAddress)
	assert.Equal(t, "unknown", p.ClientIP)
	assert.NoError(t, p.Validate())

	assert.Error(t, Purchase{MemberID: 1, Type: "gift", At: now}.Validate())
	assert.Error(t, Purchase{Type: PurchaseTypeVIP, At: now}.Validate())
}

func TestSummarize(t *testing.T) {
	q := AnalyticsQuery{
		Now:                   now,
		Since:                 now.Add(-30 * 24 * time.Hour),
		RateWindow:            time.Hour,
		RateLimitedAt:         3,
		SuspiciousWalletUsers: 2,
		HighVolumeIPPurchases: 10,
	}
	byMember := map[uint][]Purchase{
		1: {past(1, 5, time.Minute), past(1, 5, 2*time.Minute), past(1, 5, 3*time.Minute)},
		2: {past(2, 5, 5*time.Hour), past(2, 5, 40*24*time.Hour)},
	}
	byWallet := map[string][]WalletUse{
		walletA: {{MemberID: 1, LastUsedAt: now}, {MemberID: 2, LastUsedAt: now}, {MemberID: 3, LastUsedAt: now}},
		walletB: {{MemberID: 1, LastUsedAt: now}},
	}
	ipPurchases := make([]Purchase, 11)
	for i := range ipPurchases {
		ipPurchases[i] = past(uint(i+1), 1, time.Duration(i)*time.Hour)
	}
	byIP := map[string][]Purchase{"203.0.113.7": ipPurchases, "198.51.100.1": ipPurchases[:2]}

	a := Summarize(q, byMember, byWallet, byIP)
	assert.Equal(t, Analytics{TotalPurchases: 4, SuspiciousWallets: 1, HighVolumeIPs: 1, RateLimitedMembers: 1}, a)
}
