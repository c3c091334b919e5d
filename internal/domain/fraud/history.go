package fraud

import (
	"context"
	"errors"
	"time"
)

// ErrAdmissionBusy reports that another replica is admitting a purchase for
// the same member, wallet or client IP and the wait ran out.
var ErrAdmissionBusy = errors.New("another purchase for this member, wallet or address is in progress")

// AdmissionLock makes validate, commit and record exclusive across processes
// for every purchase sharing a member, wallet or client IP with attempt.
// The returned release is safe to call once the lock has expired.
type AdmissionLock interface {
	Acquire(ctx context.Context, attempt Purchase) (release func(), err error)
}

// HistoryStore holds admitted purchases indexed by member, wallet and client IP.
// Record must update the three indexes together or not at all.
type HistoryStore interface {
	// Snapshot returns the history relevant to attempt, ignoring entries
	// older than since.
	Snapshot(ctx context.Context, attempt Purchase, since time.Time) (Snapshot, error)
	Record(ctx context.Context, p Purchase) error
	// Prune drops entries older than before and returns how many went away.
	Prune(ctx context.Context, before time.Time) (int, error)
	Analytics(ctx context.Context, q AnalyticsQuery) (Analytics, error)
}

// AnalyticsQuery carries the thresholds of the admin fraud overview.
type AnalyticsQuery struct {
	Now                   time.Time
	Since                 time.Time
	RateWindow            time.Duration
	RateLimitedAt         int
	SuspiciousWalletUsers int
	HighVolumeIPPurchases int
}

// Analytics summarises retained history for administrators.
type Analytics struct {
	TotalPurchases     int `json:"total_purchases"`
	SuspiciousWallets  int `json:"suspicious_wallets"`
	HighVolumeIPs      int `json:"high_volume_ips"`
	RateLimitedMembers int `json:"rate_limited_members"`
}

// Summarize computes Analytics over plain history slices. Stores that can
// list their indexes delegate here.
func Summarize(q AnalyticsQuery, byMember map[uint][]Purchase, byWallet map[string][]WalletUse, byIP map[string][]Purchase) Analytics {
	var a Analytics
	for _, purchases := range byMember {
		n := 0
		for _, p := range purchases {
			if p.At.Before(q.Since) {
				continue
			}
			a.TotalPurchases++
			if within(p.At, q.Now, q.RateWindow) {
				n++
			}
		}
		if n >= q.RateLimitedAt {
			a.RateLimitedMembers++
		}
	}
	for _, uses := range byWallet {
		members := make(map[uint]struct{}, len(uses))
		for _, u := range uses {
			if !u.LastUsedAt.Before(q.Since) {
				members[u.MemberID] = struct{}{}
			}
		}
		if len(members) > q.SuspiciousWalletUsers {
			a.SuspiciousWallets++
		}
	}
	for _, purchases := range byIP {
		n := 0
		for _, p := range purchases {
			if !p.At.Before(q.Since) {
				n++
			}
		}
		if n > q.HighVolumeIPPurchases {
			a.HighVolumeIPs++
		}
	}
	return a
}
