// Package fraud admits crypto purchases through the fraud heuristics and
// keeps the purchase history they read.
package fraud

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
)

// AnalyticsThresholds tune the admin overview. A wallet is suspicious above
// SuspiciousWalletUsers members, an IP is high volume above
// HighVolumeIPPurchases purchases.
type AnalyticsThresholds struct {
	SuspiciousWalletUsers int
	HighVolumeIPPurchases int
}

func DefaultAnalyticsThresholds() AnalyticsThresholds {
	return AnalyticsThresholds{SuspiciousWalletUsers: 2, HighVolumeIPPurchases: 10}
}

// Tracker serializes validate, commit and record so that two concurrent
// attempts never both pass on the same history. The mutex covers one
// process; replicas sharing a history store also need an AdmissionLock.
type Tracker struct {
	mu         sync.Mutex
	store      fraud.HistoryStore
	lock       fraud.AdmissionLock
	policy     fraud.Policy
	thresholds AnalyticsThresholds
	clock      biztime.Clock
	logger     logger.Interface
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithAdmissionLock makes Admit exclusive across processes.
func WithAdmissionLock(lock fraud.AdmissionLock) Option {
	return func(t *Tracker) {
		t.lock = lock
	}
}

func NewTracker(
	store fraud.HistoryStore,
	policy fraud.Policy,
	thresholds AnalyticsThresholds,
	clock biztime.Clock,
	logger logger.Interface,
	opts ...Option,
) *Tracker {
	t := &Tracker{
		store:      store,
		policy:     policy,
		thresholds: thresholds,
		clock:      clock,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Policy() fraud.Policy {
	return t.policy
}

func (t *Tracker) prepare(attempt fraud.Purchase) fraud.Purchase {
	attempt = attempt.Normalize()
	if attempt.At.IsZero() {
		attempt.At = t.clock.Now()
	}
	return attempt
}

// ValidatePurchase evaluates attempt against the current history without
// recording it.
func (t *Tracker) ValidatePurchase(ctx context.Context, attempt fraud.Purchase) (fraud.Decision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.validate(ctx, t.prepare(attempt))
}

func (t *Tracker) validate(ctx context.Context, attempt fraud.Purchase) (fraud.Decision, error) {
	snap, err := t.store.Snapshot(ctx, attempt, attempt.At.Add(-t.policy.Retention))
	if err != nil {
		return fraud.Decision{}, err
	}
	return fraud.Evaluate(t.policy, snap, attempt), nil
}

// RecordPurchase adds an admitted purchase to the member, wallet and IP
// histories.
func (t *Tracker) RecordPurchase(ctx context.Context, attempt fraud.Purchase) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Record(ctx, t.prepare(attempt))
}

// Admit validates attempt and, when approved, runs commit and records the
// purchase. A rejected attempt or a failed commit leaves the history
// untouched.
func (t *Tracker) Admit(ctx context.Context, attempt fraud.Purchase, commit func(ctx context.Context, attempt fraud.Purchase) error) (fraud.Decision, error) {
	attempt = t.prepare(attempt)
	if err := attempt.Validate(); err != nil {
		return fraud.Decision{}, err
	}

	// the shared lock is taken before the mutex so a replica waiting on
	// another never stalls every admission in this process
	if t.lock != nil {
		release, err := t.lock.Acquire(ctx, attempt)
		if err != nil {
			if stderrors.Is(err, fraud.ErrAdmissionBusy) {
				return fraud.Decision{}, errors.NewTooManyRequestsError("another purchase is being processed, retry shortly")
			}
			return fraud.Decision{}, err
		}
		defer release()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	decision, err := t.validate(ctx, attempt)
	if err != nil {
		return fraud.Decision{}, err
	}
	if !decision.Valid {
		t.logger.Warnw("purchase rejected by fraud checks",
			"member_id", attempt.MemberID,
			"wallet", attempt.WalletAddress,
			"client_ip", attempt.ClientIP,
			"code", decision.Code,
		)
		return decision, nil
	}

	if err := commit(ctx, attempt); err != nil {
		return fraud.Decision{}, err
	}

	if err := t.store.Record(ctx, attempt); err != nil {
		// the purchase request is already persisted and is replayed by Warm
		t.logger.Errorw("failed to record admitted purchase",
			"member_id", attempt.MemberID,
			"error", err,
		)
	}
	return decision, nil
}

// Warm replays persisted purchase requests inside the retention window into
// the history store. Call it once before serving traffic.
func (t *Tracker) Warm(ctx context.Context, requests purchase.Repository) (int, error) {
	since := t.clock.Now().Add(-t.policy.Retention)
	list, err := requests.ListSince(ctx, since)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, req := range list {
		if err := t.store.Record(ctx, req.AsPurchase()); err != nil {
			return 0, err
		}
	}
	t.logger.Infow("fraud history warmed", "purchases", len(list))
	return len(list), nil
}

// Prune drops history older than the retention window.
func (t *Tracker) Prune(ctx context.Context) (int, error) {
	before := t.clock.Now().Add(-t.policy.Retention)
	removed, err := t.store.Prune(ctx, before)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		t.logger.Infow("pruned fraud history", "removed", removed, "before", before)
	}
	return removed, nil
}

func (t *Tracker) Analytics(ctx context.Context) (fraud.Analytics, error) {
	now := t.clock.Now()
	return t.store.Analytics(ctx, fraud.AnalyticsQuery{
		Now:                   now,
		Since:                 now.Add(-t.policy.Retention),
		RateWindow:            t.policy.RateWindow,
		RateLimitedAt:         t.policy.MaxPurchasesPerHour,
		SuspiciousWalletUsers: t.thresholds.SuspiciousWalletUsers,
		HighVolumeIPPurchases: t.thresholds.HighVolumeIPPurchases,
	})
}
