// Package quota applies the daily message, contact and call caps to members.
package quota

import (
	"context"
	"time"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/db"
	"github.com/videocc/videocc/internal/shared/logger"
)

// Ledger reads and advances the per-day counters. Exempt members see
// member.Unlimited and are never counted.
//
// Message increments are not guarded against concurrent check-then-increment
// on their own; callers hold the member's key lock across check and increment.
// Calls are claimed with ClaimVideoCall, which checks and counts under the
// counter's row lock.
//
// Day keys are taken in location, not in the process-wide business timezone.
type Ledger struct {
	members  member.Repository
	counters quota.DailyCounterRepository
	tx       db.Transactor
	policy   member.Policy
	limits   quota.Limits
	clock    biztime.Clock
	location *time.Location
	logger   logger.Interface
}

func NewLedger(
	members member.Repository,
	counters quota.DailyCounterRepository,
	tx db.Transactor,
	policy member.Policy,
	limits quota.Limits,
	clock biztime.Clock,
	location *time.Location,
	logger logger.Interface,
) *Ledger {
	if location == nil {
		location = time.UTC
	}
	return &Ledger{
		members:  members,
		counters: counters,
		tx:       tx,
		policy:   policy,
		limits:   limits,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

func (l *Ledger) Limits() quota.Limits {
	return l.limits
}

// exempt loads the member and reports whether the caps apply.
func (l *Ledger) exempt(ctx context.Context, memberID uint) (bool, error) {
	m, err := l.members.GetByID(ctx, memberID)
	if err != nil {
		return false, err
	}
	return l.policy.IsExemptFromQuota(m, l.clock.Now()), nil
}

func (l *Ledger) dayKey(t time.Time) string {
	return biztime.DayKeyIn(t, l.location)
}

func (l *Ledger) today(ctx context.Context, memberID uint) (*quota.DailyCounter, error) {
	return l.counters.Get(ctx, memberID, l.dayKey(l.clock.Now()))
}

func (l *Ledger) CheckDailyVideoCallLimit(ctx context.Context, memberID uint) (quota.CallAllowance, error) {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil {
		return quota.CallAllowance{}, err
	}
	if exempt {
		return quota.UnlimitedCallAllowance(member.Unlimited), nil
	}
	c, err := l.today(ctx, memberID)
	if err != nil {
		return quota.CallAllowance{}, err
	}
	return l.limits.CallAllowance(c), nil
}

func (l *Ledger) CheckDailyMessageLimit(ctx context.Context, memberID uint) (bool, error) {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil {
		return false, err
	}
	if exempt {
		return true, nil
	}
	c, err := l.today(ctx, memberID)
	if err != nil {
		return false, err
	}
	return l.limits.CanSendMessage(c), nil
}

func (l *Ledger) CheckDailyMessageContactLimit(ctx context.Context, memberID, targetID uint) (quota.ContactAllowance, error) {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil {
		return quota.ContactAllowance{}, err
	}
	if exempt {
		return quota.UnlimitedContactAllowance(member.Unlimited), nil
	}
	c, err := l.today(ctx, memberID)
	if err != nil {
		return quota.ContactAllowance{}, err
	}
	return l.limits.ContactAllowance(c, targetID), nil
}

func (l *Ledger) IncrementVideoCallCount(ctx context.Context, memberID uint, durationSeconds int) error {
	return l.update(ctx, memberID, func(c *quota.DailyCounter) bool {
		c.RecordCall(durationSeconds, l.clock.Now())
		return true
	})
}

// ClaimVideoCall checks the call caps and, when they allow it, counts a new
// call in the same locked read-modify-write of today's counter. It returns
// the allowance left after the claim, or the exhausted allowance and false.
// Run it in the transaction that creates the session so a failed create
// gives the call back.
func (l *Ledger) ClaimVideoCall(ctx context.Context, memberID uint) (quota.CallAllowance, bool, error) {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil {
		return quota.CallAllowance{}, false, err
	}
	if exempt {
		return quota.UnlimitedCallAllowance(member.Unlimited), true, nil
	}

	var (
		allowance quota.CallAllowance
		claimed   bool
	)
	err = l.mutate(ctx, memberID, l.dayKey(l.clock.Now()), func(c *quota.DailyCounter) bool {
		allowance = l.limits.CallAllowance(c)
		if !allowance.CanCall {
			return false
		}
		c.RecordCallStart(l.clock.Now())
		allowance = l.limits.CallAllowance(c)
		claimed = true
		return true
	})
	if err != nil {
		return quota.CallAllowance{}, false, err
	}
	return allowance, claimed, nil
}

// RecordVideoCallSeconds adds talk time to the counter of the day the call
// started on, which is where ClaimVideoCall counted it.
func (l *Ledger) RecordVideoCallSeconds(ctx context.Context, memberID uint, startedAt time.Time, seconds int) error {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil || exempt {
		return err
	}
	return l.mutate(ctx, memberID, l.dayKey(startedAt), func(c *quota.DailyCounter) bool {
		c.RecordCallSeconds(seconds, l.clock.Now())
		return true
	})
}

func (l *Ledger) IncrementDailyMessageCount(ctx context.Context, memberID uint) error {
	return l.update(ctx, memberID, func(c *quota.DailyCounter) bool {
		c.RecordMessage(l.clock.Now())
		return true
	})
}

// IncrementMessageContact adds targetID to today's contact set. It does not
// touch the message count.
func (l *Ledger) IncrementMessageContact(ctx context.Context, memberID, targetID uint) error {
	return l.update(ctx, memberID, func(c *quota.DailyCounter) bool {
		return c.RecordContact(targetID, l.clock.Now())
	})
}

func (l *Ledger) update(ctx context.Context, memberID uint, mutate func(c *quota.DailyCounter) bool) error {
	exempt, err := l.exempt(ctx, memberID)
	if err != nil {
		return err
	}
	if exempt {
		return nil
	}
	return l.mutate(ctx, memberID, l.dayKey(l.clock.Now()), mutate)
}

func (l *Ledger) mutate(ctx context.Context, memberID uint, day string, apply func(c *quota.DailyCounter) bool) error {
	return l.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		c, err := l.counters.GetForUpdate(txCtx, memberID, day)
		if err != nil {
			return err
		}
		if !apply(c) {
			return nil
		}
		if err := l.counters.Save(txCtx, c); err != nil {
			l.logger.Errorw("failed to save daily counter", "member_id", memberID, "day", day, "error", err)
			return err
		}
		return nil
	})
}
