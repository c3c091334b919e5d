// Package videocall starts, ends and bills video calls between members.
package videocall

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/quota"
	vo "github.com/videocc/videocc/internal/domain/shared/valueobjects"
	"github.com/videocc/videocc/internal/domain/videocall"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/db"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/id"
	"github.com/videocc/videocc/internal/shared/keylock"
	"github.com/videocc/videocc/internal/shared/logger"
)

// QuotaLedger is the call side of the quota ledger.
type QuotaLedger interface {
	CheckDailyVideoCallLimit(ctx context.Context, memberID uint) (quota.CallAllowance, error)
	ClaimVideoCall(ctx context.Context, memberID uint) (quota.CallAllowance, bool, error)
	RecordVideoCallSeconds(ctx context.Context, memberID uint, startedAt time.Time, seconds int) error
}

type StartCallCommand struct {
	CallerID   uint
	ReceiverID uint
}

type EndCallCommand struct {
	SessionID       uint
	MemberID        uint
	DurationSeconds int
}

type PayForCallCommand struct {
	SessionID     uint
	MemberID      uint
	Method        string
	WalletAddress string
}

type Service struct {
	members       member.Repository
	sessions      videocall.Repository
	quota         QuotaLedger
	tx            db.Transactor
	locks         *keylock.Locker
	policy        member.Policy
	costPerMinute decimal.Decimal
	chain         vo.ChainType
	clock         biztime.Clock
	logger        logger.Interface
}

func NewService(
	members member.Repository,
	sessions videocall.Repository,
	quota QuotaLedger,
	tx db.Transactor,
	locks *keylock.Locker,
	policy member.Policy,
	costPerMinute decimal.Decimal,
	chain vo.ChainType,
	clock biztime.Clock,
	logger logger.Interface,
) *Service {
	return &Service{
		members:       members,
		sessions:      sessions,
		quota:         quota,
		tx:            tx,
		locks:         locks,
		policy:        policy,
		costPerMinute: costPerMinute,
		chain:         chain,
		clock:         clock,
		logger:        logger,
	}
}

// StartCall checks the match requirement, then claims one call from the
// caller's daily quota and opens an active session at the platform rate in
// one transaction. The call counts from the moment it opens, so sessions
// left running cannot exceed the daily cap.
func (s *Service) StartCall(ctx context.Context, cmd StartCallCommand) (*StartCallResult, error) {
	if cmd.CallerID == cmd.ReceiverID {
		return nil, errors.NewValidationError("cannot call yourself")
	}

	unlock, err := s.locks.Lock(ctx, memberKey(cmd.CallerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	caller, err := s.members.GetByID(ctx, cmd.CallerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.members.GetByID(ctx, cmd.ReceiverID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	isMatch, err := s.members.IsMutualFavorite(ctx, cmd.CallerID, cmd.ReceiverID)
	if err != nil {
		return nil, err
	}
	if s.policy.RequiresMatchForCall(caller, now) && !isMatch {
		return rejectCall(ReasonMatchRequired, quota.CallAllowance{}), nil
	}

	var (
		session *videocall.Session
		limits  quota.CallAllowance
		claimed bool
	)
	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		limits, claimed, err = s.quota.ClaimVideoCall(txCtx, cmd.CallerID)
		if err != nil || !claimed {
			return err
		}

		session, err = videocall.NewSession(cmd.CallerID, cmd.ReceiverID, isMatch, s.costPerMinute, caller.IsActiveVIP(now), now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := session.Activate(now); err != nil {
			return err
		}
		if err := s.sessions.Create(txCtx, session); err != nil {
			s.logger.Errorw("failed to create video call session", "caller_id", cmd.CallerID, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return rejectCall(ReasonDailyCallLimit, limits), nil
	}

	s.logger.Infow("video call started",
		"session_id", session.ID(),
		"caller_id", cmd.CallerID,
		"receiver_id", cmd.ReceiverID,
	)
	return &StartCallResult{Allowed: true, Limits: limits, Session: ToSessionDTO(session)}, nil
}

func rejectCall(reason RejectReason, limits quota.CallAllowance) *StartCallResult {
	return &StartCallResult{Reason: reason, Message: reason.Message(), Limits: limits}
}

// EndCall bills the session and adds its duration to the caller's quota.
// The call itself was counted when it started. Only the caller may end a call.
func (s *Service) EndCall(ctx context.Context, cmd EndCallCommand) (*SessionDTO, error) {
	if cmd.DurationSeconds < 0 {
		return nil, errors.NewValidationError("duration must not be negative")
	}

	unlock, err := s.locks.LockAll(ctx, sessionKey(cmd.SessionID), memberKey(cmd.MemberID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var ended *videocall.Session
	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if session.CallerID() != cmd.MemberID {
			return errors.NewForbiddenError("only the caller can end this call")
		}
		caller, err := s.members.GetByID(txCtx, session.CallerID())
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if err := session.End(cmd.DurationSeconds, caller.IsActiveVIP(now), now); err != nil {
			return err
		}
		if err := s.sessions.Update(txCtx, session); err != nil {
			return err
		}
		if err := s.quota.RecordVideoCallSeconds(txCtx, session.CallerID(), session.StartedAt(), cmd.DurationSeconds); err != nil {
			return err
		}
		ended = session
		return nil
	})
	if err != nil {
		return nil, mapSessionError(err)
	}

	s.logger.Infow("video call ended",
		"session_id", ended.ID(),
		"duration_seconds", ended.DurationSeconds(),
		"total_cost", ended.TotalCost().StringFixed(2),
		"payment_status", ended.PaymentStatus(),
	)
	return ToSessionDTO(ended), nil
}

// PayForCall settles the bill of an ended session.
func (s *Service) PayForCall(ctx context.Context, cmd PayForCallCommand) (*SessionDTO, error) {
	method := videocall.PaymentMethod(cmd.Method)
	if !method.IsPayable() {
		return nil, errors.NewValidationError("unsupported payment method", cmd.Method)
	}
	if method == videocall.PaymentMethodCrypto && !s.chain.IsValidAddress(cmd.WalletAddress) {
		return nil, errors.NewValidationError("invalid wallet address format")
	}

	unlock, err := s.locks.Lock(ctx, sessionKey(cmd.SessionID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var paid *videocall.Session
	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if session.CallerID() != cmd.MemberID {
			return errors.NewForbiddenError("only the caller can pay for this call")
		}
		if err := session.Pay(method, id.VideoCallTransactionID(session.ID(), s.clock.Now())); err != nil {
			return err
		}
		if err := s.sessions.Update(txCtx, session); err != nil {
			return err
		}
		paid = session
		return nil
	})
	if err != nil {
		return nil, mapSessionError(err)
	}

	s.logger.Infow("video call paid",
		"session_id", paid.ID(),
		"method", method,
		"transaction_id", paid.TransactionID(),
	)
	return ToSessionDTO(paid), nil
}

// BillingHistory lists the calls a member started, newest first.
func (s *Service) BillingHistory(ctx context.Context, callerID uint) (*BillingSummary, error) {
	sessions, err := s.sessions.ListByCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	summary := &BillingSummary{Sessions: make([]*SessionDTO, 0, len(sessions)), TotalUnpaid: decimal.Zero}
	for _, session := range sessions {
		summary.Sessions = append(summary.Sessions, ToSessionDTO(session))
		if session.RequiresPayment() {
			summary.TotalUnpaid = summary.TotalUnpaid.Add(session.TotalCost())
		}
	}
	return summary, nil
}

func (s *Service) DailyLimits(ctx context.Context, memberID uint) (quota.CallAllowance, error) {
	return s.quota.CheckDailyVideoCallLimit(ctx, memberID)
}

func mapSessionError(err error) error {
	switch {
	case stderrors.Is(err, videocall.ErrSessionNotFound):
		return errors.NewNotFoundError("Session not found")
	case stderrors.Is(err, videocall.ErrAlreadyPaid):
		return errors.NewConflictError("Payment already processed")
	case stderrors.Is(err, videocall.ErrNoPaymentRequired):
		return errors.NewConflictError("No payment required")
	case stderrors.Is(err, videocall.ErrSessionEnded):
		return errors.NewConflictError("Session already ended")
	case stderrors.Is(err, videocall.ErrSessionNotActive):
		return errors.NewConflictError("Session is not active")
	default:
		return err
	}
}

func memberKey(id uint) string {
	return fmt.Sprintf("member:%d", id)
}

func sessionKey(id uint) string {
	return fmt.Sprintf("session:%d", id)
}
