// Package messaging guards member-to-member messages with the block list,
// the daily quotas and the reply gate.
package messaging

import (
	"context"
	"fmt"

	"github.com/videocc/videocc/internal/domain/conversation"
	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/db"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/keylock"
	"github.com/videocc/videocc/internal/shared/logger"
)

// QuotaLedger is the part of the quota ledger messaging needs.
type QuotaLedger interface {
	CheckDailyMessageLimit(ctx context.Context, memberID uint) (bool, error)
	CheckDailyMessageContactLimit(ctx context.Context, memberID, targetID uint) (quota.ContactAllowance, error)
	IncrementDailyMessageCount(ctx context.Context, memberID uint) error
	IncrementMessageContact(ctx context.Context, memberID, targetID uint) error
}

type SendMessageCommand struct {
	SenderID   uint
	ReceiverID uint
	Content    string
}

type SendMessageResult struct {
	Decision SendDecision
	// Message is nil when the send was rejected.
	Message *conversation.Message
}

type Service struct {
	members       member.Repository
	conversations conversation.Repository
	messages      conversation.MessageRepository
	quota         QuotaLedger
	tx            db.Transactor
	locks         *keylock.Locker
	policy        member.Policy
	clock         biztime.Clock
	logger        logger.Interface
}

func NewService(
	members member.Repository,
	conversations conversation.Repository,
	messages conversation.MessageRepository,
	quota QuotaLedger,
	tx db.Transactor,
	locks *keylock.Locker,
	policy member.Policy,
	clock biztime.Clock,
	logger logger.Interface,
) *Service {
	return &Service{
		members:       members,
		conversations: conversations,
		messages:      messages,
		quota:         quota,
		tx:            tx,
		locks:         locks,
		policy:        policy,
		clock:         clock,
		logger:        logger,
	}
}

func (s *Service) loadPair(ctx context.Context, senderID, receiverID uint) (*member.Member, *member.Member, error) {
	if senderID == receiverID {
		return nil, nil, errors.NewValidationError("cannot message yourself")
	}
	sender, err := s.members.GetByID(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := s.members.GetByID(ctx, receiverID)
	if err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}

// CanSendMessageToUser runs the checks in order: block list, daily message
// cap, daily distinct-contact cap, reply gate. The block check is symmetric:
// the send is refused when either member has blocked the other, not only
// when the receiver blocked the sender.
func (s *Service) CanSendMessageToUser(ctx context.Context, senderID, receiverID uint) (SendDecision, error) {
	sender, receiver, err := s.loadPair(ctx, senderID, receiverID)
	if err != nil {
		return SendDecision{}, err
	}

	blocked, err := s.members.IsBlocked(ctx, senderID, receiverID)
	if err != nil {
		return SendDecision{}, err
	}
	if blocked {
		return rejected(ReasonBlocked), nil
	}

	ok, err := s.quota.CheckDailyMessageLimit(ctx, senderID)
	if err != nil {
		return SendDecision{}, err
	}
	if !ok {
		return rejected(ReasonDailyMessageLimit), nil
	}

	contacts, err := s.quota.CheckDailyMessageContactLimit(ctx, senderID, receiverID)
	if err != nil {
		return SendDecision{}, err
	}
	if !contacts.CanMessage {
		return rejected(ReasonDailyContactLimit), nil
	}

	if s.policy.RequiresReplyGate(sender.Gender(), receiver.Gender()) {
		p, err := s.conversations.Get(ctx, senderID, receiverID)
		if err != nil {
			return SendDecision{}, err
		}
		if conversation.StateOf(p) == conversation.StateWaitingForReply {
			return rejected(ReasonWaitingForReply), nil
		}
	}

	return allowed(), nil
}

// UpdateConversationState records a delivered message from sender to
// receiver. The forward direction closes when the reply gate applies, and
// an existing reverse direction is reopened because its sender got a reply.
func (s *Service) UpdateConversationState(ctx context.Context, senderID, receiverID uint) error {
	sender, receiver, err := s.loadPair(ctx, senderID, receiverID)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	gated := s.policy.RequiresReplyGate(sender.Gender(), receiver.Gender())

	return s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		forward, err := s.conversations.Get(txCtx, senderID, receiverID)
		if err != nil {
			return err
		}
		if forward == nil {
			forward, err = conversation.Open(senderID, receiverID, gated, now)
			if err != nil {
				return err
			}
		} else {
			forward.RecordSend(gated, now)
		}
		if err := s.conversations.Save(txCtx, forward); err != nil {
			return err
		}

		reverse, err := s.conversations.Get(txCtx, receiverID, senderID)
		if err != nil {
			return err
		}
		if reverse == nil {
			return nil
		}
		reverse.RecordReply(now)
		return s.conversations.Save(txCtx, reverse)
	})
}

// SendMessage checks and delivers one message. Check and effects run under
// the sender and pair locks, and the effects share one transaction.
func (s *Service) SendMessage(ctx context.Context, cmd SendMessageCommand) (*SendMessageResult, error) {
	msg, err := conversation.NewMessage(cmd.SenderID, cmd.ReceiverID, cmd.Content, s.clock.Now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	unlock, err := s.locks.LockAll(ctx, memberKey(cmd.SenderID), pairKey(cmd.SenderID, cmd.ReceiverID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	decision, err := s.CanSendMessageToUser(ctx, cmd.SenderID, cmd.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logger.Infow("message rejected",
			"sender_id", cmd.SenderID,
			"receiver_id", cmd.ReceiverID,
			"reason", decision.Reason,
		)
		return &SendMessageResult{Decision: decision}, nil
	}

	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.messages.Create(txCtx, msg); err != nil {
			return err
		}
		if err := s.UpdateConversationState(txCtx, cmd.SenderID, cmd.ReceiverID); err != nil {
			return err
		}
		if err := s.quota.IncrementDailyMessageCount(txCtx, cmd.SenderID); err != nil {
			return err
		}
		return s.quota.IncrementMessageContact(txCtx, cmd.SenderID, cmd.ReceiverID)
	})
	if err != nil {
		s.logger.Errorw("failed to deliver message",
			"sender_id", cmd.SenderID,
			"receiver_id", cmd.ReceiverID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Infow("message sent", "message_id", msg.ID(), "sender_id", cmd.SenderID, "receiver_id", cmd.ReceiverID)
	return &SendMessageResult{Decision: decision, Message: msg}, nil
}

// MessageLimits reports the sender's remaining quota towards target.
func (s *Service) MessageLimits(ctx context.Context, senderID, targetID uint) (*MessageLimits, error) {
	ok, err := s.quota.CheckDailyMessageLimit(ctx, senderID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.quota.CheckDailyMessageContactLimit(ctx, senderID, targetID)
	if err != nil {
		return nil, err
	}
	return &MessageLimits{CanSendMessage: ok, Contacts: contacts}, nil
}

func memberKey(id uint) string {
	return fmt.Sprintf("member:%d", id)
}

func pairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("pair:%d:%d", a, b)
}
